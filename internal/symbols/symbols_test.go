package symbols_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/brailledle/internal/symbols"
)

func TestParsePattern(t *testing.T) {
	p, err := symbols.ParsePattern("100000")
	require.NoError(t, err)
	require.Equal(t, symbols.Pattern(0b100000), p)
	require.Equal(t, "100000", p.String())
	require.Equal(t, []int{1}, p.Dots())

	p, err = symbols.ParsePattern("011110")
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4, 5}, p.Dots())
	require.True(t, p.Has(5))
	require.False(t, p.Has(6))
	require.False(t, p.Has(0))

	for _, bad := range []string{"", "10000", "1000000", "10a000"} {
		_, err := symbols.ParsePattern(bad)
		require.Error(t, err, bad)
	}
}

func TestPatternCovers(t *testing.T) {
	require.True(t, symbols.Full.Covers(symbols.MustPattern("101010")))
	require.False(t, symbols.MustPattern("100000").Covers(symbols.MustPattern("110000")))
}

func TestDefaultMap(t *testing.T) {
	m, err := symbols.Default(symbols.Options{Bijective: true})
	require.NoError(t, err)
	require.Equal(t, 6, m.Width())
	require.Equal(t, 63, m.Len())

	p, ok := m.Encode('a')
	require.True(t, ok)
	require.Equal(t, "100000", p.String())

	p, ok = m.Encode('6')
	require.True(t, ok)
	require.Equal(t, "011010", p.String())

	r, ok := m.Decode(symbols.MustPattern("011110"))
	require.True(t, ok)
	require.Equal(t, 't', r)

	_, ok = m.Decode(0)
	require.False(t, ok, "the blank cell has no owner")

	require.True(t, m.Contains('z'))
	require.False(t, m.Contains('A'))
	require.False(t, m.Contains(' '))
	require.Equal(t, 'a', m.Chars()[0])
}

func TestEncodeDecodeString(t *testing.T) {
	m, err := symbols.Default(symbols.Options{Bijective: true})
	require.NoError(t, err)

	ps, err := m.EncodeString("a6ect")
	require.NoError(t, err)
	require.Len(t, ps, 5)
	require.Equal(t, "a6ect", m.DecodeString(ps, '·'))

	_, err = m.EncodeString("aXb")
	require.Error(t, err)

	require.Equal(t, "a··", m.DecodeString([]symbols.Pattern{ps[0], 0, 0}, '·'))
}

func TestDecodeStringBlankCellIsPlaceholder(t *testing.T) {
	m, err := symbols.Load("test", []byte(`{"a":"100000"," ":"000000"}`), symbols.Options{Bijective: true})
	require.NoError(t, err)

	r, ok := m.Decode(0)
	require.True(t, ok)
	require.Equal(t, ' ', r)
	require.Equal(t, "a_", m.DecodeString([]symbols.Pattern{symbols.MustPattern("100000"), 0}, '_'))
	require.Equal(t, "__", m.DecodeString([]symbols.Pattern{symbols.MustPattern("010000"), 0}, '_'))
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"a":`,
		"not object":   `["100000"]`,
		"empty":        `{}`,
		"long key":     `{"ab":"100000"}`,
		"empty key":    `{"":"100000"}`,
		"number value": `{"a":100000}`,
		"short value":  `{"a":"10000"}`,
		"bad digit":    `{"a":"10000x"}`,
		"duplicate":    `{"a":"100000","a":"110000"}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := symbols.Load("test", []byte(src), symbols.Options{})
			require.Error(t, err)
			require.True(t, errors.Is(err, symbols.ErrMapLoad))
			var le *symbols.LoadError
			require.ErrorAs(t, err, &le)
			require.Equal(t, "test", le.Source)
		})
	}
}

func TestLoadCollisions(t *testing.T) {
	src := []byte(`{"a":"100000","1":"100000","b":"110000"}`)

	_, err := symbols.Load("test", src, symbols.Options{Bijective: true})
	require.ErrorIs(t, err, symbols.ErrMapLoad)
	var le *symbols.LoadError
	require.ErrorAs(t, err, &le)
	require.Equal(t, "1", le.Key)

	m, err := symbols.Load("test", src, symbols.Options{})
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())
	r, ok := m.Decode(symbols.MustPattern("100000"))
	require.True(t, ok)
	require.Equal(t, 'a', r, "first registered character owns the pattern")
	p, ok := m.Encode('1')
	require.True(t, ok)
	require.Equal(t, "100000", p.String())
}

func TestJSONRoundTrip(t *testing.T) {
	m, err := symbols.Default(symbols.Options{Bijective: true})
	require.NoError(t, err)

	again, err := symbols.Load("roundtrip", m.JSON(), symbols.Options{Bijective: true})
	require.NoError(t, err)
	require.Equal(t, m.Chars(), again.Chars())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x":"101101"}`), 0o644))

	m, err := symbols.LoadFile(path, symbols.Options{Bijective: true})
	require.NoError(t, err)
	require.True(t, m.Contains('x'))

	_, err = symbols.LoadFile(filepath.Join(dir, "missing.json"), symbols.Options{})
	require.ErrorIs(t, err, symbols.ErrMapLoad)
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/map.json":
			_, _ = w.Write([]byte(`{"a":"100000","b":"110000"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	m, err := symbols.Fetch(context.Background(), ts.Client(), ts.URL+"/map.json", symbols.Options{Bijective: true})
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	_, err = symbols.Fetch(context.Background(), ts.Client(), ts.URL+"/nope.json", symbols.Options{})
	require.ErrorIs(t, err, symbols.ErrMapLoad)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = symbols.Fetch(ctx, ts.Client(), ts.URL+"/map.json", symbols.Options{})
	require.ErrorIs(t, err, symbols.ErrMapLoad)
}
