// internal/symbols/symbols.go
//
// Character ↔ dot pattern map.
// Responsibilities:
//   - Parse a flat JSON object of single characters to Width-digit binary
//     strings, in document order.
//   - Build the forward map (total over the alphabet) and the reverse map
//     (partial; first registered character wins).
//   - Optionally enforce bijectivity and fail on shared patterns.
//
// A Map is immutable after Load and safe for concurrent readers.

package symbols

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/robalobadob/brailledle/assets"
)

// Options tunes how a source is turned into a Map.
type Options struct {
	// Bijective rejects sources where two characters share a pattern.
	// When false the first character in document order owns the pattern
	// for Decode.
	Bijective bool
}

// Map is the loaded symbol table.
type Map struct {
	forward map[rune]Pattern
	reverse map[Pattern]rune
	order   []rune
}

// Load builds a Map from JSON bytes. source is only used in errors.
func Load(source string, data []byte, opts Options) (*Map, error) {
	if !gjson.ValidBytes(data) {
		return nil, &LoadError{Source: source, Err: errors.New("invalid JSON")}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &LoadError{Source: source, Err: errors.New("not a JSON object")}
	}

	m := &Map{
		forward: make(map[rune]Pattern),
		reverse: make(map[Pattern]rune),
	}
	var loadErr error
	root.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		r, size := utf8.DecodeRuneInString(k)
		if k == "" || size != len(k) || r == utf8.RuneError {
			loadErr = &LoadError{Source: source, Key: k, Err: errors.New("key must be a single character")}
			return false
		}
		if value.Type != gjson.String {
			loadErr = &LoadError{Source: source, Key: k, Err: fmt.Errorf("value must be a string, got %s", value.Type)}
			return false
		}
		p, err := ParsePattern(value.Str)
		if err != nil {
			loadErr = &LoadError{Source: source, Key: k, Err: err}
			return false
		}
		if _, dup := m.forward[r]; dup {
			loadErr = &LoadError{Source: source, Key: k, Err: errors.New("duplicate key")}
			return false
		}
		if owner, taken := m.reverse[p]; taken {
			if opts.Bijective {
				loadErr = &LoadError{Source: source, Key: k, Err: fmt.Errorf("pattern %s already used by %q", p, owner)}
				return false
			}
		} else {
			m.reverse[p] = r
		}
		m.forward[r] = p
		m.order = append(m.order, r)
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}
	if len(m.forward) == 0 {
		return nil, &LoadError{Source: source, Err: errors.New("map is empty")}
	}
	return m, nil
}

// LoadFile reads a map from disk.
func LoadFile(path string, opts Options) (*Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return Load(path, b, opts)
}

// Default loads the embedded Braille ASCII map.
func Default(opts Options) (*Map, error) {
	b, err := assets.SymbolMap()
	if err != nil {
		return nil, &LoadError{Source: "embedded", Err: err}
	}
	return Load("embedded", b, opts)
}

// Encode returns the pattern for r.
func (m *Map) Encode(r rune) (Pattern, bool) {
	p, ok := m.forward[r]
	return p, ok
}

// Decode returns the character that owns p.
func (m *Map) Decode(p Pattern) (rune, bool) {
	r, ok := m.reverse[p]
	return r, ok
}

// Contains reports whether r is in the alphabet.
func (m *Map) Contains(r rune) bool {
	_, ok := m.forward[r]
	return ok
}

// Width is the pattern width in dots.
func (m *Map) Width() int { return Width }

// Len is the alphabet size.
func (m *Map) Len() int { return len(m.order) }

// Chars lists the alphabet in source order.
func (m *Map) Chars() []rune {
	out := make([]rune, len(m.order))
	copy(out, m.order)
	return out
}

// EncodeString encodes every character of s, failing on the first unknown one.
func (m *Map) EncodeString(s string) ([]Pattern, error) {
	out := make([]Pattern, 0, utf8.RuneCountInString(s))
	for i, r := range []rune(s) {
		p, ok := m.forward[r]
		if !ok {
			return nil, fmt.Errorf("symbols: %q at %d is not in the map", r, i)
		}
		out = append(out, p)
	}
	return out, nil
}

// DecodeString decodes ps, writing placeholder where a pattern has no owner.
// The blank cell always shows the placeholder, even when the map assigns it
// a character, since "nothing known yet" must not read as a character.
func (m *Map) DecodeString(ps []Pattern, placeholder rune) string {
	out := make([]rune, len(ps))
	for i, p := range ps {
		if r, ok := m.reverse[p]; ok && p != 0 {
			out[i] = r
		} else {
			out[i] = placeholder
		}
	}
	return string(out)
}

// JSON renders the map back into its asset form, in source order.
func (m *Map) JSON() []byte {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, r := range m.order {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(string(r))
		b.Write(k)
		b.WriteString(`:"`)
		b.WriteString(m.forward[r].String())
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.Bytes()
}
