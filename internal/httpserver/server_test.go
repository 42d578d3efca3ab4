package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/robalobadob/brailledle/internal/game"
	"github.com/robalobadob/brailledle/internal/httpserver"
	"github.com/robalobadob/brailledle/internal/journal"
	"github.com/robalobadob/brailledle/internal/symbols"
)

type ServerSuite struct {
	suite.Suite
	ts      *httptest.Server
	journal *journal.Journal
}

func (s *ServerSuite) SetupTest() {
	m, err := symbols.Default(symbols.Options{Bijective: true})
	require.NoError(s.T(), err)
	j, err := journal.Open(context.Background(), filepath.Join(s.T().TempDir(), "results.db"))
	require.NoError(s.T(), err)
	s.journal = j

	srv := httpserver.New(httpserver.Options{
		Symbols: symbols.Ready(m),
		Target:  "a6ect",
		Game:    game.Options{MaxTurns: 6},
		Journal: j,
	})
	s.ts = httptest.NewServer(srv.Handler())
}

func (s *ServerSuite) TearDownTest() {
	s.ts.Close()
	_ = s.journal.Close()
}

func (s *ServerSuite) do(method, path string, body any, out any) int {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.ts.URL+path, &buf)
	require.NoError(s.T(), err)
	res, err := s.ts.Client().Do(req)
	require.NoError(s.T(), err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(s.T(), json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (s *ServerSuite) newGame() string {
	var res struct {
		GameID   string `json:"gameId"`
		Length   int    `json:"length"`
		MaxTurns int    `json:"maxTurns"`
		State    string `json:"state"`
	}
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodPost, "/game/new", nil, &res))
	require.NotEmpty(s.T(), res.GameID)
	require.Equal(s.T(), 5, res.Length)
	require.Equal(s.T(), 6, res.MaxTurns)
	require.Equal(s.T(), "in_progress", res.State)
	return res.GameID
}

type guessRes struct {
	State   string   `json:"state"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Turn    int      `json:"turn"`
	Row     game.Row `json:"row"`
	Error   string   `json:"error"`
	Reason  string   `json:"reason"`
}

func (s *ServerSuite) guess(id, word string) (int, guessRes) {
	var res guessRes
	code := s.do(http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": word}, &res)
	return code, res
}

func (s *ServerSuite) TestHealthAndSymbols() {
	var health map[string]any
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/health", nil, &health))
	require.Equal(s.T(), true, health["ok"])
	require.Equal(s.T(), "ready", health["symbols"])

	var m map[string]string
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/symbols", nil, &m))
	require.Equal(s.T(), "100000", m["a"])
	require.Len(s.T(), m, 63)

	var alias map[string]string
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/braille-ascii-map.json", nil, &alias))
	require.Equal(s.T(), m, alias)
}

func (s *ServerSuite) TestWinThenLocked() {
	id := s.newGame()

	code, res := s.guess(id, "a6ect")
	require.Equal(s.T(), http.StatusOK, code)
	require.Equal(s.T(), "won", res.State)
	require.Equal(s.T(), "Win", res.Status)
	require.Equal(s.T(), 1, res.Turn)
	require.Equal(s.T(), "a6ect", res.Row.Correct)

	code, res = s.guess(id, "abcde")
	require.Equal(s.T(), http.StatusConflict, code)
	require.Equal(s.T(), "game_over", res.Error)
	require.Equal(s.T(), "Locked", res.Status)

	var board game.Board
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/game/"+id, nil, &board))
	require.Equal(s.T(), game.StatusWin, board.Status, "Locked is only reported for the rejected request")

	var results struct {
		Results []journal.Result `json:"results"`
	}
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/results", nil, &results))
	require.Len(s.T(), results.Results, 1)
	require.Equal(s.T(), id, results.Results[0].GameID)
	require.Equal(s.T(), "won", results.Results[0].Outcome)
}

func (s *ServerSuite) TestLossAndBoard() {
	id := s.newGame()
	for i, w := range []string{"abcde", "fghij", "klmno", "pqrst", "uvwxy", "zzzzz"} {
		code, res := s.guess(id, w)
		require.Equal(s.T(), http.StatusOK, code)
		require.Equal(s.T(), i+1, res.Turn)
	}

	var board game.Board
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/game/"+id, nil, &board))
	require.Equal(s.T(), game.StateLost, board.State)
	require.Equal(s.T(), game.StatusLose, board.Status)
	require.Len(s.T(), board.Rows, 6)
	require.Equal(s.T(), "6/6", board.Rows[5].Label)

	var sum journal.Summary
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/results/summary", nil, &sum))
	require.Equal(s.T(), journal.Summary{Played: 1, Lost: 1}, sum)
}

func (s *ServerSuite) TestValidationErrors() {
	id := s.newGame()

	code, res := s.guess(id, "ab")
	require.Equal(s.T(), http.StatusBadRequest, code)
	require.Equal(s.T(), "WrongLength", res.Reason)
	require.Equal(s.T(), "InvalidLength", res.Status)

	code, res = s.guess(id, "ABCDE")
	require.Equal(s.T(), http.StatusBadRequest, code)
	require.Equal(s.T(), "UnknownCharacter", res.Reason)
	require.Equal(s.T(), "InvalidCharacters", res.Status)

	var board game.Board
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/game/"+id, nil, &board))
	require.Empty(s.T(), board.Rows)
	require.Equal(s.T(), game.StateInProgress, board.State)
}

func (s *ServerSuite) TestDeleteGame() {
	id := s.newGame()
	require.Equal(s.T(), http.StatusNoContent, s.do(http.MethodDelete, "/game/"+id, nil, nil))
	require.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, "/game/"+id, nil, nil))
	require.Equal(s.T(), http.StatusNotFound, s.do(http.MethodDelete, "/game/"+id, nil, nil))
}

func (s *ServerSuite) TestUnknownGameAndBadJSON() {
	code, res := s.guess("missing", "a6ect")
	require.Equal(s.T(), http.StatusNotFound, code)
	require.Equal(s.T(), "not_found", res.Error)

	req, err := http.NewRequest(http.MethodPost, s.ts.URL+"/game/guess", bytes.NewBufferString("{"))
	require.NoError(s.T(), err)
	r, err := s.ts.Client().Do(req)
	require.NoError(s.T(), err)
	_ = r.Body.Close()
	require.Equal(s.T(), http.StatusBadRequest, r.StatusCode)

	require.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, "/game/missing", nil, nil))
	require.Equal(s.T(), http.StatusBadRequest, s.do(http.MethodGet, "/results?limit=x", nil, nil))
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func TestMapLoadingAndFailure(t *testing.T) {
	release := make(chan struct{})
	loading := symbols.StartLoader(context.Background(), func(context.Context) (*symbols.Map, error) {
		<-release
		return nil, &symbols.LoadError{Source: "test", Err: errors.New("unreachable")}
	})
	srv := httpserver.New(httpserver.Options{Symbols: loading, Target: "a6ect"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	post := func() (int, map[string]string) {
		res, err := ts.Client().Post(ts.URL+"/game/new", "application/json", nil)
		require.NoError(t, err)
		defer res.Body.Close()
		var body map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		return res.StatusCode, body
	}

	code, body := post()
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "symbols_loading", body["error"])

	close(release)
	<-loading.Done()

	code, body = post()
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "symbols_unavailable", body["error"])
	require.Equal(t, "ReloadToRestart", body["status"])

	res, err := ts.Client().Get(ts.URL + "/results")
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode, "results are not mounted without a journal")
}

func TestTargetOutsideAlphabet(t *testing.T) {
	m, err := symbols.Load("test", []byte(`{"a":"100000"}`), symbols.Options{Bijective: true})
	require.NoError(t, err)
	srv := httpserver.New(httpserver.Options{Symbols: symbols.Ready(m), Target: "bbbbb"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	res, err := ts.Client().Post(ts.URL+"/game/new", "application/json", nil)
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestNormalizedUpperCaseTarget(t *testing.T) {
	m, err := symbols.Default(symbols.Options{Bijective: true})
	require.NoError(t, err)
	srv := httpserver.New(httpserver.Options{
		Symbols: symbols.Ready(m),
		Target:  "A6ECT",
		Game:    game.Options{NormalizeCase: true},
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	res, err := ts.Client().Post(ts.URL+"/game/new", "application/json", nil)
	require.NoError(t, err)
	var created struct {
		GameID string `json:"gameId"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	_ = res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := json.Marshal(map[string]string{"gameId": created.GameID, "guess": "A6eCt"})
	require.NoError(t, err)
	res, err = ts.Client().Post(ts.URL+"/game/guess", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	var out guessRes
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "won", out.State)
	require.Equal(t, "a6ect", out.Row.Correct)
}
