// internal/httpserver/server.go
//
// HTTP presentation adapter for the Braille puzzle.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/symbols".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/{id}.
//   - Results endpoints: mounted under /results when a journal is configured.
//
// Notes:
//   - All game logic lives in internal/game; handlers only translate between
//     JSON and session calls.
//   - Nothing is accepted until the symbol map has loaded. While it loads,
//     game endpoints answer 503; if it failed they answer 503 with the
//     ReloadToRestart status.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brailledle/assets"
	"github.com/robalobadob/brailledle/internal/game"
	"github.com/robalobadob/brailledle/internal/journal"
	"github.com/robalobadob/brailledle/internal/store"
	"github.com/robalobadob/brailledle/internal/symbols"
)

// Journal is the subset of *journal.Journal the server needs.
type Journal interface {
	Record(ctx context.Context, r journal.Result) error
	Recent(ctx context.Context, limit int) ([]journal.Result, error)
	Summary(ctx context.Context) (journal.Summary, error)
}

// Options wires the server's collaborators.
type Options struct {
	Store        store.Store
	Symbols      *symbols.Loader
	Target       string
	Game         game.Options
	Journal      Journal // nil disables /results and recording
	ClientOrigin string
}

// Server bundles router, session store and the symbol map loader.
type Server struct {
	r    *chi.Mux
	opts Options

	targetOnce sync.Once
	target     game.Target
	targetErr  error
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"brailledle","endpoints":["/health","/symbols","POST /game/new","POST /game/guess","GET /game/{id}","DELETE /game/{id}","/results"]}`))
	})
	s.r.Get("/health", s.handleHealth)

	// --- symbol map asset ---
	s.r.Get("/symbols", s.handleSymbols)
	s.r.Get("/"+assets.SymbolMapName, s.handleSymbols)

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Post("/game/guess", s.handleGuess)
	s.r.Get("/game/{id}", s.handleBoard)
	s.r.Delete("/game/{id}", s.handleDeleteGame)

	// --- results journal ---
	if opts.Journal != nil {
		s.mountResults(s.r)
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Handler exposes the router (useful for tests and custom listeners).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- readiness ------------------------------------

// ready returns the loaded map and the resolved target, or the reason the
// server cannot take guesses yet.
func (s *Server) ready() (*symbols.Map, game.Target, error) {
	m, err := s.opts.Symbols.Get()
	if err != nil {
		return nil, game.Target{}, err
	}
	s.targetOnce.Do(func() {
		s.target, s.targetErr = s.opts.Game.ResolveTarget(s.opts.Target, m)
		if s.targetErr == nil && s.target.Len() == 0 {
			s.targetErr = errors.New("empty target")
		}
	})
	return m, s.target, s.targetErr
}

// writeNotReady answers for a map that is loading or failed.
func writeNotReady(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, symbols.ErrLoading):
		writeJSON(w, http.StatusServiceUnavailable, errorRes{Error: "symbols_loading"})
	case errors.Is(err, symbols.ErrMapLoad):
		writeJSON(w, http.StatusServiceUnavailable, errorRes{
			Error:   "symbols_unavailable",
			Status:  game.StatusReloadToRestart,
			Message: game.StatusReloadToRestart.Message(),
		})
	default:
		log.Error().Err(err).Msg("target unusable with loaded symbol map")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "bad_target"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := "ready"
	if _, _, err := s.ready(); err != nil {
		switch {
		case errors.Is(err, symbols.ErrLoading):
			state = "loading"
		default:
			state = "failed"
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": state == "ready", "symbols": state})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	m, err := s.opts.Symbols.Get()
	if err != nil {
		writeNotReady(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(m.JSON())
}

// ------------------------------ GAME ---------------------------------------

// newGameRes is returned by POST /game/new.
type newGameRes struct {
	GameID   string     `json:"gameId"`
	Length   int        `json:"length"`
	MaxTurns int        `json:"maxTurns"`
	State    game.State `json:"state"`
	Policy   string     `json:"policy"`
}

// handleNewGame starts a session against the configured target.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	m, target, err := s.ready()
	if err != nil {
		writeNotReady(w, err)
		return
	}
	sess := game.NewSession(target, m, s.opts.Game)
	if err := s.opts.Store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "save_failed"})
		return
	}
	log.Debug().Str("gameId", sess.ID).Msg("session started")
	writeJSON(w, http.StatusOK, newGameRes{
		GameID:   sess.ID,
		Length:   sess.Length(),
		MaxTurns: sess.MaxTurns(),
		State:    sess.State(),
		Policy:   sess.Policy().String(),
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	State   game.State  `json:"state"`
	Status  game.Status `json:"status"`
	Message string      `json:"message"`
	Turn    int         `json:"turn"`
	Row     game.Row    `json:"row"`
}

// errorRes is the JSON body of every non-2xx game response.
type errorRes struct {
	Error   string      `json:"error"`
	Reason  game.Reason `json:"reason,omitempty"`
	Status  game.Status `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
}

// handleGuess submits a guess to a session under the store's write lock and
// journals the session once it becomes terminal.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	if _, _, err := s.ready(); err != nil {
		writeNotReady(w, err)
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}

	var (
		res      guessRes
		finished *journal.Result
	)
	err := s.opts.Store.Update(r.Context(), req.GameID, func(sess *game.Session) error {
		turn, err := sess.Submit(req.Guess)
		if err != nil {
			return err
		}
		row, _ := sess.Row(turn.Number)
		res = guessRes{
			State:   turn.State,
			Status:  turn.Status,
			Message: turn.Status.Message(),
			Turn:    turn.Number,
			Row:     row,
		}
		if turn.State.Terminal() {
			if jr, err := journal.FromSession(sess); err == nil {
				finished = &jr
			}
		}
		return nil
	})

	var ve *game.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found"})
		return
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorRes{
			Error:   "invalid_guess",
			Reason:  ve.Reason,
			Status:  ve.Status(),
			Message: ve.Status().Message(),
		})
		return
	case errors.Is(err, game.ErrGameAlreadyOver):
		writeJSON(w, http.StatusConflict, errorRes{
			Error:   "game_over",
			Status:  game.StatusLocked,
			Message: game.StatusLocked.Message(),
		})
		return
	default:
		log.Error().Err(err).Str("gameId", req.GameID).Msg("submit guess")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "submit_failed"})
		return
	}

	if finished != nil {
		log.Info().Str("gameId", finished.GameID).Str("outcome", finished.Outcome).Int("turns", finished.Turns).Msg("game finished")
		if s.opts.Journal != nil {
			if err := s.opts.Journal.Record(r.Context(), *finished); err != nil {
				log.Warn().Err(err).Str("gameId", finished.GameID).Msg("record result")
			}
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// handleBoard renders every row of a session.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	var board game.Board
	err := s.opts.Store.View(r.Context(), chi.URLParam(r, "id"), func(sess *game.Session) error {
		board = sess.Board()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "view_failed"})
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleDeleteGame drops a session; the client starts over with /game/new.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.opts.Store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "delete_failed"})
		return
	}
	log.Debug().Str("gameId", id).Msg("session dropped")
	w.WriteHeader(http.StatusNoContent)
}

// ------------------------------- util --------------------------------------

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
