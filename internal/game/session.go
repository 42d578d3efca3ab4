// internal/game/session.go
//
// Session state and turn logic for one game.
// Responsibilities:
//   - Normalise raw input (trim, optional lower-casing).
//   - Validate, accumulate and record accepted guesses.
//   - Track state transitions: in_progress → won/lost (both absorbing).
//   - Keep one accumulator snapshot per turn for row-by-row rendering.
//
// A Session is owned by a single caller at a time; the store serialises
// access when it is shared.

package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/robalobadob/brailledle/internal/symbols"
)

const (
	defaultMaxTurns    = 6
	defaultPlaceholder = '·'
)

// Options configures a Session.
type Options struct {
	MaxTurns      int
	NormalizeCase bool
	Policy        Policy
	Placeholder   rune
}

// Session holds the state of a single game.
type Session struct {
	ID        string
	CreatedAt time.Time

	target  Target
	symbols *symbols.Map
	opts    Options
	lower   cases.Caser

	guesses []Guess
	history []Accumulator // history[n] is the accumulator after turn n+1
	state   State
	status  Status
}

// Turn is the result of one accepted guess.
type Turn struct {
	Number      int
	Guess       Guess
	Accumulator Accumulator
	State       State
	Status      Status
}

// ResolveTarget resolves text for sessions built with o. With NormalizeCase
// the text is lower-cased before it is encoded, so guesses and target are
// scored through the same characters of m.
func (o Options) ResolveTarget(text string, m *symbols.Map) (Target, error) {
	if o.NormalizeCase {
		text = cases.Lower(language.Und).String(text)
	}
	return NewTarget(text, m)
}

// NewSession starts a game against target, which should come from
// opts.ResolveTarget.
func NewSession(target Target, m *symbols.Map, opts Options) *Session {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = defaultMaxTurns
	}
	if opts.Placeholder == 0 {
		opts.Placeholder = defaultPlaceholder
	}
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		target:    target,
		symbols:   m,
		opts:      opts,
		state:     StateInProgress,
	}
	if opts.NormalizeCase {
		s.lower = cases.Lower(language.Und)
	}
	return s
}

// Replay rebuilds a session by submitting guesses in order. Rejected guesses
// are skipped exactly as they would be live.
func Replay(target Target, m *symbols.Map, opts Options, guesses ...string) *Session {
	s := NewSession(target, m, opts)
	for _, g := range guesses {
		_, _ = s.Submit(g)
	}
	return s
}

// Submit validates raw and, if accepted, folds it into the session.
//
// Errors:
//   - ErrGameAlreadyOver once the game is won or lost; nothing changes and
//     the final Win/Lose status is kept;
//   - *ValidationError for wrong length or unknown characters.
//
// No state other than the status line changes on error.
func (s *Session) Submit(raw string) (Turn, error) {
	if s.state.Terminal() {
		return Turn{}, ErrGameAlreadyOver
	}

	text := s.normalize(raw)
	guess, err := Validate(text, s.target.Len(), s.symbols)
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			s.status = ve.Status()
		}
		return Turn{}, err
	}

	next := Accumulate(s.Current(), guess, s.target, s.opts.Policy)
	s.guesses = append(s.guesses, guess)
	s.history = append(s.history, next)

	switch {
	case guess.Text == s.target.Text:
		s.state, s.status = StateWon, StatusWin
	case len(s.guesses) >= s.opts.MaxTurns:
		s.state, s.status = StateLost, StatusLose
	default:
		s.status = StatusRecorded
	}

	return Turn{
		Number:      len(s.guesses),
		Guess:       guess,
		Accumulator: next.Clone(),
		State:       s.state,
		Status:      s.status,
	}, nil
}

// normalize trims surrounding whitespace and lower-cases when configured.
func (s *Session) normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if s.opts.NormalizeCase {
		return s.lower.String(raw)
	}
	return raw
}

// Current returns a copy of the latest accumulator (all zero before turn 1).
func (s *Session) Current() Accumulator {
	if len(s.history) == 0 {
		return NewAccumulator(s.target.Len())
	}
	return s.history[len(s.history)-1].Clone()
}

// Snapshot returns a copy of the accumulator after turn n (1-based); n == 0
// is the initial all-zero accumulator.
func (s *Session) Snapshot(n int) (Accumulator, bool) {
	if n == 0 {
		return NewAccumulator(s.target.Len()), true
	}
	if n < 0 || n > len(s.history) {
		return Accumulator{}, false
	}
	return s.history[n-1].Clone(), true
}

// Guesses lists accepted guess texts in order.
func (s *Session) Guesses() []string {
	out := make([]string, len(s.guesses))
	for i, g := range s.guesses {
		out[i] = g.Text
	}
	return out
}

func (s *Session) Turn() int          { return len(s.guesses) }
func (s *Session) State() State       { return s.state }
func (s *Session) Status() Status     { return s.status }
func (s *Session) MaxTurns() int      { return s.opts.MaxTurns }
func (s *Session) Length() int        { return s.target.Len() }
func (s *Session) Policy() Policy     { return s.opts.Policy }
func (s *Session) TargetText() string { return s.target.Text }

