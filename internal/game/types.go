// internal/game/types.go
//
// Core type definitions for the feedback engine.
// Defines:
//   - State: in_progress / won / lost.
//   - Status: the fixed set of human-readable status messages.
//   - Policy: how "confirmed absent" dots are decided.
//   - Guess, Target: validated inputs resolved to dot patterns.
//   - Accumulator: per-position confirmed-correct / confirmed-absent dots.

package game

import (
	"fmt"
	"strings"

	"github.com/robalobadob/brailledle/internal/symbols"
)

// State is the coarse game state.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// Status identifies the message shown in the status line.
type Status string

const (
	StatusNone              Status = ""
	StatusInvalidLength     Status = "InvalidLength"
	StatusInvalidCharacters Status = "InvalidCharacters"
	StatusRecorded          Status = "Recorded"
	StatusWin               Status = "Win"
	StatusLose              Status = "Lose"
	StatusLocked            Status = "Locked"
	StatusReloadToRestart   Status = "ReloadToRestart"
)

// Message returns the English text for a status.
func (s Status) Message() string {
	switch s {
	case StatusInvalidLength:
		return "Guess must be exactly the word length."
	case StatusInvalidCharacters:
		return "Guess contains characters that are not Braille ASCII."
	case StatusRecorded:
		return "Guess recorded."
	case StatusWin:
		return "You win!"
	case StatusLose:
		return "Game over."
	case StatusLocked:
		return "The game is over; no more guesses."
	case StatusReloadToRestart:
		return "Reload to restart."
	}
	return ""
}

// Policy decides which guessed dots are recorded as confirmed absent.
type Policy int

const (
	// PolicyStrict marks a dot absent only when no target cell has it.
	PolicyStrict Policy = iota
	// PolicyPositional marks a dot absent when the target cell at the same
	// position lacks it.
	PolicyPositional
)

// ParsePolicy accepts "strict" or "positional".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "positional":
		return PolicyPositional, nil
	}
	return 0, fmt.Errorf("unknown scoring policy %q", s)
}

func (p Policy) String() string {
	if p == PolicyPositional {
		return "positional"
	}
	return "strict"
}

// absent returns the dots of g that this policy confirms are absent, given
// the target cell t at the same position and the union of all target cells.
func (p Policy) absent(g, t, union symbols.Pattern) symbols.Pattern {
	if p == PolicyPositional {
		return g &^ t
	}
	return g &^ union
}

// Guess is an accepted guess: its text and one pattern per character.
type Guess struct {
	Text     string
	Patterns []symbols.Pattern
}

// Len is the number of positions.
func (g Guess) Len() int { return len(g.Patterns) }

// Target is the fixed answer for a session.
type Target struct {
	Text     string
	Patterns []symbols.Pattern
	// Union is every dot raised anywhere in the target.
	Union symbols.Pattern
}

// Len is the number of positions.
func (t Target) Len() int { return len(t.Patterns) }

// NewTarget resolves text through m once for the whole session.
func NewTarget(text string, m *symbols.Map) (Target, error) {
	ps, err := m.EncodeString(text)
	if err != nil {
		return Target{}, fmt.Errorf("target: %w", err)
	}
	if len(ps) == 0 {
		return Target{}, fmt.Errorf("target: empty")
	}
	var u symbols.Pattern
	for _, p := range ps {
		u |= p
	}
	return Target{Text: text, Patterns: ps, Union: u}, nil
}

// Accumulator holds, per position, every dot confirmed correct and every dot
// confirmed absent so far. Both only ever gain bits.
type Accumulator struct {
	Correct []symbols.Pattern `json:"correct"`
	Absent  []symbols.Pattern `json:"absent"`
}

// NewAccumulator returns the all-zero accumulator for n positions.
func NewAccumulator(n int) Accumulator {
	return Accumulator{
		Correct: make([]symbols.Pattern, n),
		Absent:  make([]symbols.Pattern, n),
	}
}

// Len is the number of positions.
func (a Accumulator) Len() int { return len(a.Correct) }

// Clone returns a deep copy.
func (a Accumulator) Clone() Accumulator {
	c := NewAccumulator(a.Len())
	copy(c.Correct, a.Correct)
	copy(c.Absent, a.Absent)
	return c
}

// Equal compares position by position.
func (a Accumulator) Equal(b Accumulator) bool {
	if a.Len() != b.Len() || len(a.Absent) != len(b.Absent) {
		return false
	}
	for i := range a.Correct {
		if a.Correct[i] != b.Correct[i] || a.Absent[i] != b.Absent[i] {
			return false
		}
	}
	return true
}

// Covers reports whether every bit set in b is also set in a.
func (a Accumulator) Covers(b Accumulator) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Correct {
		if !a.Correct[i].Covers(b.Correct[i]) || !a.Absent[i].Covers(b.Absent[i]) {
			return false
		}
	}
	return true
}

// Unknown returns the dots of guessed at position i that are neither
// confirmed correct nor confirmed absent.
func (a Accumulator) Unknown(i int, guessed symbols.Pattern) symbols.Pattern {
	return guessed &^ (a.Correct[i] | a.Absent[i])
}
