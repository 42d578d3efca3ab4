package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/brailledle/internal/symbols"
)

// Validation and turn errors. ValidationError values match the first two via
// errors.Is.
var (
	ErrWrongLength      = errors.New("wrong length")
	ErrUnknownCharacter = errors.New("unknown character")
	ErrGameAlreadyOver  = errors.New("game already over")
)

// Reason classifies a rejected guess.
type Reason string

const (
	ReasonWrongLength      Reason = "WrongLength"
	ReasonUnknownCharacter Reason = "UnknownCharacter"
)

// ValidationError explains why a guess was rejected. For UnknownCharacter,
// Char and Index locate the first offending character.
type ValidationError struct {
	Reason Reason
	Want   int
	Got    int
	Char   rune
	Index  int
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonWrongLength {
		return fmt.Sprintf("guess must be %d characters, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("character %q at %d is not in the symbol map", e.Char, e.Index)
}

func (e *ValidationError) Is(target error) bool {
	switch e.Reason {
	case ReasonWrongLength:
		return target == ErrWrongLength
	case ReasonUnknownCharacter:
		return target == ErrUnknownCharacter
	}
	return false
}

// Status maps the rejection onto the status line.
func (e *ValidationError) Status() Status {
	if e.Reason == ReasonWrongLength {
		return StatusInvalidLength
	}
	return StatusInvalidCharacters
}

// Validate checks raw against the expected length and the map's alphabet and
// encodes it. Length is counted in characters. It has no side effects.
func Validate(raw string, length int, m *symbols.Map) (Guess, error) {
	rs := []rune(raw)
	if len(rs) != length {
		return Guess{}, &ValidationError{Reason: ReasonWrongLength, Want: length, Got: len(rs)}
	}
	ps := make([]symbols.Pattern, len(rs))
	for i, r := range rs {
		p, ok := m.Encode(r)
		if !ok {
			return Guess{}, &ValidationError{Reason: ReasonUnknownCharacter, Want: length, Got: len(rs), Char: r, Index: i}
		}
		ps[i] = p
	}
	return Guess{Text: raw, Patterns: ps}, nil
}
