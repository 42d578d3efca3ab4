// internal/symbols/pattern.go
//
// Fixed-width dot patterns.
//
// A Pattern holds one Braille cell as Width bits. The textual form used by
// the map asset lists dots 1..Width left to right, so dot 1 is the most
// significant bit: "100000" is dot 1 alone, "011110" is dots 2-3-4-5.

package symbols

import (
	"fmt"
	"strings"
)

// Width is the number of dots in a cell.
const Width = 6

// Pattern is a Width-bit dot pattern.
type Pattern uint8

// Full has every dot raised.
const Full Pattern = 1<<Width - 1

// ParsePattern parses exactly Width '0'/'1' characters.
func ParsePattern(s string) (Pattern, error) {
	if len(s) != Width {
		return 0, fmt.Errorf("pattern %q: want %d binary digits, got %d", s, Width, len(s))
	}
	var p Pattern
	for i := 0; i < Width; i++ {
		p <<= 1
		switch s[i] {
		case '1':
			p |= 1
		case '0':
		default:
			return 0, fmt.Errorf("pattern %q: invalid digit %q at %d", s, s[i], i)
		}
	}
	return p, nil
}

// MustPattern is ParsePattern for literals; it panics on bad input.
func MustPattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the pattern as Width binary digits, dot 1 first.
func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(Width)
	for i := Width - 1; i >= 0; i-- {
		if p&(1<<i) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Has reports whether dot (1-based) is raised.
func (p Pattern) Has(dot int) bool {
	if dot < 1 || dot > Width {
		return false
	}
	return p&(1<<(Width-dot)) != 0
}

// Dots lists the raised dots in ascending order.
func (p Pattern) Dots() []int {
	var out []int
	for d := 1; d <= Width; d++ {
		if p.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Covers reports whether every dot of q is also raised in p.
func (p Pattern) Covers(q Pattern) bool { return p&q == q }
