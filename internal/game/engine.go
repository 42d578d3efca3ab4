// internal/game/engine.go
//
// Feedback accumulation engine.
//
// Accumulate folds one accepted guess into the accumulator. It works on dots,
// not whole characters: two different characters whose cells share dots
// still light up the shared dots. It never writes to its inputs, so the
// per-turn snapshots a Session keeps stay valid for re-render and replay.
//
// Properties relied on elsewhere:
//   - monotone: every bit in prev is set in the result;
//   - idempotent: folding the same guess twice equals folding it once;
//   - positions are independent of each other.

package game

import (
	"github.com/robalobadob/brailledle/internal/symbols"
)

// Accumulate returns prev with guess folded in against target.
// guess, target and prev must have the same length; Validate guarantees this
// for guesses and NewSession for the accumulator.
func Accumulate(prev Accumulator, guess Guess, target Target, policy Policy) Accumulator {
	next := prev.Clone()
	for i := range target.Patterns {
		next.Correct[i], next.Absent[i] = foldPosition(
			prev.Correct[i], prev.Absent[i],
			guess.Patterns[i], target.Patterns[i], target.Union, policy,
		)
	}
	return next
}

// foldPosition scores one cell.
func foldPosition(correct, absent, g, t, union symbols.Pattern, policy Policy) (symbols.Pattern, symbols.Pattern) {
	return correct | (g & t), absent | policy.absent(g, t, union)
}

// Delta is what a single guess reveals on its own, before accumulation.
func Delta(guess Guess, target Target, policy Policy) Accumulator {
	return Accumulate(NewAccumulator(target.Len()), guess, target, policy)
}
