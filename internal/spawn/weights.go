package spawn

import "math/rand"

// WeightTable assigns a relative spawn probability to each candidate enemy
// level in a sliding window around the subject's progression level. Rebuilt
// by the progression tracker whenever the level changes.
type WeightTable struct {
	levels  []int // ascending
	weights []float64
	total   float64
}

func newWeightTable(levels []int, weights []float64) *WeightTable {
	t := &WeightTable{levels: levels, weights: weights}
	for _, w := range weights {
		t.total += w
	}
	return t
}

// BuildWeightTable derives the table for a window
// [current-behind, current+ahead], clamped to level >= 1. Levels at or below
// the current one get their weight multiplied by preyEmphasis, biasing
// spawns toward enemies the subject can safely consume. A misconfigured or
// degenerate window falls back to {current: 1.0} — the table never ends up
// empty.
func BuildWeightTable(current, behind, ahead int, preyEmphasis float64, curve Curves) *WeightTable {
	if current < 1 {
		current = 1
	}
	if preyEmphasis <= 0 {
		preyEmphasis = 1
	}
	lo := current - behind
	if lo < 1 {
		lo = 1
	}
	hi := current + ahead
	if behind < 0 || ahead < 0 || hi < lo {
		return newWeightTable([]int{current}, []float64{1.0})
	}

	levels := make([]int, 0, hi-lo+1)
	weights := make([]float64, 0, hi-lo+1)
	for l := lo; l <= hi; l++ {
		t := 0.5
		if hi > lo {
			t = float64(l-lo) / float64(hi-lo)
		}
		w := curve.Weight(t)
		if w < 0 {
			w = 0
		}
		if l <= current {
			w *= preyEmphasis
		}
		levels = append(levels, l)
		weights = append(weights, w)
	}

	table := newWeightTable(levels, weights)
	if table.total <= 0 {
		return newWeightTable([]int{current}, []float64{1.0})
	}
	return table
}

// SelectLevel draws a level by cumulative-weight roulette.
func (t *WeightTable) SelectLevel(rng *rand.Rand) int {
	return t.levelAt(rng.Float64() * t.total)
}

// levelAt returns the first level whose cumulative weight reaches u. If
// floating-point error leaves no match, the last level wins — selection
// never fails on a non-empty table.
func (t *WeightTable) levelAt(u float64) int {
	cum := 0.0
	for i, w := range t.weights {
		cum += w
		if cum >= u {
			return t.levels[i]
		}
	}
	return t.levels[len(t.levels)-1]
}

// Contains reports whether a level falls inside the window.
func (t *WeightTable) Contains(level int) bool {
	return level >= t.levels[0] && level <= t.levels[len(t.levels)-1]
}

// Window returns the inclusive level range covered by the table.
func (t *WeightTable) Window() (min, max int) {
	return t.levels[0], t.levels[len(t.levels)-1]
}
