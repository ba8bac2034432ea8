package spawn

import "math"

// Curves supplies the authored tuning functions the scheduler consults:
// the relative weight across the level window and the two difficulty
// multipliers that shrink the spawn interval as a session ramps. The
// scripting engine implements this over Lua; DefaultCurves is the built-in
// fallback used when no script dir is configured and in tests.
type Curves interface {
	// Weight maps a normalized window position in [0,1] (0 = lowest level in
	// the window, 1 = highest) to a relative weight >= 0.
	Weight(t float64) float64
	// SpawnRate maps difficulty in [0,1] to a rate multiplier >= 1.
	SpawnRate(d float64) float64
	// Density maps difficulty in [0,1] to a density multiplier >= 1.
	Density(d float64) float64
}

// DefaultCurves: triangular level weighting peaking at the window center,
// linear difficulty ramps.
type DefaultCurves struct{}

func (DefaultCurves) Weight(t float64) float64 {
	return 1.0 - 0.5*math.Abs(2*t-1)
}

func (DefaultCurves) SpawnRate(d float64) float64 {
	return 1.0 + 1.5*clamp01(d)
}

func (DefaultCurves) Density(d float64) float64 {
	return 1.0 + 0.5*clamp01(d)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
