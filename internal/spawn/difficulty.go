package spawn

// DifficultyConfig tunes the slow feedback loop that nudges the scheduler's
// base interval from local enemy pressure near the subject.
type DifficultyConfig struct {
	Interval        float64 // cadence in game-time seconds
	DetectionRadius float64 // sampling radius around the subject
	StressThreshold float64 // ease off above this, tighten below half of it
	EaseFactor      float64 // base interval multiplier under high stress
	TightenFactor   float64 // base interval multiplier under low stress
	MinBaseInterval float64 // floor for the adjusted base interval
}

// Signal is the transient per-cycle sample; not persisted.
type Signal struct {
	CountNear    int     // active agents within DetectionRadius
	AvgLevelNear float64 // their mean assigned level (0 when none)
}

// Controller is bang-bang proportional control: a fixed multiplicative step
// up under stress, down under slack, no damping term. Under steady load it
// hunts around the threshold; that behavior is authored and kept.
type Controller struct {
	cfg DifficultyConfig
}

func NewController(cfg DifficultyConfig) *Controller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5.0
	}
	if cfg.EaseFactor <= 1 {
		cfg.EaseFactor = 1.2
	}
	if cfg.TightenFactor <= 0 || cfg.TightenFactor >= 1 {
		cfg.TightenFactor = 0.9
	}
	if cfg.MinBaseInterval <= 0 {
		cfg.MinBaseInterval = 0.1
	}
	return &Controller{cfg: cfg}
}

func (c *Controller) Cadence() float64         { return c.cfg.Interval }
func (c *Controller) DetectionRadius() float64 { return c.cfg.DetectionRadius }

// Stress combines local density pressure and level pressure into one signal.
func (c *Controller) Stress(sig Signal, subjectLevel, aheadRange, maxActive int) float64 {
	densityStress := 0.0
	if maxActive > 0 {
		densityStress = clamp01(float64(sig.CountNear) / float64(maxActive))
	}
	levelStress := 0.0
	if sig.CountNear > 0 && aheadRange > 0 {
		levelStress = (sig.AvgLevelNear - float64(subjectLevel)) / float64(aheadRange)
		if levelStress < 0 {
			levelStress = 0
		}
	}
	return (densityStress + levelStress) / 2
}

// Adjust applies one bang-bang step to the base interval and clamps it to
// the configured floor.
func (c *Controller) Adjust(baseInterval, stress float64) float64 {
	switch {
	case stress > c.cfg.StressThreshold:
		baseInterval *= c.cfg.EaseFactor
	case stress < c.cfg.StressThreshold/2:
		baseInterval *= c.cfg.TightenFactor
	}
	if baseInterval < c.cfg.MinBaseInterval {
		baseInterval = c.cfg.MinBaseInterval
	}
	return baseInterval
}
