package spawn

import "fmt"

// Mode selects which accumulated signal advances the subject's threat level.
type Mode int

const (
	ModeKillCount Mode = iota
	ModeExperience
	ModeTimeElapsed
	ModeHybrid // averages kill and experience progress
)

// ParseMode maps the config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "killcount", "kills":
		return ModeKillCount, nil
	case "experience", "exp":
		return ModeExperience, nil
	case "time", "timeelapsed":
		return ModeTimeElapsed, nil
	case "hybrid":
		return ModeHybrid, nil
	}
	return 0, fmt.Errorf("unknown progression mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeKillCount:
		return "killcount"
	case ModeExperience:
		return "experience"
	case ModeTimeElapsed:
		return "time"
	case ModeHybrid:
		return "hybrid"
	}
	return "unknown"
}

type ProgressionConfig struct {
	Mode     Mode
	MaxLevel int

	// Threshold functions grow linearly with level: base + perLevel*(level-1).
	KillBase     int
	KillPerLevel int
	ExpBase      float64
	ExpPerLevel  float64
	TimeBase     float64 // seconds
	TimePerLevel float64

	// Weight-table window parameters, applied on every rebuild.
	AheadRange   int
	BehindRange  int
	PreyEmphasis float64
}

// Progression tracks the subject's abstract threat level and owns the level
// weight table derived from it. Counters for modes other than the active one
// still accumulate but never trigger a level-up.
type Progression struct {
	cfg    ProgressionConfig
	curves Curves

	level   int
	kills   int
	exp     float64
	elapsed float64 // seconds since last time-mode level-up

	table     *WeightTable
	onLevelUp func(newLevel int)
}

// NewProgression starts at level 1 with zeroed counters and a freshly built
// weight table. onLevelUp may be nil.
func NewProgression(cfg ProgressionConfig, curves Curves, onLevelUp func(int)) *Progression {
	if cfg.MaxLevel < 1 {
		cfg.MaxLevel = 1
	}
	p := &Progression{
		cfg:       cfg,
		curves:    curves,
		level:     1,
		onLevelUp: onLevelUp,
	}
	p.rebuild()
	return p
}

// RecordKill feeds one defeated enemy of the given level into the tracker.
func (p *Progression) RecordKill(level int) {
	_ = level // all kills count equally; level matters only to the reward signal
	p.kills++
	p.evaluate()
}

// RecordExperience feeds a reward signal into the tracker.
func (p *Progression) RecordExperience(amount float64) {
	if amount <= 0 {
		return
	}
	p.exp += amount
	p.evaluate()
}

// Tick advances elapsed time for the time-based modes.
func (p *Progression) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	p.elapsed += dt
	if p.cfg.Mode == ModeTimeElapsed {
		p.evaluate()
	}
}

// evaluate levels up when the active mode's normalized progress reaches 1.0.
// The triggering counters reset to zero, never negative, so feeding exactly
// one threshold advances exactly one level.
func (p *Progression) evaluate() {
	if p.level >= p.cfg.MaxLevel {
		return
	}
	if p.Progress() < 1.0 {
		return
	}
	p.level++
	switch p.cfg.Mode {
	case ModeKillCount:
		p.kills = 0
	case ModeExperience:
		p.exp = 0
	case ModeTimeElapsed:
		p.elapsed = 0
	case ModeHybrid:
		p.kills = 0
		p.exp = 0
	}
	p.rebuild()
	if p.onLevelUp != nil {
		p.onLevelUp(p.level)
	}
}

func (p *Progression) rebuild() {
	p.table = BuildWeightTable(p.level, p.cfg.BehindRange, p.cfg.AheadRange, p.cfg.PreyEmphasis, p.curves)
}

func (p *Progression) killThreshold() int {
	t := p.cfg.KillBase + p.cfg.KillPerLevel*(p.level-1)
	if t < 1 {
		t = 1
	}
	return t
}

func (p *Progression) expThreshold() float64 {
	t := p.cfg.ExpBase + p.cfg.ExpPerLevel*float64(p.level-1)
	if t <= 0 {
		t = 1
	}
	return t
}

func (p *Progression) timeThreshold() float64 {
	t := p.cfg.TimeBase + p.cfg.TimePerLevel*float64(p.level-1)
	if t <= 0 {
		t = 1
	}
	return t
}

// Progress returns the normalized progress toward the next level for the
// active mode. Hybrid averages the kill and experience components and levels
// when the average reaches 1.0.
func (p *Progression) Progress() float64 {
	switch p.cfg.Mode {
	case ModeKillCount:
		return float64(p.kills) / float64(p.killThreshold())
	case ModeExperience:
		return p.exp / p.expThreshold()
	case ModeTimeElapsed:
		return p.elapsed / p.timeThreshold()
	case ModeHybrid:
		k := float64(p.kills) / float64(p.killThreshold())
		e := p.exp / p.expThreshold()
		return (k + e) / 2
	}
	return 0
}

// Level returns the current threat level (>= 1).
func (p *Progression) Level() int { return p.level }

// Kills returns the kill counter. Meaningful in kill and hybrid modes.
func (p *Progression) Kills() int { return p.kills }

// Table returns the current level weight table. Never nil, never empty.
func (p *Progression) Table() *WeightTable { return p.table }
