package spawn

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/ntploc21/chomp-champ-sub000/internal/data"
	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

// minSpawnInterval is the absolute floor for the effective spawn interval,
// whatever the difficulty multipliers and jitter produce.
const minSpawnInterval = 0.1

// State is the scheduler lifecycle state.
type State int

const (
	StateIdle      State = iota // not spawning
	StateActive                 // timer running
	StateSuspended              // external gate closed; bookkeeping retained
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateSuspended:
		return "suspended"
	}
	return "unknown"
}

// Config is the read-only per-session spawn tuning.
type Config struct {
	MaxActive        int     // concurrency cap over all active agents
	BaseInterval     float64 // seconds between spawn attempts before difficulty scaling
	IntervalJitter   float64 // uniform ±jitter added to each interval
	AheadRange       int     // level window above the subject's level
	BehindRange      int     // level window below
	PreyEmphasis     float64 // weight multiplier for levels at or below the subject's
	WaveChance       float64 // probability a spawn attempt becomes a wave
	WaveSizeMin      int
	WaveSizeMax      int
	WaveRadius       float64 // wave member scatter around the anchor
	MaxSpawnsPerTick int     // hard bound on per-tick spawn work
	CleanupInterval  float64 // cull cadence, seconds
	CullDistance     float64 // release agents farther than this from the subject (0 = never)
	RampTime         float64 // seconds of session time until time-based difficulty saturates
	LevelCap         int     // subject level at which level-based difficulty saturates

	Pool        PoolConfig
	Placement   PlacementConfig
	Progression ProgressionConfig
	Difficulty  DifficultyConfig
}

func (c *Config) validate() error {
	if c.MaxActive <= 0 {
		return fmt.Errorf("spawn: max_active must be > 0, got %d", c.MaxActive)
	}
	if c.BaseInterval <= 0 {
		return fmt.Errorf("spawn: base_interval must be > 0, got %g", c.BaseInterval)
	}
	if c.IntervalJitter < 0 {
		return fmt.Errorf("spawn: interval_jitter must be >= 0, got %g", c.IntervalJitter)
	}
	if c.AheadRange < 0 || c.BehindRange < 0 {
		return fmt.Errorf("spawn: level window ranges must be >= 0, got ahead=%d behind=%d", c.AheadRange, c.BehindRange)
	}
	if c.WaveChance < 0 || c.WaveChance > 1 {
		return fmt.Errorf("spawn: wave_chance must be in [0,1], got %g", c.WaveChance)
	}
	if c.WaveChance > 0 {
		if c.WaveSizeMin < 1 || c.WaveSizeMax < c.WaveSizeMin {
			return fmt.Errorf("spawn: wave size range invalid: [%d,%d]", c.WaveSizeMin, c.WaveSizeMax)
		}
		if c.WaveRadius < 0 {
			return fmt.Errorf("spawn: wave_radius must be >= 0, got %g", c.WaveRadius)
		}
	}
	if c.MaxSpawnsPerTick < 1 {
		return fmt.Errorf("spawn: max_spawns_per_tick must be >= 1, got %d", c.MaxSpawnsPerTick)
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = 2.0
	}
	if c.RampTime <= 0 {
		c.RampTime = 300
	}
	if c.LevelCap < 1 {
		c.LevelCap = c.Progression.MaxLevel
	}
	return nil
}

// SubjectSource supplies the spatial reference the scheduler plans around.
// Injected at construction — the scheduler holds no global state.
type SubjectSource interface {
	SubjectPosition() world.Vec2
	// ViewRegion returns the camera rectangle and whether one exists. When it
	// does not, placement falls back to explicit bounds or a ring.
	ViewRegion() (world.Rect, bool)
}

// AgentSnapshot is the read-only agent view handed to collaborators.
type AgentSnapshot struct {
	ID    AgentID
	DefID int32
	Level int
	Pos   world.Vec2
}

// Hooks are optional host callbacks, invoked synchronously on the tick.
// Assign before Start.
type Hooks struct {
	AgentSpawned func(AgentSnapshot, bool) // second arg: wave member
	LevelUp      func(newLevel int)
}

// Stats are diagnostic counters for observability. All failures they count
// are absorbed as "spawn nothing this tick"; none abort the session.
type Stats struct {
	Spawned             uint64
	Waves               uint64
	Defeated            uint64 // released because marked defeated
	Culled              uint64 // released for straying past CullDistance
	SkippedEmptyCatalog uint64
	SkippedPlacement    uint64
	SkippedPool         uint64
	PeakActive          int
}

// Scheduler decides when, how many, what level, and where enemies enter the
// session. All methods must be called from the host loop goroutine; three
// cadences (spawn attempt, adaptive difficulty, cleanup) interleave inside
// Tick and each is bounded per tick, so a single tick never stalls the loop.
type Scheduler struct {
	cfg     Config
	cat     *Catalog
	pool    *Pool
	prog    *Progression
	place   *Placement
	diff    *Controller
	subject SubjectSource
	curves  Curves
	grid    *world.AOIGrid
	rng     *rand.Rand
	log     *zap.Logger

	Hooks Hooks

	state       State
	elapsed     float64 // session game-time seconds
	lastSpawn   float64
	adjBase     float64 // difficulty-adjusted copy of BaseInterval
	jitter      float64 // current jitter draw, renewed after each spawn
	adaptiveAcc float64
	cleanupAcc  float64

	activeByDef map[int32]int
	stats       Stats
}

// NewScheduler wires the director for one session. Configuration errors
// surface here, not at tick time; a scheduler that constructs successfully
// degrades but never fails mid-session.
func NewScheduler(cfg Config, table *data.EnemyTable, subject SubjectSource, curves Curves, rng *rand.Rand, log *zap.Logger) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if table == nil || table.Count() == 0 {
		return nil, fmt.Errorf("spawn: enemy catalog is empty")
	}
	if subject == nil {
		return nil, fmt.Errorf("spawn: subject source is required")
	}
	if curves == nil {
		curves = DefaultCurves{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := NewPool(cfg.Pool)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cfg:         cfg,
		cat:         NewCatalog(table),
		pool:        pool,
		place:       NewPlacement(cfg.Placement),
		diff:        NewController(cfg.Difficulty),
		subject:     subject,
		curves:      curves,
		rng:         rng,
		log:         log,
		activeByDef: make(map[int32]int, table.Count()),
		adjBase:     cfg.BaseInterval,
	}
	s.grid = world.NewAOIGrid(s.diff.DetectionRadius())

	progCfg := cfg.Progression
	progCfg.AheadRange = cfg.AheadRange
	progCfg.BehindRange = cfg.BehindRange
	progCfg.PreyEmphasis = cfg.PreyEmphasis
	s.prog = NewProgression(progCfg, curves, func(newLevel int) {
		s.log.Debug("subject leveled up", zap.Int("level", newLevel))
		if s.Hooks.LevelUp != nil {
			s.Hooks.LevelUp(newLevel)
		}
	})
	return s, nil
}

// Start moves Idle→Active and resets the timer baseline: the first spawn
// becomes eligible once baseInterval of game time has elapsed.
func (s *Scheduler) Start() {
	if s.state != StateIdle {
		return
	}
	s.state = StateActive
	s.elapsed = 0
	s.lastSpawn = 0
	s.adaptiveAcc = 0
	s.cleanupAcc = 0
	s.adjBase = s.cfg.BaseInterval
	s.jitter = s.drawJitter()
}

// Stop moves any state to Idle. Cadences check state at the top of every
// tick, so in-flight multi-step work simply does not continue. Active agents
// stay placed; the host decides whether to reclaim them.
func (s *Scheduler) Stop() {
	s.state = StateIdle
}

// SetGate flips the external "may spawn" gate. Closing it suspends the
// scheduler without losing elapsed-time bookkeeping; opening it resumes.
func (s *Scheduler) SetGate(open bool) {
	switch {
	case !open && s.state == StateActive:
		s.state = StateSuspended
	case open && s.state == StateSuspended:
		s.state = StateActive
	}
}

// Tick advances all three cadences by dt seconds of game time. Non-blocking;
// per-tick spawn work is bounded by MaxSpawnsPerTick.
func (s *Scheduler) Tick(dt float64) {
	if s.state != StateActive {
		return
	}
	if dt < 0 {
		dt = 0
	}
	s.elapsed += dt
	s.prog.Tick(dt)

	s.cleanupAcc += dt
	if s.cleanupAcc >= s.cfg.CleanupInterval {
		s.cleanupAcc = 0
		s.cleanup()
	}

	s.adaptiveAcc += dt
	if s.adaptiveAcc >= s.diff.Cadence() {
		s.adaptiveAcc = 0
		s.adapt()
	}

	s.attemptSpawn()
}

// ── Spawn cadence ─────────────────────────────────────────────────

func (s *Scheduler) attemptSpawn() {
	if s.pool.ActiveCount() >= s.cfg.MaxActive {
		return
	}
	if s.elapsed-s.lastSpawn < s.currentInterval() {
		return
	}
	var ok bool
	if s.rng.Float64() < s.cfg.WaveChance {
		ok = s.spawnWave(nil, 0)
	} else {
		ok = s.spawnSingle(nil, 0)
	}
	if ok {
		s.lastSpawn = s.elapsed
		s.jitter = s.drawJitter()
	}
}

// currentInterval derives the effective spawn gap from the adjusted base
// interval, the difficulty curves, and the current jitter draw. Never below
// the 0.1s floor.
func (s *Scheduler) currentInterval() float64 {
	d := s.CurrentDifficulty()
	iv := s.adjBase/(s.curves.SpawnRate(d)*s.curves.Density(d)) + s.jitter
	if iv < minSpawnInterval {
		iv = minSpawnInterval
	}
	return iv
}

func (s *Scheduler) drawJitter() float64 {
	if s.cfg.IntervalJitter <= 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * s.cfg.IntervalJitter
}

// spawnSingle performs one spawn: target level from the weight table, a
// definition from the catalog, a validated position, an agent from the pool.
// Any stage that cannot deliver skips the attempt and bumps a counter.
func (s *Scheduler) spawnSingle(def *data.EnemyTemplate, level int) bool {
	if level <= 0 {
		level = s.prog.Table().SelectLevel(s.rng)
	}
	if def == nil {
		var ok bool
		def, ok = s.cat.Select(s.rng, s.prog.Table(), false, s.activeOf)
		if !ok {
			s.stats.SkippedEmptyCatalog++
			return false
		}
	}
	pos, ok := s.place.TryPlan(s.rng, s.subject.SubjectPosition(), s.viewPtr())
	if !ok {
		s.stats.SkippedPlacement++
		return false
	}
	return s.activate(def, level, pos, false)
}

// spawnWave anchors one position, picks one wave-preferring definition, and
// emits members at random offsets within WaveRadius. Size is bounded by
// MaxSpawnsPerTick and by MaxActive — a wave never busts the concurrency cap.
func (s *Scheduler) spawnWave(def *data.EnemyTemplate, size int) bool {
	anchor, ok := s.place.TryPlan(s.rng, s.subject.SubjectPosition(), s.viewPtr())
	if !ok {
		s.stats.SkippedPlacement++
		return false
	}
	if def == nil {
		def, ok = s.cat.Select(s.rng, s.prog.Table(), true, s.activeOf)
		if !ok {
			s.stats.SkippedEmptyCatalog++
			return false
		}
	}
	if size <= 0 {
		// Forced waves run even when WaveChance is 0 and the size range was
		// never validated; clamp so a degenerate range draws min instead of
		// panicking the host loop.
		lo, hi := s.cfg.WaveSizeMin, s.cfg.WaveSizeMax
		if lo < 1 {
			lo = 1
		}
		if hi < lo {
			hi = lo
		}
		size = lo + s.rng.Intn(hi-lo+1)
	}
	if size > s.cfg.MaxSpawnsPerTick {
		size = s.cfg.MaxSpawnsPerTick
	}

	spawned := 0
	for i := 0; i < size; i++ {
		if s.pool.ActiveCount() >= s.cfg.MaxActive {
			break
		}
		level := s.prog.Table().SelectLevel(s.rng)
		if !s.activate(def, level, anchor.Add(s.waveOffset()), true) {
			break // pool refused; nothing further will succeed this tick
		}
		spawned++
	}
	if spawned > 0 {
		s.stats.Waves++
		return true
	}
	return false
}

// waveOffset draws a uniform point in the wave scatter disk.
func (s *Scheduler) waveOffset() world.Vec2 {
	r := s.cfg.WaveRadius * math.Sqrt(s.rng.Float64())
	ang := s.rng.Float64() * 2 * math.Pi
	return world.Vec2{X: math.Cos(ang) * r, Y: math.Sin(ang) * r}
}

// activate acquires and configures one agent at pos.
func (s *Scheduler) activate(def *data.EnemyTemplate, level int, pos world.Vec2, wave bool) bool {
	a, ok := s.pool.Acquire()
	if !ok {
		s.stats.SkippedPool++
		return false
	}
	a.Def = def
	a.Level = level
	a.Pos = pos

	s.grid.Add(uint64(a.ID), pos)
	s.activeByDef[def.ID]++
	s.stats.Spawned++
	if n := s.pool.ActiveCount(); n > s.stats.PeakActive {
		s.stats.PeakActive = n
	}
	if s.Hooks.AgentSpawned != nil {
		s.Hooks.AgentSpawned(AgentSnapshot{ID: a.ID, DefID: def.ID, Level: level, Pos: pos}, wave)
	}
	s.log.Debug("spawned agent",
		zap.Uint64("agent", uint64(a.ID)),
		zap.Int32("def", def.ID),
		zap.Int("level", level),
		zap.Bool("wave", wave))
	return true
}

func (s *Scheduler) activeOf(defID int32) int {
	return s.activeByDef[defID]
}

func (s *Scheduler) viewPtr() *world.Rect {
	if r, ok := s.subject.ViewRegion(); ok {
		return &r
	}
	return nil
}

// ── Cleanup cadence ───────────────────────────────────────────────

// cleanup releases agents that self-reported done and agents that strayed
// beyond CullDistance from the subject. Collect first, release after — the
// pool must not be mutated while iterating.
func (s *Scheduler) cleanup() {
	subj := s.subject.SubjectPosition()
	var doomed []*Agent
	s.pool.EachActive(func(a *Agent) {
		if a.Dead || (s.cfg.CullDistance > 0 && a.Pos.Dist(subj) > s.cfg.CullDistance) {
			doomed = append(doomed, a)
		}
	})
	for _, a := range doomed {
		s.release(a)
	}
}

func (s *Scheduler) release(a *Agent) {
	if a.Dead {
		s.stats.Defeated++
	} else {
		s.stats.Culled++
	}
	s.grid.Remove(uint64(a.ID), a.Pos)
	if a.Def != nil {
		s.activeByDef[a.Def.ID]--
	}
	s.pool.Release(a)
}

// ── Adaptive cadence ──────────────────────────────────────────────

func (s *Scheduler) adapt() {
	sig := s.sample()
	stress := s.diff.Stress(sig, s.prog.Level(), s.cfg.AheadRange, s.cfg.MaxActive)
	before := s.adjBase
	s.adjBase = s.diff.Adjust(s.adjBase, stress)
	if s.adjBase != before {
		s.log.Debug("adaptive interval step",
			zap.Float64("stress", stress),
			zap.Float64("base_interval", s.adjBase))
	}
}

// sample measures local pressure: live agents within the detection radius
// of the subject and their mean level.
func (s *Scheduler) sample() Signal {
	subj := s.subject.SubjectPosition()
	radius := s.diff.DetectionRadius()
	count := 0
	levelSum := 0
	for _, id := range s.grid.GetNearby(subj) {
		a := s.pool.Get(AgentID(id))
		if a == nil || !a.Active || a.Dead {
			continue
		}
		if a.Pos.Dist(subj) > radius {
			continue
		}
		count++
		levelSum += a.Level
	}
	sig := Signal{CountNear: count}
	if count > 0 {
		sig.AvgLevelNear = float64(levelSum) / float64(count)
	}
	return sig
}

// ── Feed-in and debug surface ─────────────────────────────────────

// OnAgentDefeated forwards a defeat from the combat collaborator to the
// progression tracker.
func (s *Scheduler) OnAgentDefeated(level int, reward float64) {
	s.prog.RecordKill(level)
	s.prog.RecordExperience(reward)
}

// MarkDefeated flags an agent as finished; the next cleanup pass returns it
// to the pool. Stale handles are ignored. Returns whether the flag landed.
func (s *Scheduler) MarkDefeated(id AgentID) bool {
	a := s.pool.Get(id)
	if a == nil || !a.Active || a.Dead {
		return false
	}
	a.Dead = true
	return true
}

// ForceSpawn bypasses the interval timer but not capacity gating. A nil
// definition and zero level fall back to normal selection.
func (s *Scheduler) ForceSpawn(def *data.EnemyTemplate, level int) bool {
	if s.state == StateIdle {
		return false
	}
	if s.pool.ActiveCount() >= s.cfg.MaxActive {
		return false
	}
	return s.spawnSingle(def, level)
}

// ForceWave is ForceSpawn's wave counterpart. size <= 0 draws from the
// configured range.
func (s *Scheduler) ForceWave(def *data.EnemyTemplate, size int) bool {
	if s.state == StateIdle {
		return false
	}
	if s.pool.ActiveCount() >= s.cfg.MaxActive {
		return false
	}
	return s.spawnWave(def, size)
}

// ── Query surface ─────────────────────────────────────────────────

// AgentsNear returns snapshots of live agents within radius of pos. The
// radius must not exceed the difficulty detection radius, which sizes the
// underlying grid cells.
func (s *Scheduler) AgentsNear(pos world.Vec2, radius float64) []AgentSnapshot {
	var out []AgentSnapshot
	for _, id := range s.grid.GetNearby(pos) {
		a := s.pool.Get(AgentID(id))
		if a == nil || !a.Active || a.Dead {
			continue
		}
		if a.Pos.Dist(pos) > radius {
			continue
		}
		defID := int32(0)
		if a.Def != nil {
			defID = a.Def.ID
		}
		out = append(out, AgentSnapshot{ID: a.ID, DefID: defID, Level: a.Level, Pos: a.Pos})
	}
	return out
}

// CurrentDifficulty blends session time and subject level into [0,1].
func (s *Scheduler) CurrentDifficulty() float64 {
	timeF := clamp01(s.elapsed / s.cfg.RampTime)
	levelF := 0.0
	if s.cfg.LevelCap > 1 {
		levelF = clamp01(float64(s.prog.Level()-1) / float64(s.cfg.LevelCap-1))
	}
	return clamp01(0.5*timeF + 0.5*levelF)
}

func (s *Scheduler) State() State             { return s.state }
func (s *Scheduler) ActiveCount() int         { return s.pool.ActiveCount() }
func (s *Scheduler) PooledCount() int         { return s.pool.FreeCount() }
func (s *Scheduler) IndexedCount() int        { return s.grid.Len() }
func (s *Scheduler) CurrentPlayerLevel() int  { return s.prog.Level() }
func (s *Scheduler) CurrentProgress() float64 { return s.prog.Progress() }

// BaseInterval returns the difficulty-adjusted base interval. Telemetry only.
func (s *Scheduler) BaseInterval() float64 { return s.adjBase }

// StatsSnapshot returns a copy of the diagnostic counters.
func (s *Scheduler) StatsSnapshot() Stats { return s.stats }
