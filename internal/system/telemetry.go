package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/ntploc21/chomp-champ-sub000/internal/core/system"
	"github.com/ntploc21/chomp-champ-sub000/internal/spawn"
	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

// TelemetrySystem logs a periodic stats line for operators. Phase 3
// (Telemetry).
type TelemetrySystem struct {
	sched     *spawn.Scheduler
	ws        *world.State
	log       *zap.Logger
	interval  int // every N ticks
	tickCount int
}

func NewTelemetrySystem(sched *spawn.Scheduler, ws *world.State, log *zap.Logger, intervalTicks int) *TelemetrySystem {
	if intervalTicks < 1 {
		intervalTicks = 100
	}
	return &TelemetrySystem{
		sched:    sched,
		ws:       ws,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhaseTelemetry }

func (s *TelemetrySystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	st := s.sched.StatsSnapshot()
	s.log.Info("session stats",
		zap.Int("active", s.sched.ActiveCount()),
		zap.Int("pooled", s.sched.PooledCount()),
		zap.Int("indexed", s.sched.IndexedCount()),
		zap.Int("level", s.sched.CurrentPlayerLevel()),
		zap.Float64("progress", s.sched.CurrentProgress()),
		zap.Float64("difficulty", s.sched.CurrentDifficulty()),
		zap.Float64("base_interval", s.sched.BaseInterval()),
		zap.Uint64("spawned", st.Spawned),
		zap.Uint64("waves", st.Waves),
		zap.Int("consumed", s.ws.Subject.Consumed),
		zap.Int("bumps", s.ws.Subject.Bumps),
		zap.Uint64("skip_catalog", st.SkippedEmptyCatalog),
		zap.Uint64("skip_placement", st.SkippedPlacement),
		zap.Uint64("skip_pool", st.SkippedPool),
	)
}
