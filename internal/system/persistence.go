package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/ntploc21/chomp-champ-sub000/internal/core/system"
	"github.com/ntploc21/chomp-champ-sub000/internal/persist"
	"github.com/ntploc21/chomp-champ-sub000/internal/spawn"
	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

// PersistenceSystem checkpoints the running session row so a crash loses at
// most one interval of telemetry. Phase 4 (Persist). A nil repo (no database
// configured) makes every call a no-op.
type PersistenceSystem struct {
	sched     *spawn.Scheduler
	ws        *world.State
	repo      *persist.SessionRepo
	sessionID int64
	serverID  int
	log       *zap.Logger
	elapsed   float64 // game-time seconds, accumulated here for the row
	tickCount int
	interval  int // checkpoint every N ticks
}

func NewPersistenceSystem(sched *spawn.Scheduler, ws *world.State, repo *persist.SessionRepo, sessionID int64, serverID int, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	if intervalTicks < 1 {
		intervalTicks = 600
	}
	return &PersistenceSystem{
		sched:     sched,
		ws:        ws,
		repo:      repo,
		sessionID: sessionID,
		serverID:  serverID,
		log:       log,
		interval:  intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(dt time.Duration) {
	s.elapsed += dt.Seconds()
	if s.repo == nil {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.checkpoint()
}

// FinalSave writes the last checkpoint and stamps the session end. Called on
// graceful shutdown.
func (s *PersistenceSystem) FinalSave() {
	if s.repo == nil {
		return
	}
	s.checkpoint()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Finish(ctx, s.sessionID); err != nil {
		s.log.Error("finish session row", zap.Error(err))
	}
}

func (s *PersistenceSystem) checkpoint() {
	st := s.sched.StatsSnapshot()
	row := persist.SessionRow{
		ID:                  s.sessionID,
		ServerID:            s.serverID,
		DurationSeconds:     s.elapsed,
		FinalLevel:          s.sched.CurrentPlayerLevel(),
		Kills:               s.ws.Subject.Consumed,
		Spawned:             int(st.Spawned),
		Waves:               int(st.Waves),
		Culled:              int(st.Culled),
		PeakActive:          st.PeakActive,
		SkippedEmptyCatalog: int(st.SkippedEmptyCatalog),
		SkippedPlacement:    int(st.SkippedPlacement),
		SkippedPool:         int(st.SkippedPool),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Checkpoint(ctx, row); err != nil {
		s.log.Error("checkpoint session row", zap.Error(err))
	}
}
