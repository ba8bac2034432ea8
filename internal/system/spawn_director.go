package system

import (
	"time"

	coresys "github.com/ntploc21/chomp-champ-sub000/internal/core/system"
	"github.com/ntploc21/chomp-champ-sub000/internal/spawn"
)

// SpawnDirectorSystem advances the spawn scheduler's three cadences each
// tick. Phase 2 (Spawn) — after the session system moved the subject, so
// placement and difficulty sampling see this tick's position.
type SpawnDirectorSystem struct {
	sched *spawn.Scheduler
}

func NewSpawnDirectorSystem(sched *spawn.Scheduler) *SpawnDirectorSystem {
	return &SpawnDirectorSystem{sched: sched}
}

func (s *SpawnDirectorSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnDirectorSystem) Update(dt time.Duration) {
	s.sched.Tick(dt.Seconds())
}
