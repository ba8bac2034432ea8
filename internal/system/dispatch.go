package system

import (
	"time"

	"github.com/ntploc21/chomp-champ-sub000/internal/core/event"
	coresys "github.com/ntploc21/chomp-champ-sub000/internal/core/system"
)

// DispatchSystem rotates the event bus buffers and delivers last tick's
// events to their handlers. Phase 0 (Dispatch) — runs before anything that
// emits.
type DispatchSystem struct {
	bus *event.Bus
}

func NewDispatchSystem(bus *event.Bus) *DispatchSystem {
	return &DispatchSystem{bus: bus}
}

func (s *DispatchSystem) Phase() coresys.Phase { return coresys.PhaseDispatch }

func (s *DispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
