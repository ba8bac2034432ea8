package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseDispatch  Phase = iota // 0: deliver last tick's events
	PhaseSession                // 1: subject movement + eat resolution
	PhaseSpawn                  // 2: spawn director cadences
	PhaseTelemetry              // 3: periodic stats logging
	PhasePersist                // 4: session row checkpoint
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
