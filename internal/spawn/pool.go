package spawn

import (
	"fmt"

	"github.com/ntploc21/chomp-champ-sub000/internal/data"
	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

// AgentID encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. Generation increments when a slot is
// destroyed, so stale handles held by collaborators never resolve to a
// recycled agent.
type AgentID uint64

func NewAgentID(index uint32, generation uint32) AgentID {
	return AgentID(uint64(generation)<<32 | uint64(index))
}

func (id AgentID) Index() uint32      { return uint32(id) }
func (id AgentID) Generation() uint32 { return uint32(id >> 32) }

// Agent is a pooled enemy instance. The pool owns every Agent exclusively;
// the scheduler holds transient references during configuration and the
// session reads snapshots, never the struct itself.
type Agent struct {
	ID    AgentID
	Def   *data.EnemyTemplate
	Level int
	Pos   world.Vec2

	// Active means held out of the free list. Dead means the agent finished
	// (consumed or expired) and is waiting for the cleanup cadence to release
	// it. An agent is never Active while sitting on the free list.
	Active bool
	Dead   bool
}

type PoolConfig struct {
	InitialSize  int // pre-warmed inactive agents at session start
	SoftCapacity int // steady-state target size; also the burst headroom above hard
	HardCapacity int // retained-agent bound enforced on release
}

// Pool hands out and reclaims agent handles. Growth is cheap up to
// HardCapacity; beyond it the pool tolerates a transient burst of up to
// SoftCapacity extra agents, which Release destroys instead of retaining, so
// steady-state memory stays bounded. Acquire refuses only past the burst
// ceiling. Single-owner, single-thread: touched exclusively from the
// scheduler's tick.
type Pool struct {
	cfg         PoolConfig
	slots       []*Agent // slot index → agent; nil once destroyed
	generations []uint32
	free        []uint32
	active      int
}

func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.HardCapacity <= 0 {
		return nil, fmt.Errorf("pool: hard_capacity must be > 0, got %d", cfg.HardCapacity)
	}
	if cfg.SoftCapacity <= 0 || cfg.SoftCapacity > cfg.HardCapacity {
		return nil, fmt.Errorf("pool: soft_capacity must be in [1, hard_capacity], got %d", cfg.SoftCapacity)
	}
	if cfg.InitialSize < 0 || cfg.InitialSize > cfg.SoftCapacity {
		return nil, fmt.Errorf("pool: initial_size must be in [0, soft_capacity], got %d", cfg.InitialSize)
	}
	p := &Pool{
		cfg:         cfg,
		slots:       make([]*Agent, 0, cfg.SoftCapacity),
		generations: make([]uint32, 0, cfg.SoftCapacity),
		free:        make([]uint32, 0, cfg.SoftCapacity),
	}
	// Pre-warm to avoid first-use allocation spikes mid-session.
	for i := 0; i < cfg.InitialSize; i++ {
		idx := p.newSlot()
		p.free = append(p.free, idx)
	}
	return p, nil
}

func (p *Pool) newSlot() uint32 {
	idx := uint32(len(p.slots))
	p.generations = append(p.generations, 0)
	p.slots = append(p.slots, &Agent{ID: NewAgentID(idx, 0)})
	return idx
}

// Acquire returns an active handle with all per-spawn state cleared, or
// (nil, false) when demand exceeds the burst ceiling. The caller treats a
// refusal as "spawn nothing this tick".
func (p *Pool) Acquire() (*Agent, bool) {
	var a *Agent
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		a = p.slots[idx]
	} else {
		if p.Total() >= p.cfg.HardCapacity+p.cfg.SoftCapacity {
			return nil, false
		}
		a = p.slots[p.newSlot()]
	}
	a.Def = nil
	a.Level = 0
	a.Pos = world.Vec2{}
	a.Dead = false
	a.Active = true
	p.active++
	return a, true
}

// Release deactivates a handle and either retains it on the free list or,
// when retention would exceed HardCapacity, destroys it outright. Destroying
// bumps the slot generation so outstanding IDs go stale.
func (p *Pool) Release(a *Agent) {
	if a == nil || !a.Active {
		return
	}
	a.Active = false
	a.Dead = false
	a.Def = nil
	a.Level = 0
	a.Pos = world.Vec2{}
	p.active--

	idx := a.ID.Index()
	if p.active+len(p.free)+1 > p.cfg.HardCapacity {
		p.generations[idx]++
		p.slots[idx] = nil
		return
	}
	p.free = append(p.free, idx)
}

// Get resolves a handle, returning nil for stale or destroyed IDs.
func (p *Pool) Get(id AgentID) *Agent {
	idx := id.Index()
	if int(idx) >= len(p.slots) {
		return nil
	}
	if p.generations[idx] != id.Generation() {
		return nil
	}
	return p.slots[idx]
}

// EachActive visits every currently active agent. The visit function must
// not acquire or release — cadences that reclaim agents collect first, then
// release.
func (p *Pool) EachActive(fn func(*Agent)) {
	for _, a := range p.slots {
		if a != nil && a.Active {
			fn(a)
		}
	}
}

func (p *Pool) ActiveCount() int { return p.active }
func (p *Pool) FreeCount() int   { return len(p.free) }

// Total is the number of live handles, active plus pooled.
func (p *Pool) Total() int { return p.active + len(p.free) }
