package system

import (
	"math"
	"math/rand"
	"time"

	"github.com/ntploc21/chomp-champ-sub000/internal/config"
	"github.com/ntploc21/chomp-champ-sub000/internal/core/event"
	coresys "github.com/ntploc21/chomp-champ-sub000/internal/core/system"
	"github.com/ntploc21/chomp-champ-sub000/internal/data"
	"github.com/ntploc21/chomp-champ-sub000/internal/spawn"
	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

// SessionSystem is the combat collaborator around the spawn director: it
// wanders the subject through the world and resolves eat-or-be-eaten
// contacts. Agents at or below the subject's threat level are consumed and
// reported as defeats; stronger ones shove the subject back. Agent movement
// itself is out of scope — spawned agents hold their position until
// consumed or culled.
type SessionSystem struct {
	ws      *world.State
	sched   *spawn.Scheduler
	enemies *data.EnemyTable
	bus     *event.Bus
	rng     *rand.Rand
	cfg     config.SimConfig
}

func NewSessionSystem(ws *world.State, sched *spawn.Scheduler, enemies *data.EnemyTable, bus *event.Bus, rng *rand.Rand, cfg config.SimConfig) *SessionSystem {
	return &SessionSystem{
		ws:      ws,
		sched:   sched,
		enemies: enemies,
		bus:     bus,
		rng:     rng,
		cfg:     cfg,
	}
}

func (s *SessionSystem) Phase() coresys.Phase { return coresys.PhaseSession }

func (s *SessionSystem) Update(dt time.Duration) {
	s.wander(dt.Seconds())
	s.resolveContacts()
}

// wander drifts the subject's heading and advances it, bouncing off the
// world bounds with a fresh random heading.
func (s *SessionSystem) wander(dtSec float64) {
	subj := &s.ws.Subject
	subj.Heading += (s.rng.Float64() - 0.5) * 0.8
	next := world.Vec2{
		X: subj.Pos.X + math.Cos(subj.Heading)*s.cfg.SubjectSpeed*dtSec,
		Y: subj.Pos.Y + math.Sin(subj.Heading)*s.cfg.SubjectSpeed*dtSec,
	}
	bounds := s.ws.Bounds()
	clamped := bounds.Clamp(next)
	if clamped != next {
		subj.Heading = s.rng.Float64() * 2 * math.Pi
	}
	subj.Pos = clamped
}

func (s *SessionSystem) resolveContacts() {
	subj := &s.ws.Subject
	level := s.sched.CurrentPlayerLevel()
	for _, a := range s.sched.AgentsNear(subj.Pos, s.cfg.EatRadius) {
		if a.Level <= level {
			if !s.sched.MarkDefeated(a.ID) {
				continue
			}
			subj.Consumed++
			event.Emit(s.bus, event.AgentDefeated{
				AgentID: uint64(a.ID),
				Level:   a.Level,
				Reward:  s.reward(a),
			})
			continue
		}
		// Too strong to eat: shove the subject just outside the contact
		// radius so one overlap counts as one bump.
		subj.Bumps++
		event.Emit(s.bus, event.SubjectBumped{AgentID: uint64(a.ID), AgentLevel: a.Level})
		subj.Pos = s.ws.Bounds().Clamp(pushAway(subj.Pos, a.Pos, s.cfg.EatRadius+0.5))
	}
}

func (s *SessionSystem) reward(a spawn.AgentSnapshot) float64 {
	if tmpl := s.enemies.Get(a.DefID); tmpl != nil && tmpl.Reward > 0 {
		return tmpl.Reward
	}
	return float64(a.Level)
}

// pushAway moves p to dist units from origin along the origin→p direction.
func pushAway(p, from world.Vec2, dist float64) world.Vec2 {
	d := p.Sub(from)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		return world.Vec2{X: from.X + dist, Y: from.Y}
	}
	scale := dist / length
	return world.Vec2{X: from.X + d.X*scale, Y: from.Y + d.Y*scale}
}
