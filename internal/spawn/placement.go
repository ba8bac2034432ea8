package spawn

import (
	"math"
	"math/rand"

	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

type PlacementConfig struct {
	ExclusionRadius float64 // no spawn closer than this to the subject
	SpawnDistance   float64 // nominal spawn range from the region center
	EdgeBuffer      float64 // how far beyond the view edge off-screen spawns land
	Slack           float64 // extra tolerance on the distance-from-center cap
	MaxAttempts     int

	// Bounds is the explicit fallback rectangle used when the session has no
	// view region. Nil means fall through to the ring strategy.
	Bounds *world.Rect
}

// Placement generates and validates candidate spawn coordinates. Strategy
// priority: just off the view region's edge, then uniform inside Bounds,
// then a ring around the subject at SpawnDistance.
type Placement struct {
	cfg PlacementConfig
}

func NewPlacement(cfg PlacementConfig) *Placement {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 15
	}
	return &Placement{cfg: cfg}
}

// TryPlan draws up to MaxAttempts independent candidates and returns the
// first valid one. A candidate is valid iff it keeps ExclusionRadius from
// the subject and stays within SpawnDistance+EdgeBuffer+Slack of the region
// center. On exhaustion it returns ok=false; the caller must skip the spawn
// rather than substitute an invalid position.
func (pl *Placement) TryPlan(rng *rand.Rand, subject world.Vec2, view *world.Rect) (world.Vec2, bool) {
	maxDist := pl.cfg.SpawnDistance + pl.cfg.EdgeBuffer + pl.cfg.Slack
	for i := 0; i < pl.cfg.MaxAttempts; i++ {
		var p, center world.Vec2
		switch {
		case view != nil:
			p = pl.edgeCandidate(rng, *view)
			center = view.Center
		case pl.cfg.Bounds != nil:
			p = uniformIn(rng, *pl.cfg.Bounds)
			center = pl.cfg.Bounds.Center
		default:
			p = ringCandidate(rng, subject, pl.cfg.SpawnDistance)
			center = subject
		}

		if p.Dist(subject) < pl.cfg.ExclusionRadius {
			continue
		}
		if p.Dist(center) > maxDist {
			continue
		}
		return p, true
	}
	return world.Vec2{}, false
}

// edgeCandidate picks one of the four cardinal sides at random, places the
// point just beyond that edge by EdgeBuffer, and randomizes along the
// perpendicular axis within the region's extent.
func (pl *Placement) edgeCandidate(rng *rand.Rand, view world.Rect) world.Vec2 {
	switch rng.Intn(4) {
	case 0: // left
		return world.Vec2{X: view.MinX() - pl.cfg.EdgeBuffer, Y: lerp(view.MinY(), view.MaxY(), rng.Float64())}
	case 1: // right
		return world.Vec2{X: view.MaxX() + pl.cfg.EdgeBuffer, Y: lerp(view.MinY(), view.MaxY(), rng.Float64())}
	case 2: // bottom
		return world.Vec2{X: lerp(view.MinX(), view.MaxX(), rng.Float64()), Y: view.MinY() - pl.cfg.EdgeBuffer}
	default: // top
		return world.Vec2{X: lerp(view.MinX(), view.MaxX(), rng.Float64()), Y: view.MaxY() + pl.cfg.EdgeBuffer}
	}
}

func uniformIn(rng *rand.Rand, r world.Rect) world.Vec2 {
	return world.Vec2{
		X: lerp(r.MinX(), r.MaxX(), rng.Float64()),
		Y: lerp(r.MinY(), r.MaxY(), rng.Float64()),
	}
}

func ringCandidate(rng *rand.Rand, center world.Vec2, radius float64) world.Vec2 {
	ang := rng.Float64() * 2 * math.Pi
	return world.Vec2{
		X: center.X + math.Cos(ang)*radius,
		Y: center.Y + math.Sin(ang)*radius,
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
