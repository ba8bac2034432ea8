package spawn

import (
	"math/rand"
	"testing"

	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

func TestPlacementKeepsExclusionRadius(t *testing.T) {
	pl := NewPlacement(PlacementConfig{
		ExclusionRadius: 5,
		SpawnDistance:   20,
		EdgeBuffer:      2,
		Slack:           6,
		MaxAttempts:     15,
	})
	rng := rand.New(rand.NewSource(11))
	subject := world.Vec2{X: 3, Y: -4}
	view := world.Rect{Center: subject, HalfW: 16, HalfH: 9}

	for i := 0; i < 1000; i++ {
		p, ok := pl.TryPlan(rng, subject, &view)
		if !ok {
			t.Fatalf("draw %d: placement failed with a valid region", i)
		}
		if d := p.Dist(subject); d < 5 {
			t.Fatalf("draw %d: spawn %.2f from subject, inside exclusion radius", i, d)
		}
		if d := p.Dist(view.Center); d > 20+2+6 {
			t.Fatalf("draw %d: spawn %.2f from center, beyond the distance cap", i, d)
		}
	}
}

func TestPlacementEdgeCandidatesLandOffView(t *testing.T) {
	pl := NewPlacement(PlacementConfig{
		ExclusionRadius: 1,
		SpawnDistance:   30,
		EdgeBuffer:      2,
		Slack:           6,
		MaxAttempts:     15,
	})
	rng := rand.New(rand.NewSource(11))
	view := world.Rect{HalfW: 16, HalfH: 9}

	for i := 0; i < 500; i++ {
		p, ok := pl.TryPlan(rng, world.Vec2{}, &view)
		if !ok {
			t.Fatalf("draw %d: placement failed", i)
		}
		if view.Contains(p) {
			t.Fatalf("draw %d: edge candidate %v inside the view region", i, p)
		}
	}
}

// All candidates invalid → the attempt budget exhausts and the caller must
// skip, never receive a bad position.
func TestPlacementExhaustionReportsFailure(t *testing.T) {
	pl := NewPlacement(PlacementConfig{
		ExclusionRadius: 50, // ring at 10 can never satisfy this
		SpawnDistance:   10,
		MaxAttempts:     15,
	})
	rng := rand.New(rand.NewSource(11))
	if _, ok := pl.TryPlan(rng, world.Vec2{}, nil); ok {
		t.Fatal("placement returned ok with no valid candidate possible")
	}
}

func TestPlacementBoundsFallback(t *testing.T) {
	bounds := world.Rect{HalfW: 40, HalfH: 40}
	pl := NewPlacement(PlacementConfig{
		ExclusionRadius: 5,
		SpawnDistance:   30,
		Slack:           30,
		MaxAttempts:     15,
		Bounds:          &bounds,
	})
	rng := rand.New(rand.NewSource(11))
	subject := world.Vec2{X: 10, Y: 10}

	for i := 0; i < 500; i++ {
		p, ok := pl.TryPlan(rng, subject, nil)
		if !ok {
			t.Fatalf("draw %d: bounds fallback failed", i)
		}
		if !bounds.Contains(p) {
			t.Fatalf("draw %d: candidate %v outside bounds", i, p)
		}
		if p.Dist(subject) < 5 {
			t.Fatalf("draw %d: candidate inside exclusion radius", i)
		}
	}
}

func TestPlacementRingFallback(t *testing.T) {
	pl := NewPlacement(PlacementConfig{
		ExclusionRadius: 5,
		SpawnDistance:   10,
		Slack:           0.5,
		MaxAttempts:     15,
	})
	rng := rand.New(rand.NewSource(11))
	subject := world.Vec2{X: -20, Y: 7}
	p, ok := pl.TryPlan(rng, subject, nil)
	if !ok {
		t.Fatal("ring fallback failed")
	}
	if d := p.Dist(subject); d < 9.99 || d > 10.01 {
		t.Fatalf("ring candidate at distance %.3f, want 10", d)
	}
}
