package spawn

import (
	"math/rand"
	"testing"

	"github.com/ntploc21/chomp-champ-sub000/internal/data"
)

func mustTable(t *testing.T, templates ...data.EnemyTemplate) *data.EnemyTable {
	t.Helper()
	tbl, err := data.NewEnemyTable(templates)
	if err != nil {
		t.Fatalf("NewEnemyTable: %v", err)
	}
	return tbl
}

func TestSelectExcludesCappedDefinitions(t *testing.T) {
	cat := NewCatalog(mustTable(t,
		data.EnemyTemplate{ID: 1, Name: "minnow", Level: 1, SpawnWeight: 1, MaxConcurrent: 2},
		data.EnemyTemplate{ID: 2, Name: "crab", Level: 2, SpawnWeight: 1},
	))
	rng := rand.New(rand.NewSource(7))
	active := map[int32]int{1: 2} // minnow at its cap
	for i := 0; i < 200; i++ {
		def, ok := cat.Select(rng, nil, false, func(id int32) int { return active[id] })
		if !ok {
			t.Fatal("selection failed with an uncapped candidate available")
		}
		if def.ID == 1 {
			t.Fatalf("draw %d: selected capped definition", i)
		}
	}
}

func TestSelectFailsWhenAllCapped(t *testing.T) {
	cat := NewCatalog(mustTable(t,
		data.EnemyTemplate{ID: 1, Name: "minnow", Level: 1, SpawnWeight: 1, MaxConcurrent: 1},
	))
	rng := rand.New(rand.NewSource(7))
	if _, ok := cat.Select(rng, nil, false, func(int32) int { return 1 }); ok {
		t.Fatal("selection succeeded with every definition capped")
	}
}

func TestWaveSelectionPrefersEligible(t *testing.T) {
	cat := NewCatalog(mustTable(t,
		data.EnemyTemplate{ID: 1, Name: "minnow", Level: 1, SpawnWeight: 1, WaveEligible: true},
		data.EnemyTemplate{ID: 2, Name: "shark", Level: 5, SpawnWeight: 10},
	))
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		def, ok := cat.Select(rng, nil, true, nil)
		if !ok || def.ID != 1 {
			t.Fatalf("draw %d: wave selected ineligible %v", i, def)
		}
	}
}

// A preference that would empty the candidate set falls back to the full set
// instead of failing.
func TestWaveSelectionFallsBackWhenNoneEligible(t *testing.T) {
	cat := NewCatalog(mustTable(t,
		data.EnemyTemplate{ID: 1, Name: "shark", Level: 5, SpawnWeight: 1},
	))
	rng := rand.New(rand.NewSource(7))
	def, ok := cat.Select(rng, nil, true, nil)
	if !ok || def.ID != 1 {
		t.Fatalf("wave fallback: got %v, ok=%v", def, ok)
	}
}

func TestSelectPrefersWindowLevels(t *testing.T) {
	cat := NewCatalog(mustTable(t,
		data.EnemyTemplate{ID: 1, Name: "minnow", Level: 1, SpawnWeight: 10},
		data.EnemyTemplate{ID: 2, Name: "crab", Level: 4, SpawnWeight: 1},
	))
	window := BuildWeightTable(4, 1, 1, 1.0, DefaultCurves{}) // [3,5]
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		def, ok := cat.Select(rng, window, false, nil)
		if !ok || def.ID != 2 {
			t.Fatalf("draw %d: selected outside the window: %v", i, def)
		}
	}
}

func TestSelectWindowFallsBackWhenEmpty(t *testing.T) {
	cat := NewCatalog(mustTable(t,
		data.EnemyTemplate{ID: 1, Name: "minnow", Level: 1, SpawnWeight: 1},
	))
	window := BuildWeightTable(8, 1, 1, 1.0, DefaultCurves{}) // [7,9]
	rng := rand.New(rand.NewSource(7))
	def, ok := cat.Select(rng, window, false, nil)
	if !ok || def.ID != 1 {
		t.Fatalf("window fallback: got %v, ok=%v", def, ok)
	}
}
