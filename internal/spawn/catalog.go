package spawn

import (
	"math/rand"

	"github.com/ntploc21/chomp-champ-sub000/internal/data"
)

// Catalog wraps the authored enemy table with the selection logic the
// scheduler uses to pick a definition for each spawn.
type Catalog struct {
	defs []*data.EnemyTemplate
}

// NewCatalog builds selection state over a loaded enemy table. The table
// already rejected empty or invalid catalogs at load time.
func NewCatalog(table *data.EnemyTable) *Catalog {
	return &Catalog{defs: table.All()}
}

// Select picks a definition by weighted random choice among the candidates
// that survive filtering:
//
//  1. definitions whose per-type concurrency cap is already met are excluded;
//  2. wave spawns prefer wave-eligible definitions, falling back to the full
//     candidate set if none remain;
//  3. definitions whose level falls inside the current weight-table window
//     are preferred, again falling back rather than emptying the set.
//
// Only step 1 can make the set empty; that is the one condition reported as
// a failed selection, and the caller skips the spawn attempt.
func (c *Catalog) Select(rng *rand.Rand, window *WeightTable, forWave bool, activeOf func(id int32) int) (*data.EnemyTemplate, bool) {
	candidates := make([]*data.EnemyTemplate, 0, len(c.defs))
	for _, def := range c.defs {
		if def.MaxConcurrent > 0 && activeOf != nil && activeOf(def.ID) >= def.MaxConcurrent {
			continue
		}
		candidates = append(candidates, def)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	if forWave {
		candidates = preferFilter(candidates, func(d *data.EnemyTemplate) bool {
			return d.WaveEligible
		})
	}
	if window != nil {
		candidates = preferFilter(candidates, func(d *data.EnemyTemplate) bool {
			return window.Contains(d.Level)
		})
	}

	return rouletteDef(rng, candidates), true
}

// preferFilter keeps only matching candidates, unless that would empty the
// set, in which case the original set is returned untouched.
func preferFilter(defs []*data.EnemyTemplate, keep func(*data.EnemyTemplate) bool) []*data.EnemyTemplate {
	filtered := make([]*data.EnemyTemplate, 0, len(defs))
	for _, d := range defs {
		if keep(d) {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) == 0 {
		return defs
	}
	return filtered
}

// rouletteDef is the same cumulative-weight draw the level table uses, over
// spawn weights. Last candidate wins on float underrun.
func rouletteDef(rng *rand.Rand, defs []*data.EnemyTemplate) *data.EnemyTemplate {
	total := 0.0
	for _, d := range defs {
		total += d.SpawnWeight
	}
	u := rng.Float64() * total
	cum := 0.0
	for _, d := range defs {
		cum += d.SpawnWeight
		if cum >= u {
			return d
		}
	}
	return defs[len(defs)-1]
}
