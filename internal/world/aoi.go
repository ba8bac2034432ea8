package world

import "math"

// AOIGrid implements a cell-based area-of-interest index over agent positions.
// Cell size is chosen so that a 3x3 neighbourhood of cells fully covers the
// largest query radius used by the session (difficulty sampling and the
// subject's eat check). Accessed only from the game loop goroutine — no locks.

type cellKey struct {
	cx int32
	cy int32
}

// AOIGrid tracks which agent IDs are in which cells.
type AOIGrid struct {
	cellSize float64
	cells    map[cellKey]map[uint64]struct{} // cellKey → set of agent IDs
}

// NewAOIGrid creates a grid. cellSize must be at least the largest radius
// queried through GetNearby, or queries will miss agents in far cells.
func NewAOIGrid(cellSize float64) *AOIGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &AOIGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[uint64]struct{}),
	}
}

func (g *AOIGrid) key(p Vec2) cellKey {
	return cellKey{
		cx: int32(math.Floor(p.X / g.cellSize)),
		cy: int32(math.Floor(p.Y / g.cellSize)),
	}
}

// Add places an agent into the grid.
func (g *AOIGrid) Add(id uint64, p Vec2) {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[uint64]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

// Remove takes an agent out of the grid.
func (g *AOIGrid) Remove(id uint64, p Vec2) {
	k := g.key(p)
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// GetNearby returns all agent IDs in a 3x3 neighbourhood of cells around the
// given position. Caller does fine-grained distance filtering.
func (g *AOIGrid) GetNearby(p Vec2) []uint64 {
	center := g.key(p)
	var result []uint64
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			k := cellKey{cx: center.cx + dx, cy: center.cy + dy}
			for id := range g.cells[k] {
				result = append(result, id)
			}
		}
	}
	return result
}

// Len returns the number of indexed agents. Used by telemetry.
func (g *AOIGrid) Len() int {
	n := 0
	for _, cell := range g.cells {
		n += len(cell)
	}
	return n
}
