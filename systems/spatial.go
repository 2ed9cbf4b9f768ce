// Package systems implements the thread field physics: spatial hashing,
// constraint relaxation, stickiness, interaction repulsion and integration,
// orchestrated per frame by ThreadSystem.
package systems

import (
	"math"

	"github.com/pthm-cable/threads/components"
)

// GridEntry locates a point inside the thread collection.
type GridEntry struct {
	Thread int
	Index  int
}

type cellKey struct {
	X, Y int
}

// SpatialHashGrid buckets free points by cell for 3x3 neighbour queries.
// It is rebuilt every frame; anchored points are never inserted.
//
// Cells are keyed by integer coordinate rather than stored in a bounded flat
// array, so points briefly pushed outside the viewport still hash correctly.
type SpatialHashGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cells       map[cellKey][]GridEntry
	count       int
}

// NewSpatialHashGrid creates an empty grid. cellSize must be positive.
func NewSpatialHashGrid(cellSize float64) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
		cells:       make(map[cellKey][]GridEntry),
	}
}

// CellSize returns the edge length of a cell.
func (g *SpatialHashGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all entries. Buckets that were already empty are dropped so
// the map does not grow with every cell ever visited; the rest keep their
// backing arrays for the next frame.
func (g *SpatialHashGrid) Clear() {
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = bucket[:0]
	}
	g.count = 0
}

// Insert adds an entry at the given position.
func (g *SpatialHashGrid) Insert(pos components.Vec2, e GridEntry) {
	k := g.cellOf(pos)
	g.cells[k] = append(g.cells[k], e)
	g.count++
}

// Rebuild clears the grid and inserts every non-anchored point.
func (g *SpatialHashGrid) Rebuild(threads []components.Thread) {
	g.Clear()
	for ti := range threads {
		pts := threads[ti].Points
		for pi := range pts {
			if pts[pi].Anchored {
				continue
			}
			g.Insert(pts[pi].Pos, GridEntry{Thread: ti, Index: pi})
		}
	}
}

// QueryNeighbors appends every entry in the 3x3 cell block around pos to dst
// and returns the extended slice. Reuse dst across calls to avoid allocations.
func (g *SpatialHashGrid) QueryNeighbors(pos components.Vec2, dst []GridEntry) []GridEntry {
	c := g.cellOf(pos)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			dst = append(dst, g.cells[cellKey{X: c.X + dx, Y: c.Y + dy}]...)
		}
	}
	return dst
}

// Len returns the number of entries in the grid.
func (g *SpatialHashGrid) Len() int {
	return g.count
}

// Cells returns the number of occupied cells.
func (g *SpatialHashGrid) Cells() int {
	n := 0
	for _, bucket := range g.cells {
		if len(bucket) > 0 {
			n++
		}
	}
	return n
}

// cellOf returns the cell coordinate containing pos.
func (g *SpatialHashGrid) cellOf(pos components.Vec2) cellKey {
	return cellKey{
		X: int(math.Floor(pos.X * g.invCellSize)),
		Y: int(math.Floor(pos.Y * g.invCellSize)),
	}
}
