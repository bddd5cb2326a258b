package forestfire

import (
	"slices"

	"wildfire-ca/internal/core"
)

// GridView is a read-only snapshot of the grid after a given step. The engine
// never writes to a grid once a view of it has been handed out.
type GridView struct {
	grid *core.Grid[Cell]
	step int
}

// Width returns the number of columns.
func (v GridView) Width() int {
	if v.grid == nil {
		return 0
	}
	return v.grid.W
}

// Height returns the number of rows.
func (v GridView) Height() int {
	if v.grid == nil {
		return 0
	}
	return v.grid.H
}

// Size returns the grid dimensions.
func (v GridView) Size() core.Size { return core.Size{W: v.Width(), H: v.Height()} }

// Step returns the step counter the snapshot was taken at.
func (v GridView) Step() int { return v.step }

// InBounds reports whether (row, col) addresses a cell.
func (v GridView) InBounds(row, col int) bool {
	return v.grid != nil && v.grid.InBounds(col, row)
}

// At returns the state at (row, col). Out-of-bounds reads return Empty.
func (v GridView) At(row, col int) Cell {
	if !v.InBounds(row, col) {
		return Empty
	}
	return v.grid.At(col, row)
}

// Cells returns a copy of the cells in row-major order.
func (v GridView) Cells() []Cell {
	if v.grid == nil {
		return nil
	}
	return slices.Clone(v.grid.Cells())
}

// Equal reports whether both views hold identical cells and dimensions. The
// step counter is not compared.
func (v GridView) Equal(o GridView) bool {
	if v.Width() != o.Width() || v.Height() != o.Height() {
		return false
	}
	if v.grid == nil || o.grid == nil {
		return v.grid == o.grid
	}
	return slices.Equal(v.grid.Cells(), o.grid.Cells())
}

// Census counts cells per state.
func (v GridView) Census() Census {
	var c Census
	if v.grid == nil {
		return c
	}
	for _, cell := range v.grid.Cells() {
		c.add(cell)
	}
	return c
}

// Census holds per-state cell counts.
type Census struct {
	Empty     int `json:"empty"`
	Deciduous int `json:"deciduous"`
	Conifer   int `json:"conifer"`
	Burning   int `json:"burning"`
	Barrier   int `json:"barrier"`
}

func (c *Census) add(cell Cell) {
	switch cell {
	case Empty:
		c.Empty++
	case Deciduous:
		c.Deciduous++
	case Conifer:
		c.Conifer++
	case Burning:
		c.Burning++
	case Barrier:
		c.Barrier++
	}
}

// Count returns the number of cells in the given state.
func (c Census) Count(cell Cell) int {
	switch cell {
	case Empty:
		return c.Empty
	case Deciduous:
		return c.Deciduous
	case Conifer:
		return c.Conifer
	case Burning:
		return c.Burning
	case Barrier:
		return c.Barrier
	default:
		return 0
	}
}

// Vegetation returns the number of living trees of either kind.
func (c Census) Vegetation() int { return c.Deciduous + c.Conifer }

// Total returns the number of cells counted.
func (c Census) Total() int {
	return c.Empty + c.Deciduous + c.Conifer + c.Burning + c.Barrier
}
