package core

// Offset is a neighbour displacement in rows and columns.
type Offset struct {
	DRow, DCol int
}

var (
	// MooreOffsets lists the 8 Moore neighbours in row-major order.
	MooreOffsets = []Offset{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	// VonNeumannOffsets lists the 4 orthogonal neighbours in row-major order.
	VonNeumannOffsets = []Offset{
		{-1, 0},
		{0, -1}, {0, 1},
		{1, 0},
	}
)

// ShiftNoWrap writes src translated by off into dst, both w*h row-major masks.
// Afterwards dst[r][c] == src[r-DRow][c-DCol] when that source is inside the
// grid and false otherwise; nothing wraps around an edge.
func ShiftNoWrap(dst, src []bool, w, h int, off Offset) {
	for i := range dst {
		dst[i] = false
	}
	if abs(off.DRow) >= h || abs(off.DCol) >= w {
		return
	}

	srcRow0 := max(0, -off.DRow)
	srcRow1 := h - max(0, off.DRow)
	srcCol0 := max(0, -off.DCol)
	srcCol1 := w - max(0, off.DCol)
	span := srcCol1 - srcCol0

	for r := srcRow0; r < srcRow1; r++ {
		from := r*w + srcCol0
		to := (r+off.DRow)*w + srcCol0 + off.DCol
		copy(dst[to:to+span], src[from:from+span])
	}
}

// Any reports whether at least one entry of mask is set.
func Any(mask []bool) bool {
	for _, v := range mask {
		if v {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
