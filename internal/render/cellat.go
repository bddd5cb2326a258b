package render

import "wildfire-ca/internal/core"

// CellAt maps a pointer position to the grid cell drawn there, for a grid of
// w columns and h rows stretched over rect. Positions outside rect clamp to
// the nearest edge cell; ok is false only when rect or the grid is empty.
func CellAt(px, py int, rect core.Rect, w, h int) (row, col int, ok bool) {
	if rect.Dx() <= 0 || rect.Dy() <= 0 || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	col = floorDiv((px-rect.MinX)*w, rect.Dx())
	row = floorDiv((py-rect.MinY)*h, rect.Dy())
	return max(0, min(row, h-1)), max(0, min(col, w-1)), true
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// GridRect returns the on-screen rectangle of a w x h grid drawn at the given
// integer scale from the origin.
func GridRect(w, h, scale int) core.Rect {
	if scale <= 0 {
		scale = 1
	}
	return core.Rect{MaxX: w * scale, MaxY: h * scale}
}
