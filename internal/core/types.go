package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Area returns the number of cells covered by the size.
func (s Size) Area() int { return s.W * s.H }

// Rect is a pixel rectangle on screen, Min inclusive and Max exclusive.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Dx returns the width of the rectangle.
func (r Rect) Dx() int { return r.MaxX - r.MinX }

// Dy returns the height of the rectangle.
func (r Rect) Dy() int { return r.MaxY - r.MinY }

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
