package forestfire

import "image/color"

// Palette maps each Cell value (used as an index) to its display colour.
var Palette = []color.RGBA{
	Empty:     {R: 15, G: 15, B: 15, A: 255},
	Deciduous: {R: 46, G: 160, B: 67, A: 255},
	Conifer:   {R: 20, G: 110, B: 55, A: 255},
	Burning:   {R: 255, G: 69, B: 0, A: 255},
	Barrier:   {R: 120, G: 120, B: 130, A: 255},
}

// Color returns the display colour for a cell. Invalid values render as
// empty ground.
func Color(c Cell) color.RGBA {
	if !c.Valid() {
		return Palette[Empty]
	}
	return Palette[c]
}

// Palette exposes the colour palette used for rendering.
func (e *Engine) Palette() []color.RGBA { return Palette }

// Cells exposes the display buffer: one byte per cell holding the Cell value,
// suitable as an index into Palette. The buffer is owned by the engine and is
// rewritten after every step or edit.
func (e *Engine) Cells() []uint8 {
	if e.displayStale {
		e.rebuildDisplay()
	}
	return e.display
}

func (e *Engine) rebuildDisplay() {
	for i, c := range e.grid.Cells() {
		e.display[i] = uint8(c)
	}
	e.displayStale = false
}
