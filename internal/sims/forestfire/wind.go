package forestfire

import (
	"math"

	"wildfire-ca/internal/core"
)

// windVectors maps each compass point to its (row, col) heading.
var windVectors = map[WindDir]core.Offset{
	WindN:  {DRow: -1, DCol: 0},
	WindNE: {DRow: -1, DCol: 1},
	WindE:  {DRow: 0, DCol: 1},
	WindSE: {DRow: 1, DCol: 1},
	WindS:  {DRow: 1, DCol: 0},
	WindSW: {DRow: 1, DCol: -1},
	WindW:  {DRow: 0, DCol: -1},
	WindNW: {DRow: -1, DCol: -1},
}

// Vector returns the (row, col) heading of the compass point. Unknown values
// point east.
func (d WindDir) Vector() core.Offset {
	if v, ok := windVectors[d]; ok {
		return v
	}
	return windVectors[WindE]
}

// Rotate returns the compass point steps*45 degrees clockwise from d.
func (d WindDir) Rotate(steps int) WindDir {
	idx := 2
	for i, w := range WindDirs {
		if w == d {
			idx = i
			break
		}
	}
	n := len(WindDirs)
	return WindDirs[((idx+steps)%n+n)%n]
}

// windSpread is the probability that fire crosses from a burning cell to the
// neighbour displaced by off. Downwind spread is certain, direct upwind spread
// has probability 1-strength, and everything between interpolates on the
// cosine of the angle to the wind.
func windSpread(c Config, off core.Offset) float64 {
	strength := core.Clamp(c.WindStrength, 0, 1)
	if !c.WindEnabled || strength <= 0 {
		return 1
	}
	if off.DRow == 0 && off.DCol == 0 {
		return 1
	}
	w := c.WindDir.Vector()

	dNorm := math.Hypot(float64(off.DRow), float64(off.DCol))
	wNorm := math.Hypot(float64(w.DRow), float64(w.DCol))
	dot := float64(off.DRow*w.DRow+off.DCol*w.DCol) / (dNorm * wNorm)
	dot = core.Clamp(dot, -1, 1)

	return core.Clamp(1-strength*(1-dot)/2, 0, 1)
}

// WindVector returns the wind as an (x, y) screen vector scaled by strength,
// x growing rightwards and y downwards. It is zero while wind is disabled.
func (e *Engine) WindVector() (x, y float64) {
	strength := core.Clamp(e.cfg.WindStrength, 0, 1)
	if !e.cfg.WindEnabled || strength <= 0 {
		return 0, 0
	}
	v := e.cfg.WindDir.Vector()
	n := math.Hypot(float64(v.DRow), float64(v.DCol))
	return strength * float64(v.DCol) / n, strength * float64(v.DRow) / n
}
