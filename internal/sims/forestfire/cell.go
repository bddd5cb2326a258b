package forestfire

import "fmt"

// Cell is the state of a single grid cell. The zero value is Empty.
type Cell uint8

const (
	Empty Cell = iota
	Deciduous
	Conifer
	Burning
	Barrier

	numCells
)

// States lists every cell state in display order.
var States = []Cell{Empty, Deciduous, Conifer, Burning, Barrier}

// IsVegetation reports whether the cell holds a living tree of either kind.
func (c Cell) IsVegetation() bool {
	return c == Deciduous || c == Conifer
}

// Valid reports whether c is one of the defined states.
func (c Cell) Valid() bool { return c < numCells }

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Deciduous:
		return "deciduous"
	case Conifer:
		return "conifer"
	case Burning:
		return "burning"
	case Barrier:
		return "barrier"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}
