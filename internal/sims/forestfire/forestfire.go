// Package forestfire implements a probabilistic forest-fire cellular
// automaton with wind, humidity and two kinds of vegetation.
//
// An Engine is not safe for concurrent use. Callers that share one between
// goroutines serialise every call, including Grid.
package forestfire

import (
	"fmt"

	"wildfire-ca/internal/core"
	prng "wildfire-ca/pkg/core"
)

// Engine owns the grid, the random source and the step counter.
type Engine struct {
	cfg Config

	grid *core.Grid[Cell]
	// shared is set once a view of grid has escaped; edits then copy first.
	shared bool
	step   int

	// Scratch masks reused across steps.
	burning []bool
	shifted []bool
	ignite  []bool
	sprout  []Cell

	display      []uint8
	displayStale bool

	rng *prng.RNG
}

// New validates the configuration, seeds the random source and populates the
// initial vegetation.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("forestfire: %w", err)
	}
	total := cfg.Width * cfg.Height
	e := &Engine{
		cfg:     cfg,
		burning: make([]bool, total),
		shifted: make([]bool, total),
		ignite:  make([]bool, total),
		sprout:  make([]Cell, total),
		display: make([]uint8, total),
		rng:     prng.NewRNGFrom(cfg.Seed),
	}
	e.Reset()
	return e, nil
}

// Name returns the simulation identifier.
func (e *Engine) Name() string { return "forestfire" }

// Size reports the grid dimensions.
func (e *Engine) Size() core.Size { return core.Size{W: e.cfg.Width, H: e.cfg.Height} }

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// StepCount returns the number of completed steps since the last reset.
func (e *Engine) StepCount() int { return e.step }

// SetConfig swaps in new parameters; they apply from the next step. The
// dimensions cannot change (construct a new Engine instead) and the seed is
// only read at construction, so a changed Seed is ignored.
func (e *Engine) SetConfig(cfg Config) error {
	if cfg.Width != e.cfg.Width || cfg.Height != e.cfg.Height {
		return fmt.Errorf("forestfire: %w: %dx%d -> %dx%d",
			ErrResizeRequiresNew, e.cfg.Width, e.cfg.Height, cfg.Width, cfg.Height)
	}
	cfg.Seed = e.cfg.Seed
	e.cfg = cfg
	return nil
}

// Reset regenerates the grid from the configuration, continuing the current
// random stream rather than reseeding, and zeroes the step counter.
func (e *Engine) Reset() {
	r := e.cfg.rates()
	g := core.NewGrid[Cell](e.cfg.Width, e.cfg.Height)
	cells := g.Cells()
	for i := range cells {
		if !e.rng.Chance(r.density) {
			continue
		}
		if e.rng.Chance(r.conifer) {
			cells[i] = Conifer
		} else {
			cells[i] = Deciduous
		}
	}
	e.commit(g)
	e.step = 0
}

// Grid returns a read-only view of the current grid.
func (e *Engine) Grid() GridView {
	e.shared = true
	return GridView{grid: e.grid, step: e.step}
}

// Ignite sets a vegetation cell on fire immediately. Out-of-bounds
// coordinates and non-vegetation cells are ignored.
func (e *Engine) Ignite(row, col int) {
	if !e.grid.InBounds(col, row) {
		return
	}
	if !e.grid.At(col, row).IsVegetation() {
		return
	}
	e.edit().Set(col, row, Burning)
}

// ToggleBarrier places a barrier, or removes one that is already there.
// Placing a barrier destroys whatever vegetation was in the cell. Burning
// cells and out-of-bounds coordinates are ignored.
func (e *Engine) ToggleBarrier(row, col int) {
	if !e.grid.InBounds(col, row) {
		return
	}
	switch e.grid.At(col, row) {
	case Burning:
		return
	case Barrier:
		e.edit().Set(col, row, Empty)
	case Empty, Deciduous, Conifer:
		e.edit().Set(col, row, Barrier)
	}
}

// Step advances the automaton by one tick and returns a view of the result.
//
// Every decision is read from the current grid and written to a fresh one:
// neighbour spread and lightning build the ignite mask, growth builds the
// sprout mask, and the two are composited last. Random draws happen in a
// fixed order (offsets, then lightning, then growth, then sprout kind, each
// in row-major order) so a seeded run replays exactly.
func (e *Engine) Step() GridView {
	r := e.cfg.rates()
	cur := e.grid.Cells()

	for i, c := range cur {
		e.burning[i] = c == Burning
		e.ignite[i] = false
		e.sprout[i] = Empty
	}

	e.spreadFromNeighbors(r, cur)
	e.strikeLightning(r, cur)
	e.growVegetation(r, cur)

	next := core.NewGrid[Cell](e.cfg.Width, e.cfg.Height)
	out := next.Cells()
	for i, c := range cur {
		out[i] = nextState(c, e.ignite[i], e.sprout[i])
	}

	e.commit(next)
	e.step++
	return e.Grid()
}

// spreadFromNeighbors evaluates each neighbour offset on its own: a tree with
// a burning neighbour at that offset gets one independent draw against the
// offset's probability. A tree with several burning neighbours therefore gets
// several chances in one step.
func (e *Engine) spreadFromNeighbors(r rates, cur []Cell) {
	if !core.Any(e.burning) {
		return
	}
	w, h := e.cfg.Width, e.cfg.Height
	for k, off := range r.offsets {
		core.ShiftNoWrap(e.shifted, e.burning, w, h, off)
		base := r.windProb[k] * r.dryness
		for i, src := range e.shifted {
			if !src {
				continue
			}
			flamm, ok := r.flammability(cur[i])
			if !ok {
				continue
			}
			if e.rng.Chance(core.Clamp(base*flamm, 0, 1)) {
				e.ignite[i] = true
			}
		}
	}
}

func (e *Engine) strikeLightning(r rates, cur []Cell) {
	if r.lightning <= 0 {
		return
	}
	for i, c := range cur {
		flamm, ok := r.flammability(c)
		if !ok {
			continue
		}
		if e.rng.Chance(core.Clamp(r.lightning*flamm, 0, 1)) {
			e.ignite[i] = true
		}
	}
}

// growVegetation marks empty cells that sprout this step, then draws the
// kind of each sprout in a second pass.
func (e *Engine) growVegetation(r rates, cur []Cell) {
	if r.growth <= 0 {
		return
	}
	grew := false
	for i, c := range cur {
		if c == Empty && e.rng.Chance(r.growth) {
			e.sprout[i] = Deciduous
			grew = true
		}
	}
	if !grew {
		return
	}
	for i, s := range e.sprout {
		if s == Empty {
			continue
		}
		if e.rng.Chance(r.conifer) {
			e.sprout[i] = Conifer
		}
	}
}

// nextState composites the per-cell decisions. Barriers are immune to every
// rule, only trees ignite, only empty ground sprouts, and a burning cell
// always burns out to Empty.
func nextState(cur Cell, ignite bool, sprout Cell) Cell {
	switch cur {
	case Barrier:
		return Barrier
	case Deciduous, Conifer:
		if ignite {
			return Burning
		}
		return cur
	case Empty:
		return sprout
	case Burning:
		return Empty
	default:
		return Empty
	}
}

// edit returns the grid for in-place modification, copying it first if a
// view of it is outstanding.
func (e *Engine) edit() *core.Grid[Cell] {
	if e.shared {
		e.grid = e.grid.Clone()
		e.shared = false
	}
	e.displayStale = true
	return e.grid
}

func (e *Engine) commit(g *core.Grid[Cell]) {
	e.grid = g
	e.shared = false
	e.displayStale = true
}
