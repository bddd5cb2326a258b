package forestfire

import (
	"errors"
	"slices"
	"testing"

	"wildfire-ca/internal/core"
)

// quietConfig disables every random source so tests can switch on exactly
// the rule they exercise.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Growth = 0
	cfg.Lightning = 0
	cfg.Humidity = 0
	cfg.WindEnabled = false
	cfg.FlammDecid = 1
	cfg.FlammConif = 1
	cfg.Seed = SeedValue(7)
	return cfg
}

var runeCells = map[rune]Cell{
	'.': Empty,
	'd': Deciduous,
	'c': Conifer,
	'*': Burning,
	'#': Barrier,
}

// newEngineWithGrid builds an engine whose grid is replaced by rows, one
// string per row using the runeCells legend.
func newEngineWithGrid(t *testing.T, cfg Config, rows ...string) *Engine {
	t.Helper()
	cfg.Height = len(rows)
	cfg.Width = len(rows[0])
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g := core.NewGrid[Cell](cfg.Width, cfg.Height)
	for r, row := range rows {
		for c, ch := range row {
			cell, ok := runeCells[ch]
			if !ok {
				t.Fatalf("unknown cell rune %q", ch)
			}
			g.Set(c, r, cell)
		}
	}
	e.commit(g)
	return e
}

func renderRows(v GridView) []string {
	legend := map[Cell]rune{}
	for r, c := range runeCells {
		legend[c] = r
	}
	rows := make([]string, v.Height())
	for r := range rows {
		line := make([]rune, v.Width())
		for c := range line {
			line[c] = legend[v.At(r, c)]
		}
		rows[r] = string(line)
	}
	return rows
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = dims[0], dims[1]
		if _, err := New(cfg); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("New(%dx%d) err = %v, want ErrInvalidSize", dims[0], dims[1], err)
		}
	}
}

func TestInitialGridHasNoBarriersOrFire(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 30
	cfg.Seed = SeedValue(3)
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	census := e.Grid().Census()
	if census.Barrier != 0 || census.Burning != 0 {
		t.Fatalf("initial grid has barriers=%d burning=%d", census.Barrier, census.Burning)
	}
	if census.Total() != 40*30 {
		t.Fatalf("census total %d, want %d", census.Total(), 40*30)
	}
	if census.Vegetation() == 0 || census.Empty == 0 {
		t.Fatalf("expected a mix of trees and ground at density 0.6, got %+v", census)
	}
	if e.StepCount() != 0 {
		t.Fatalf("step counter %d after construction", e.StepCount())
	}
}

func TestInitialDensityExtremes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.Seed = SeedValue(1)

	cfg.InitTreeDensity = 2 // clamped to 1
	cfg.ConiferRatio = 1
	e, _ := New(cfg)
	if got := e.Grid().Census().Conifer; got != 100 {
		t.Fatalf("density 1, conifer ratio 1: %d conifers, want 100", got)
	}

	cfg.InitTreeDensity = -1 // clamped to 0
	e, _ = New(cfg)
	if got := e.Grid().Census().Empty; got != 100 {
		t.Fatalf("density 0: %d empty cells, want 100", got)
	}
}

func TestStepDeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 48, 32
	cfg.Seed = SeedValue(1234)
	cfg.Lightning = 0.01
	cfg.WindEnabled = true
	cfg.WindDir = WindSE

	run := func() []GridView {
		e, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		views := []GridView{e.Grid()}
		for i := 0; i < 40; i++ {
			if i == 5 {
				e.Ignite(10, 10)
				e.ToggleBarrier(3, 4)
			}
			if i == 20 {
				e.Reset()
			}
			views = append(views, e.Step())
		}
		return views
	}

	a, b := run(), run()
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("runs diverged at view %d", i)
		}
		if a[i].Step() != b[i].Step() {
			t.Fatalf("step counters diverged at view %d: %d vs %d", i, a[i].Step(), b[i].Step())
		}
	}
}

func TestResetContinuesRandomStream(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 32
	cfg.Seed = SeedValue(99)

	e, _ := New(cfg)
	initial := e.Grid()
	e.Step()
	e.Step()
	e.Reset()
	if e.StepCount() != 0 {
		t.Fatalf("step counter %d after reset", e.StepCount())
	}
	if e.Grid().Equal(initial) {
		t.Fatal("reset should continue the random stream, not replay the seed")
	}

	rebuilt, _ := New(cfg)
	if !rebuilt.Grid().Equal(initial) {
		t.Fatal("reconstruction with the same seed should replay the initial grid")
	}
}

func TestCellsStayInClosedSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 30, 20
	cfg.Seed = SeedValue(5)
	cfg.Lightning = 0.05
	cfg.Growth = 0.2
	e, _ := New(cfg)
	e.ToggleBarrier(0, 0)
	for i := 0; i < 30; i++ {
		v := e.Step()
		for _, c := range v.Cells() {
			if !c.Valid() {
				t.Fatalf("step %d produced invalid cell %v", v.Step(), c)
			}
		}
		if got := v.Census().Total(); got != 600 {
			t.Fatalf("step %d census total %d", v.Step(), got)
		}
	}
}

func TestStepCounterIncrements(t *testing.T) {
	e := newEngineWithGrid(t, quietConfig(), "...", "...")
	for want := 1; want <= 3; want++ {
		if v := e.Step(); v.Step() != want || e.StepCount() != want {
			t.Fatalf("after %d steps view=%d engine=%d", want, v.Step(), e.StepCount())
		}
	}
}

func TestBarrierSurvivesAnyParameters(t *testing.T) {
	cfg := quietConfig()
	cfg.Growth = 1
	cfg.Lightning = 1
	cfg.LightningEnabled = true
	cfg.FlammDecid = 5
	cfg.FlammConif = 5
	e := newEngineWithGrid(t, cfg,
		"d#d.c",
		"#*#..",
		"d#dcc",
	)
	barriers := []int{}
	for i, c := range e.Grid().Cells() {
		if c == Barrier {
			barriers = append(barriers, i)
		}
	}
	for step := 0; step < 25; step++ {
		cells := e.Step().Cells()
		for _, i := range barriers {
			if cells[i] != Barrier {
				t.Fatalf("barrier at %d became %v on step %d", i, cells[i], step+1)
			}
		}
	}
}

func TestBurningLastsOneStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 40
	cfg.Seed = SeedValue(11)
	cfg.Growth = 1
	cfg.Lightning = 0.05
	e, _ := New(cfg)
	prev := e.Grid()
	for step := 0; step < 30; step++ {
		next := e.Step()
		for r := 0; r < prev.Height(); r++ {
			for c := 0; c < prev.Width(); c++ {
				if prev.At(r, c) == Burning && next.At(r, c) != Empty {
					t.Fatalf("burning cell (%d,%d) became %v instead of empty", r, c, next.At(r, c))
				}
			}
		}
		prev = next
	}
}

func TestIgniteOnlyAffectsVegetation(t *testing.T) {
	e := newEngineWithGrid(t, quietConfig(), ".#*dc")
	before := e.Grid()

	for col := 0; col < 3; col++ {
		e.Ignite(0, col)
	}
	e.Ignite(-1, 0)
	e.Ignite(0, 99)
	if !e.Grid().Equal(before) {
		t.Fatalf("ignite changed a non-vegetation target: %v", renderRows(e.Grid()))
	}

	e.Ignite(0, 3)
	e.Ignite(0, 4)
	if got := renderRows(e.Grid())[0]; got != ".#***" {
		t.Fatalf("after igniting trees got %q, want %q", got, ".#***")
	}
	if e.StepCount() != 0 {
		t.Fatal("ignite must not advance the step counter")
	}
}

func TestToggleBarrier(t *testing.T) {
	e := newEngineWithGrid(t, quietConfig(), ".dc*#")
	for col := 0; col < 5; col++ {
		e.ToggleBarrier(0, col)
	}
	e.ToggleBarrier(5, 5)
	if got := renderRows(e.Grid())[0]; got != "###*." {
		t.Fatalf("toggle got %q, want %q", got, "###*.")
	}
	e.ToggleBarrier(0, 0)
	if got := renderRows(e.Grid())[0]; got != ".##*." {
		t.Fatalf("second toggle got %q, want %q", got, ".##*.")
	}
}

func TestViewIsSnapshot(t *testing.T) {
	e := newEngineWithGrid(t, quietConfig(), "dd", "dd")
	view := e.Grid()
	e.Ignite(0, 0)
	e.ToggleBarrier(1, 1)
	if got := renderRows(view); !slices.Equal(got, []string{"dd", "dd"}) {
		t.Fatalf("view mutated by edits: %v", got)
	}
	if got := renderRows(e.Grid()); !slices.Equal(got, []string{"*d", "d#"}) {
		t.Fatalf("edits not visible on the engine: %v", got)
	}
}

func TestSpreadDoesNotWrap(t *testing.T) {
	e := newEngineWithGrid(t, quietConfig(),
		"*dddd",
		"ddddd",
		"ddddd",
		"ddddd",
		"ddddd",
	)
	got := renderRows(e.Step())
	want := []string{
		".*ddd",
		"**ddd",
		"ddddd",
		"ddddd",
		"ddddd",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("corner fire spread:\n got %v\nwant %v", got, want)
	}
}

func TestCenterIgnitionBurnsAllNeighbors(t *testing.T) {
	cfg := quietConfig()
	e := newEngineWithGrid(t, cfg, "ddd", "ddd", "ddd")
	e.Ignite(1, 1)
	got := renderRows(e.Step())
	want := []string{"***", "*.*", "***"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got = renderRows(e.Step())
	want = []string{"...", "...", "..."}
	if !slices.Equal(got, want) {
		t.Fatalf("second step got %v, want %v", got, want)
	}
}

func TestVonNeumannSkipsDiagonals(t *testing.T) {
	cfg := quietConfig()
	cfg.Neighborhood = VonNeumann
	e := newEngineWithGrid(t, cfg, "ddd", "d*d", "ddd")
	got := renderRows(e.Step())
	want := []string{"d*d", "*.*", "d*d"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFullStrengthWindBlocksUpwindSpread(t *testing.T) {
	cfg := quietConfig()
	cfg.WindEnabled = true
	cfg.WindDir = WindE
	cfg.WindStrength = 1
	e := newEngineWithGrid(t, cfg, "d*d")
	for i := 0; i < 10; i++ {
		e.grid.Set(0, 0, Deciduous)
		e.grid.Set(1, 0, Burning)
		e.grid.Set(2, 0, Deciduous)
		if got := renderRows(e.Step())[0]; got != "d.*" {
			t.Fatalf("east wind at full strength: got %q, want %q", got, "d.*")
		}
	}
}

func TestHumidityAndFlammabilitySuppressSpread(t *testing.T) {
	wet := quietConfig()
	wet.Humidity = 1
	e := newEngineWithGrid(t, wet, "d*d")
	if got := renderRows(e.Step())[0]; got != "d.d" {
		t.Fatalf("saturated air: got %q, want %q", got, "d.d")
	}

	inert := quietConfig()
	inert.FlammDecid = 0
	e = newEngineWithGrid(t, inert, "d*c")
	if got := renderRows(e.Step())[0]; got != "d.*" {
		t.Fatalf("non-flammable deciduous: got %q, want %q", got, "d.*")
	}
}

func TestLightningIgnitesOnlyTrees(t *testing.T) {
	cfg := quietConfig()
	cfg.Lightning = 1
	cfg.LightningEnabled = true
	e := newEngineWithGrid(t, cfg, "dc.#")
	if got := renderRows(e.Step())[0]; got != "**.#" {
		t.Fatalf("lightning: got %q, want %q", got, "**.#")
	}

	cfg.LightningEnabled = false
	e = newEngineWithGrid(t, cfg, "dc.#")
	if got := renderRows(e.Step())[0]; got != "dc.#" {
		t.Fatalf("disabled lightning: got %q, want %q", got, "dc.#")
	}
}

func TestGrowthConfinedToEmpty(t *testing.T) {
	cfg := quietConfig()
	cfg.Growth = 1
	e := newEngineWithGrid(t, cfg, "d#c", "#d#")
	before := e.Grid()
	for i := 0; i < 5; i++ {
		e.Step()
	}
	if !e.Grid().Equal(before) {
		t.Fatalf("grid without empty cells changed: %v", renderRows(e.Grid()))
	}
}

func TestGrowthFillsEmptyWhenCertain(t *testing.T) {
	cfg := quietConfig()
	cfg.Growth = 1
	cfg.Humidity = 0.5 // p*(0.5+h) = 1
	cfg.ConiferRatio = 1
	e := newEngineWithGrid(t, cfg, "...", ".#.")
	got := renderRows(e.Step())
	want := []string{"ccc", "c#c"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSetConfigRejectsResize(t *testing.T) {
	e := newEngineWithGrid(t, quietConfig(), "..", "..")
	cfg := e.Config()
	cfg.Width = 5
	if err := e.SetConfig(cfg); !errors.Is(err, ErrResizeRequiresNew) {
		t.Fatalf("SetConfig resize err = %v", err)
	}

	cfg = e.Config()
	cfg.Humidity = 0.4
	cfg.Seed = SeedValue(555)
	if err := e.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if e.Config().Humidity != 0.4 {
		t.Fatal("humidity not applied")
	}
	if *e.Config().Seed != 7 {
		t.Fatal("seed must not change after construction")
	}
}

func TestDisplayBufferTracksGrid(t *testing.T) {
	e := newEngineWithGrid(t, quietConfig(), "d.#")
	if got := e.Cells(); !slices.Equal(got, []uint8{uint8(Deciduous), uint8(Empty), uint8(Barrier)}) {
		t.Fatalf("display = %v", got)
	}
	e.Ignite(0, 0)
	if got := e.Cells()[0]; got != uint8(Burning) {
		t.Fatalf("display after ignite = %d", got)
	}
	if c := Color(Burning); c != Palette[Burning] {
		t.Fatalf("Color(Burning) = %v", c)
	}
	if c := Color(Cell(200)); c != Palette[Empty] {
		t.Fatalf("invalid cell colour = %v", c)
	}
}
