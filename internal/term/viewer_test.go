package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"wildfire-ca/internal/sims/forestfire"
)

func newTestViewer(t *testing.T, w, h int) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	cfg := forestfire.DefaultConfig()
	cfg.Width, cfg.Height = 6, 4
	cfg.InitTreeDensity = 1
	cfg.ConiferRatio = 0
	cfg.Growth = 0
	cfg.LightningEnabled = false
	cfg.Seed = forestfire.SeedValue(5)
	e, err := forestfire.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return NewViewer(s, e, 10), s
}

func TestDrawHalfBlocks(t *testing.T) {
	v, s := newTestViewer(t, 10, 4)
	v.engine.ToggleBarrier(1, 0)
	v.engine.Ignite(2, 1)
	v.Draw()

	ch, _, style, _ := s.GetContent(0, 0)
	fg, bg, _ := style.Decompose()
	if ch != '▀' {
		t.Fatalf("rune = %q", ch)
	}
	if fg != colors[forestfire.Deciduous] || bg != colors[forestfire.Barrier] {
		t.Fatalf("(0,0) colours fg=%v bg=%v", fg, bg)
	}
	_, _, style, _ = s.GetContent(1, 1)
	if fg, _, _ = style.Decompose(); fg != colors[forestfire.Burning] {
		t.Fatalf("burning cell fg=%v", fg)
	}
	if ch, _, _, _ := s.GetContent(7, 0); ch == '▀' {
		t.Fatal("columns past the grid must stay blank")
	}
	if ch, _, _, _ := s.GetContent(0, 3); ch != 's' {
		t.Fatalf("status line starts with %q", ch)
	}
}

func TestCellAt(t *testing.T) {
	v, _ := newTestViewer(t, 10, 4)
	row, col, ok := v.CellAt(2, 1)
	if !ok || row != 2 || col != 2 {
		t.Fatalf("CellAt(2,1) = %d,%d,%v", row, col, ok)
	}
	if _, _, ok := v.CellAt(8, 0); ok {
		t.Fatal("column past the grid should miss")
	}
	if _, _, ok := v.CellAt(0, 3); ok {
		t.Fatal("status line should miss")
	}
}

func TestHandleEvent(t *testing.T) {
	v, _ := newTestViewer(t, 10, 4)

	v.HandleEvent(tcell.NewEventMouse(3, 0, tcell.Button1, tcell.ModNone))
	if v.engine.Grid().At(0, 3) != forestfire.Burning {
		t.Fatal("left click should ignite the upper cell")
	}
	v.HandleEvent(tcell.NewEventMouse(5, 1, tcell.Button2, tcell.ModNone))
	if v.engine.Grid().At(2, 5) != forestfire.Barrier {
		t.Fatal("right click should place a barrier")
	}

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if !v.clock.Paused() {
		t.Fatal("space should pause")
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	if v.engine.StepCount() != 1 {
		t.Fatalf("n should single-step, step=%d", v.engine.StepCount())
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone))
	if cfg := v.engine.Config(); !cfg.WindEnabled || cfg.WindDir != forestfire.WindSE {
		t.Fatalf("wind = %v %s", cfg.WindEnabled, cfg.WindDir)
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if v.engine.StepCount() != 0 {
		t.Fatal("r should reset")
	}
	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("escape should quit")
	}
}
