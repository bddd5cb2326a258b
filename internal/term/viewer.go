// Package term renders the fire model in a terminal with tcell. Each terminal
// cell shows two grid rows using an upper half block, the upper row as the
// foreground colour and the lower row as the background.
package term

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/sims/forestfire"
)

const frameInterval = 33 * time.Millisecond

var colors = func() []tcell.Color {
	out := make([]tcell.Color, len(forestfire.Palette))
	for i, c := range forestfire.Palette {
		out[i] = rgb(c)
	}
	return out
}()

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func cellColor(c forestfire.Cell) tcell.Color {
	if !c.Valid() {
		return colors[forestfire.Empty]
	}
	return colors[c]
}

// Viewer drives an engine from a terminal screen.
type Viewer struct {
	screen tcell.Screen
	engine *forestfire.Engine
	clock  *core.FixedStep

	// Grid coordinates of the top-left visible cell.
	originRow, originCol int
}

// NewViewer prepares a viewer for an initialised screen.
func NewViewer(screen tcell.Screen, e *forestfire.Engine, tps int) *Viewer {
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	return &Viewer{screen: screen, engine: e, clock: core.NewFixedStep(tps)}
}

// Run polls input and advances the simulation until the user quits or ctx
// is done.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if v.HandleEvent(ev) {
				return nil
			}
			v.Draw()
		case <-ticker.C:
			if v.clock.ShouldStep() {
				v.engine.Step()
			}
			v.Draw()
		}
	}
}

// HandleEvent applies one input event and reports whether the viewer should
// quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.scroll(-2, 0)
	case tcell.KeyDown:
		v.scroll(2, 0)
	case tcell.KeyLeft:
		v.scroll(0, -1)
	case tcell.KeyRight:
		v.scroll(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			if v.clock.Paused() {
				v.clock.Resume()
			} else {
				v.clock.Pause()
			}
		case 'n':
			v.engine.Step()
		case 'r':
			v.engine.Reset()
		case 'w':
			cfg := v.engine.Config()
			cfg.WindEnabled = !cfg.WindEnabled
			_ = v.engine.SetConfig(cfg)
		case 'd':
			cfg := v.engine.Config()
			cfg.WindDir = cfg.WindDir.Rotate(1)
			_ = v.engine.SetConfig(cfg)
		}
	}
	return false
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	row, col, ok := v.CellAt(x, y)
	if !ok {
		return
	}
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		// A click covers two grid rows; light whichever holds a tree.
		if !v.engine.Grid().At(row, col).IsVegetation() {
			row++
		}
		v.engine.Ignite(row, col)
	case ev.Buttons()&tcell.Button2 != 0, ev.Buttons()&tcell.Button3 != 0:
		v.engine.ToggleBarrier(row, col)
	}
}

// CellAt maps a screen position to the upper grid cell it shows.
func (v *Viewer) CellAt(x, y int) (row, col int, ok bool) {
	_, h := v.screen.Size()
	if y >= h-1 {
		return 0, 0, false
	}
	row, col = v.originRow+2*y, v.originCol+x
	return row, col, v.engine.Grid().InBounds(row, col)
}

func (v *Viewer) scroll(dRow, dCol int) {
	size := v.engine.Size()
	w, h := v.screen.Size()
	v.originRow = min(max(v.originRow+dRow, 0), max(0, size.H-2*(h-1)))
	v.originCol = min(max(v.originCol+dCol, 0), max(0, size.W-w))
}

// Draw renders the visible part of the grid and the status line.
func (v *Viewer) Draw() {
	view := v.engine.Grid()
	w, h := v.screen.Size()
	v.screen.Clear()
	for y := 0; y < h-1; y++ {
		top := v.originRow + 2*y
		if top >= view.Height() {
			break
		}
		for x := 0; x < w; x++ {
			col := v.originCol + x
			if col >= view.Width() {
				break
			}
			upper := cellColor(view.At(top, col))
			lower := colors[forestfire.Empty]
			if top+1 < view.Height() {
				lower = cellColor(view.At(top+1, col))
			}
			v.screen.SetContent(x, y, '▀', nil, tcell.StyleDefault.Foreground(upper).Background(lower))
		}
	}
	v.drawStatus(view, w, h)
	v.screen.Show()
}

func (v *Viewer) drawStatus(view forestfire.GridView, w, h int) {
	cfg := v.engine.Config()
	census := view.Census()
	wind := "off"
	if cfg.WindEnabled {
		wind = fmt.Sprintf("%s %.2f", cfg.WindDir, cfg.WindStrength)
	}
	state := ""
	if v.clock.Paused() {
		state = " [paused]"
	}
	line := fmt.Sprintf("step %d%s  trees %d  burning %d  wind %s  humidity %.2f  (space n r w d q)",
		view.Step(), state, census.Vegetation(), census.Burning, wind, cfg.Humidity)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		v.screen.SetContent(x, h-1, r, nil, style)
		x++
	}
}
