//go:build ebiten

package app

import (
	"fmt"
	"log/slog"
	"time"

	"wildfire-ca/internal/render"
	"wildfire-ca/internal/sims/forestfire"
	"wildfire-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts the fire engine to the ebiten.Game interface.
type Game struct {
	engine  *forestfire.Engine
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale    int
	hudWidth int
	playback playback
}

// New constructs a Game around the engine.
func New(e *forestfire.Engine, scale, hudWidth int) *Game {
	size := e.Size()
	g := &Game{
		engine:   e,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(e, scale, uint8(forestfire.Burning)),
		scale:    scale,
		hudWidth: hudWidth,
	}
	if hudWidth > 0 {
		g.hud = ui.NewHUD(e, hudWidth)
	}
	return g
}

// Reseed rebuilds the engine with a fresh seed, keeping every other
// parameter.
func (g *Game) Reseed(seed int64) error {
	cfg := g.engine.Config()
	cfg.Seed = forestfire.SeedValue(seed)
	e, err := forestfire.New(cfg)
	if err != nil {
		return err
	}
	g.engine = e
	g.overlay = ui.NewOverlay(e, g.scale, uint8(forestfire.Burning))
	if g.hud != nil {
		g.hud = ui.NewHUD(e, g.hudWidth)
	}
	slog.Info("reseeded", "seed", seed)
	return nil
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.playback.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.playback.stepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.Reset()
		g.playback.cancelStep()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reseed(time.Now().UnixNano()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.engine.SetBoolParameter("wind_enabled", !g.engine.Config().WindEnabled)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		cfg := g.engine.Config()
		cfg.WindDir = cfg.WindDir.Rotate(1)
		if err := g.engine.SetConfig(cfg); err != nil {
			return err
		}
	}

	g.handlePointer()
	g.overlay.Update()

	if g.playback.advance() {
		g.engine.Step()
	}
	g.hud.SetStatus(g.status()...)
	return nil
}

// handlePointer routes clicks: the HUD panel first, then the grid (left
// ignites, right toggles a barrier).
func (g *Game) handlePointer() {
	size := g.engine.Size()
	gridRect := render.GridRect(size.W, size.H, g.scale)
	if g.hud.Update(gridRect.MaxX) {
		return
	}
	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	mx, my := ebiten.CursorPosition()
	if g.hud != nil && mx >= gridRect.MaxX {
		return
	}
	row, col, ok := render.CellAt(mx, my, gridRect, size.W, size.H)
	if !ok {
		return
	}
	if left {
		g.engine.Ignite(row, col)
	} else {
		g.engine.ToggleBarrier(row, col)
	}
}

func (g *Game) status() []string {
	view := g.engine.Grid()
	census := view.Census()
	cfg := g.engine.Config()
	state := "running"
	if g.playback.paused {
		state = "paused"
	}
	wind := "off"
	if cfg.WindEnabled {
		wind = fmt.Sprintf("%s %.2f", cfg.WindDir, cfg.WindStrength)
	}
	return []string{
		fmt.Sprintf("step %d (%s)", view.Step(), state),
		fmt.Sprintf("trees %d  burning %d", census.Vegetation(), census.Burning),
		fmt.Sprintf("barriers %d  wind %s", census.Barrier, wind),
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.engine.Cells(), g.engine.Palette(), g.scale)
	g.overlay.Draw(screen)
	size := g.engine.Size()
	g.hud.Draw(screen, size.W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.engine.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
