//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// CellSource is the simulation state the overlay samples every frame.
type CellSource interface {
	Size() core.Size
	Cells() []uint8
}

type windProvider interface {
	WindVector() (x, y float64)
}

// Overlay draws optional visuals on top of the base simulation: an afterglow
// behind the fire front (key 1) and the wind field (key 2).
type Overlay struct {
	src      CellSource
	scale    int
	hot      uint8
	showHeat bool
	showWind bool

	heat    []float32
	heatImg *ebiten.Image
	heatBuf []byte

	pixel          *ebiten.Image
	windSamples    []windSample
	windCacheW     int
	windCacheH     int
	windCacheScale int
	windPixelSpan  float64
}

type windSample struct {
	sx float64
	sy float64
}

// NewOverlay constructs an overlay. hot is the display value of burning
// cells.
func NewOverlay(src CellSource, scale int, hot uint8) *Overlay {
	o := &Overlay{src: src, scale: scale, hot: hot, showWind: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers and advances the afterglow by one frame.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showWind = !o.showWind
	}
	if !o.showHeat {
		return
	}
	cells := o.src.Cells()
	if len(o.heat) != len(cells) {
		o.heat = make([]float32, len(cells))
	}
	render.UpdateHeat(o.heat, cells, o.hot, 0.9)
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.src.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := max(o.scale, 1)

	if o.showHeat && len(o.heat) == size.W*size.H {
		o.drawHeat(screen, size, scale)
	}
	if o.showWind {
		if provider, ok := o.src.(windProvider); ok {
			o.drawWindField(screen, provider, size, scale)
		}
	}
}

func (o *Overlay) drawHeat(screen *ebiten.Image, size core.Size, scale int) {
	total := size.W * size.H
	if o.heatImg == nil || o.heatImg.Bounds().Dx() != size.W || o.heatImg.Bounds().Dy() != size.H {
		o.heatImg = ebiten.NewImage(size.W, size.H)
		o.heatBuf = make([]byte, 4*total)
	}
	render.FillHeatRGBA(o.heatBuf, o.heat, color.RGBA{R: 255, G: 140, B: 40, A: 255})
	o.heatImg.WritePixels(o.heatBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.heatImg, op)
}

// drawWindField draws the same arrow at every sample point since the wind is
// uniform over the grid.
func (o *Overlay) drawWindField(screen *ebiten.Image, provider windProvider, size core.Size, scale int) {
	if !o.ensureWindSamples(size, scale) {
		return
	}
	vx, vy := provider.WindVector()
	speed := math.Hypot(vx, vy)
	if speed < 0.05 {
		return
	}

	const (
		headAngle    = math.Pi / 6
		minThickness = 0.65
		maxThickness = 1.05
	)
	span := o.windPixelSpan
	nx, ny := vx/speed, vy/speed
	normalized := clamp01(speed)
	length := span * (0.35 + 0.35*math.Sqrt(normalized))
	headLength := math.Min(length*0.3, float64(scale)*4.5)
	tailLength := length * 0.4
	thickness := math.Max(1, float64(scale)*(minThickness+(maxThickness-minThickness)*normalized))
	col := interpolateColor(normalized)
	angle := math.Atan2(ny, nx)

	for _, s := range o.windSamples {
		tipX := s.sx + nx*(length-tailLength)
		tipY := s.sy + ny*(length-tailLength)
		tailX := s.sx - nx*tailLength
		tailY := s.sy - ny*tailLength
		o.drawLine(screen, tailX, tailY, tipX-nx*headLength, tipY-ny*headLength, thickness, col)

		leftX := tipX - math.Cos(angle+headAngle)*headLength
		leftY := tipY - math.Sin(angle+headAngle)*headLength
		rightX := tipX - math.Cos(angle-headAngle)*headLength
		rightY := tipY - math.Sin(angle-headAngle)*headLength
		o.drawLine(screen, tipX, tipY, leftX, leftY, thickness*0.85, col)
		o.drawLine(screen, tipX, tipY, rightX, rightY, thickness*0.85, col)
	}
}

func (o *Overlay) ensureWindSamples(size core.Size, scale int) bool {
	if o.windCacheW == size.W && o.windCacheH == size.H && o.windCacheScale == scale && len(o.windSamples) > 0 {
		return true
	}

	const (
		targetSamples = 64.0
		minSpacing    = 8
		maxSpacing    = 40
	)
	spacing := int(math.Sqrt(float64(size.W*size.H) / targetSamples))
	spacing = min(max(spacing, minSpacing), maxSpacing)

	o.windSamples = o.windSamples[:0]
	for y := spacing / 2; y < size.H; y += spacing {
		for x := spacing / 2; x < size.W; x += spacing {
			o.windSamples = append(o.windSamples, windSample{
				sx: (float64(x) + 0.5) * float64(scale),
				sy: (float64(y) + 0.5) * float64(scale),
			})
		}
	}

	o.windCacheW = size.W
	o.windCacheH = size.H
	o.windCacheScale = scale
	o.windPixelSpan = float64(spacing) * float64(scale)
	return len(o.windSamples) > 0
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func interpolateColor(t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: uint8(math.Round(80 + 70*t)),
		G: uint8(math.Round(170 + 70*t)),
		B: uint8(math.Round(230 + 20*t)),
		A: uint8(math.Round(150 + 90*t)),
	}
}

func clamp01(v float64) float64 {
	return core.Clamp(v, 0, 1)
}
