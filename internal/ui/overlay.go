//go:build ebiten

package ui

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tileforge/internal/core"
)

// Overlay draws optional debugging visuals in world space on top of the
// rendered layers. Key 1 toggles layer bounds, key 2 the world origin.
type Overlay struct {
	unit       float32
	showBounds bool
	showOrigin bool
}

// NewOverlay constructs an overlay for a renderer drawing unit pixels per
// grid cell.
func NewOverlay(unit float32) *Overlay {
	return &Overlay{unit: unit}
}

// Update allows the overlay to update internal state.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showBounds = !o.showBounds
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showOrigin = !o.showOrigin
	}
}

var boundsPalette = []color.RGBA{
	{R: 255, G: 120, B: 40, A: 255},
	{R: 64, G: 164, B: 223, A: 255},
	{R: 140, G: 220, B: 90, A: 255},
	{R: 220, G: 90, B: 200, A: 255},
}

// Draw outlines each layer's extent and marks the origin, transformed by view.
func (o *Overlay) Draw(screen *ebiten.Image, view mgl32.Mat4, layers []core.GridDimensions2d) {
	if o == nil {
		return
	}
	if o.showBounds {
		for i, dims := range layers {
			x0, y0 := o.project(view, 0, 0)
			x1, y1 := o.project(view, float32(dims.NColumns), float32(dims.NRows))
			col := boundsPalette[i%len(boundsPalette)]
			vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, col, false)
		}
	}
	if o.showOrigin {
		x, y := o.project(view, 0, 0)
		col := color.RGBA{R: 255, G: 255, B: 255, A: 220}
		vector.StrokeLine(screen, x-o.unit/2, y, x+o.unit/2, y, 1, col, false)
		vector.StrokeLine(screen, x, y-o.unit/2, x, y+o.unit/2, 1, col, false)
	}
}

func (o *Overlay) project(view mgl32.Mat4, x, y float32) (float32, float32) {
	p := view.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return p.X() * o.unit, p.Y() * o.unit
}
