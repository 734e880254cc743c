//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"tileforge/internal/render"
)

// Stats is the frame state the HUD reports.
type Stats struct {
	Renderer render.Stats
	Camera   mgl32.Vec2
	Ticks    int
	Frames   int
}

// HUD renders a diagnostics panel in the top-left corner. F1 toggles it.
type HUD struct {
	visible bool
	title   string
	panel   *ebiten.Image
	lines   []string
}

// NewHUD constructs a visible HUD.
func NewHUD(title string) *HUD {
	return &HUD{visible: true, title: title}
}

// Update handles the visibility toggle and refreshes the panel text.
func (h *HUD) Update(s Stats) {
	if h == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		h.visible = !h.visible
	}
	if !h.visible {
		return
	}
	mode := "filled"
	if s.Renderer.Wireframe {
		mode = "wireframe"
	}
	h.lines = append(h.lines[:0],
		h.title,
		fmt.Sprintf("renderer  %s", s.Renderer.State),
		fmt.Sprintf("layers    %d (%d vertices)", s.Renderer.Layers, s.Renderer.Vertices),
		fmt.Sprintf("mode      %s", mode),
		fmt.Sprintf("viewport  %dx%d", s.Renderer.Width, s.Renderer.Height),
		fmt.Sprintf("camera    %.2f, %.2f", s.Camera.X(), s.Camera.Y()),
		fmt.Sprintf("ticks     %d", s.Ticks),
		fmt.Sprintf("frames    %d", s.Frames),
		fmt.Sprintf("fps       %.1f", ebiten.ActualFPS()),
	)
}

// Draw paints the panel onto screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil || !h.visible || len(h.lines) == 0 {
		return
	}
	height := panelPadding*2 + len(h.lines)*lineHeight
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		if h.panel != nil {
			h.panel.Deallocate()
		}
		h.panel = ebiten.NewImage(panelWidth, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 200})

	face := basicfont.Face7x13
	for i, line := range h.lines {
		fg := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if i == 0 {
			fg = color.RGBA{R: 200, G: 200, B: 210, A: 255}
		}
		text.Draw(h.panel, line, face, panelPadding, panelPadding+i*lineHeight+baseline, fg)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(panelMargin, panelMargin)
	screen.DrawImage(h.panel, op)
}

const (
	panelWidth   = 220
	panelPadding = 8
	panelMargin  = 8
	lineHeight   = 16
	baseline     = 12
)
