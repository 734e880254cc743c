//go:build ebiten

package app

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"tileforge/internal/core"
	"tileforge/internal/render"
	"tileforge/internal/ui"
)

var keyBindings = map[ebiten.Key]Key{
	ebiten.KeyX:          KeyX,
	ebiten.KeyEscape:     KeyEscape,
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,
}

// Game adapts an App to the ebiten.Game interface and serves as its Window.
type Game struct {
	app     *App
	dev     *render.EbitenDevice
	hud     *ui.HUD
	overlay *ui.Overlay

	width, height int
	resized       bool
	err           error
}

// PollEvents implements Window by translating ebiten input state.
func (g *Game) PollEvents(q *EventQueue) error {
	if g.resized {
		q.Push(ResizeEvent(g.width, g.height))
		g.resized = false
	}
	for ek, k := range keyBindings {
		if inpututil.IsKeyJustPressed(ek) {
			q.Push(KeyEvent(k, ActionPress))
		}
		if inpututil.IsKeyJustReleased(ek) {
			q.Push(KeyEvent(k, ActionRelease))
		}
	}
	if ebiten.IsWindowBeingClosed() {
		q.Push(CloseEvent())
	}
	return nil
}

// Update polls input and advances the simulation by the ticks due.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if err := g.app.Poll(); err != nil {
		return err
	}
	if g.app.CloseRequested() {
		return ebiten.Termination
	}
	g.app.Simulate(time.Now())
	g.overlay.Update()
	g.hud.Update(ui.Stats{
		Renderer: g.app.Renderer().Stats(),
		Camera:   g.app.Camera().Offset(),
		Ticks:    g.app.Ticks(),
		Frames:   g.app.Frames(),
	})
	return nil
}

// Draw renders the layers into screen. A render failure is reported by the
// next Update, which ends the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.dev.SetTarget(screen)
	if err := g.app.Render(); err != nil {
		g.err = err
		return
	}
	layers := make([]core.GridDimensions2d, 0, len(g.app.Scene().Layers))
	for _, l := range g.app.Scene().Layers {
		layers = append(layers, l.Tiles.Dimensions())
	}
	g.overlay.Draw(screen, g.app.Camera().ViewMatrix(), layers)
	g.hud.Draw(screen)
}

// Layout reports the window size as the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.resized = true
	}
	return outsideWidth, outsideHeight
}

// RunWindowed opens a window and runs the app until it is closed.
func RunWindowed(cfg *Config, logger *slog.Logger) (err error) {
	g := &Game{
		dev:     render.NewEbitenDevice(float32(cfg.Zoom)),
		hud:     ui.NewHUD("tileforge"),
		overlay: ui.NewOverlay(float32(cfg.Zoom)),
		width:   cfg.Width,
		height:  cfg.Height,
	}
	g.app, err = New(cfg, g.dev, g, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := g.app.Close(); err == nil {
			err = cerr
		}
	}()

	ebiten.SetWindowTitle("tileforge")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
