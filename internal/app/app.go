package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"tileforge/internal/core"
	"tileforge/internal/render"
	"tileforge/internal/scene"
	"tileforge/internal/vfs"
)

// App owns the asset file system, the renderer and the camera, and drives
// them on a fixed simulation timestep.
type App struct {
	cfg      *Config
	log      *slog.Logger
	fs       *vfs.FS
	scene    *scene.Scene
	renderer *render.Renderer
	camera   *render.Camera
	timer    *core.FixedStep
	window   Window
	events   EventQueue
	clock    func() time.Time

	// axis is the camera direction driven by the arrow keys, each component
	// in -1..1 while keys are held.
	axis mgl32.Vec2

	closeRequested bool
	ticks          int
	frames         int
}

// New loads the configured scene, uploads every layer through dev and returns
// an app ready to run. A nil logger discards output.
func New(cfg *Config, dev render.Device, win Window, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root, err := cfg.ResourceRoot()
	if err != nil {
		return nil, err
	}
	fs, err := vfs.New(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open resources: %w", err)
	}

	renderer, err := render.NewRenderer(dev, fs, render.Options{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to set up renderer: %w", err)
	}
	a := &App{
		cfg:      cfg,
		log:      logger,
		fs:       fs,
		renderer: renderer,
		camera:   render.NewCamera(),
		timer:    core.NewFixedStep(cfg.TPS),
		window:   win,
		clock:    time.Now,
	}
	if err := a.loadScene(cfg.Scene); err != nil {
		renderer.Close()
		return nil, err
	}
	renderer.Resize(cfg.Width, cfg.Height)
	logger.Info("app ready", "resources", root, "scene", cfg.Scene, "layers", len(a.scene.Layers), "step", a.timer.Step())
	return a, nil
}

func (a *App) loadScene(path string) error {
	sc, err := scene.Load(a.fs, path)
	if err != nil {
		return err
	}
	for _, l := range sc.Layers {
		if err := a.renderer.SetLayer(render.LayerIndex(l.Index), l.Tiles); err != nil {
			return fmt.Errorf("failed to set up tile layer %d: %w", l.Index, err)
		}
		a.log.Debug("layer ready", "index", l.Index, "dimensions", l.Tiles.Dimensions().String())
	}
	a.scene = sc
	return nil
}

// Renderer returns the app's renderer.
func (a *App) Renderer() *render.Renderer { return a.renderer }

// Camera returns the app's camera.
func (a *App) Camera() *render.Camera { return a.camera }

// Scene returns the loaded scene.
func (a *App) Scene() *scene.Scene { return a.scene }

// Ticks returns the number of simulation ticks run so far.
func (a *App) Ticks() int { return a.ticks }

// Frames returns the number of frames rendered so far.
func (a *App) Frames() int { return a.frames }

// Axis returns the current camera direction.
func (a *App) Axis() mgl32.Vec2 { return a.axis }

// CloseRequested reports whether the loop should stop.
func (a *App) CloseRequested() bool { return a.closeRequested }

// Events exposes the queue windows push into.
func (a *App) Events() *EventQueue { return &a.events }

// Dispatch applies a single window event.
func (a *App) Dispatch(e Event) {
	switch e.Kind {
	case EventResize:
		a.renderer.Resize(e.Width, e.Height)
	case EventClose:
		a.closeRequested = true
	case EventKey:
		a.handleKey(e.Key, e.Action)
	}
}

// handleKey maps key transitions onto the camera axis. Pressing a direction
// and releasing its opposite move the axis the same way, so holding both
// keys cancels out.
func (a *App) handleKey(key Key, action Action) {
	press, release := action == ActionPress, action == ActionRelease
	switch {
	case key == KeyX && press:
		a.renderer.ToggleWireframeMode()
		a.log.Debug("wireframe toggled", "enabled", a.renderer.Wireframe())
	case key == KeyEscape && press:
		a.closeRequested = true
	case key == KeyUp && press, key == KeyDown && release:
		a.axis[1]++
	case key == KeyRight && press, key == KeyLeft && release:
		a.axis[0]++
	case key == KeyDown && press, key == KeyUp && release:
		a.axis[1]--
	case key == KeyLeft && press, key == KeyRight && release:
		a.axis[0]--
	}
}

// HandleEvents drains the queue and dispatches every event in order.
func (a *App) HandleEvents() {
	for _, e := range a.events.Drain() {
		a.Dispatch(e)
	}
}

// Poll asks the window for new events and dispatches them.
func (a *App) Poll() error {
	if err := a.window.PollEvents(&a.events); err != nil {
		return fmt.Errorf("failed to poll window events: %w", err)
	}
	a.HandleEvents()
	return nil
}

// stepSimulation advances the world by dt.
func (a *App) stepSimulation(dt time.Duration) {
	speed := float32(dt.Seconds() * -a.cfg.ScrollSpeed)
	a.camera.TranslateBy(a.axis.Mul(speed))
	a.ticks++
}

// Simulate runs every tick that has come due by now and returns how many ran.
func (a *App) Simulate(now time.Time) int {
	n := a.timer.Mark(now)
	for i := 0; i < n; i++ {
		a.stepSimulation(a.timer.Step())
	}
	return n
}

// Render uploads the camera and draws one frame.
func (a *App) Render() error {
	if err := a.renderer.UpdateCamera(a.camera); err != nil {
		return err
	}
	if err := a.renderer.DrawFrame(); err != nil {
		return err
	}
	a.frames++
	return nil
}

// StepFrame runs exactly one tick and one frame, then polls the window.
func (a *App) StepFrame() error {
	a.stepSimulation(a.timer.Step())
	if err := a.Render(); err != nil {
		return err
	}
	return a.Poll()
}

// Run drives the loop until a close is requested. Each iteration runs the
// ticks due since the previous one, renders once and polls the window. A
// render failure ends the loop.
func (a *App) Run() error {
	a.timer.Mark(a.clock())
	for !a.closeRequested {
		a.Simulate(a.clock())
		if err := a.Render(); err != nil {
			return fmt.Errorf("failed to render frame %d: %w", a.frames, err)
		}
		if err := a.Poll(); err != nil {
			return err
		}
	}
	a.log.Info("close requested", "frames", a.frames, "ticks", a.ticks)
	return nil
}

// Close releases the renderer's resources.
func (a *App) Close() error {
	return a.renderer.Close()
}

// RunHeadless runs the frame loop against a HeadlessDevice until cfg.Frames
// frames have been drawn.
func RunHeadless(cfg *Config, logger *slog.Logger) (err error) {
	dev := render.NewHeadlessDevice()
	win := NewHeadlessWindow(cfg.Width, cfg.Height, cfg.Frames)
	a, err := New(cfg, dev, win, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return a.Run()
}
