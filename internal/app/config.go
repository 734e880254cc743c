package app

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"tileforge/internal/core"
	"tileforge/internal/scene"
	"tileforge/internal/vfs"
)

// ResourcesEnv overrides the default resources directory.
const ResourcesEnv = "RESOURCES_PATH"

// Config represents the command-line parameters for the application.
type Config struct {
	Resources   string
	Scene       string
	Headless    bool
	Frames      int
	Debug       bool
	Width       int
	Height      int
	Zoom        float64
	TPS         int
	ScrollSpeed float64
	LogLevel    string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Resources:   os.Getenv(ResourcesEnv),
		Scene:       scene.DefaultPath,
		Frames:      120,
		Width:       800,
		Height:      600,
		Zoom:        32,
		TPS:         100,
		ScrollSpeed: 2,
		LogLevel:    "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Resources, "resources", c.Resources, "resources directory (default $"+ResourcesEnv+" or <exe dir>/resources)")
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene manifest, relative to the resources directory")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "render without a window")
	fs.IntVar(&c.Frames, "frames", c.Frames, "frames to render in headless mode, 0 runs until interrupted")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "abort on unexpected GPU errors")
	fs.IntVar(&c.Width, "width", c.Width, "initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height")
	fs.Float64Var(&c.Zoom, "zoom", c.Zoom, "screen pixels per grid unit")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Float64Var(&c.ScrollSpeed, "scroll-speed", c.ScrollSpeed, "camera speed in grid units per second")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
}

// Validate rejects values the frame loop cannot run with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return core.Errorf(core.KindConfig, "config", "window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Zoom <= 0 {
		return core.Errorf(core.KindConfig, "config", "zoom must be positive, got %g", c.Zoom)
	}
	if c.TPS <= 0 {
		return core.Errorf(core.KindConfig, "config", "tps must be positive, got %d", c.TPS)
	}
	if c.Frames < 0 {
		return core.Errorf(core.KindConfig, "config", "frames must not be negative, got %d", c.Frames)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ResourceRoot returns the absolute resources directory.
func (c *Config) ResourceRoot() (string, error) {
	if c.Resources == "" {
		return vfs.DefaultRoot()
	}
	abs, err := filepath.Abs(c.Resources)
	if err != nil {
		return "", core.Wrap(core.KindConfig, "config", err, "failed to resolve resources path "+c.Resources)
	}
	return abs, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, core.Wrap(core.KindConfig, "config", err, "invalid log level "+c.LogLevel)
	}
	return lvl, nil
}
