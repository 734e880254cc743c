package app

import (
	"flag"
	"log/slog"
	"path/filepath"
	"testing"

	"tileforge/internal/core"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-resources", "assets", "-headless", "-frames", "10", "-tps", "50", "-scroll-speed", "4.5", "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Resources != "assets" || !cfg.Headless || cfg.Frames != 10 || cfg.TPS != 50 || cfg.ScrollSpeed != 4.5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if lvl, err := cfg.Level(); err != nil || lvl != slog.LevelDebug {
		t.Fatalf("level = %v, %v", lvl, err)
	}
	root, err := cfg.ResourceRoot()
	if err != nil || !filepath.IsAbs(root) || filepath.Base(root) != "assets" {
		t.Fatalf("resource root = %q, %v", root, err)
	}
}

func TestConfigResourcesFromEnv(t *testing.T) {
	t.Setenv(ResourcesEnv, "/srv/tiles")
	if got := NewConfig().Resources; got != "/srv/tiles" {
		t.Fatalf("resources = %q", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"width":  func(c *Config) { c.Width = 0 },
		"zoom":   func(c *Config) { c.Zoom = -1 },
		"tps":    func(c *Config) { c.TPS = 0 },
		"frames": func(c *Config) { c.Frames = -2 },
		"level":  func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			mutate(cfg)
			err := cfg.Validate()
			if kind, _ := core.KindOf(err); kind != core.KindConfig {
				t.Fatalf("err = %v, kind %v", err, kind)
			}
		})
	}
	if err := NewConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
