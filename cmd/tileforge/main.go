package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tileforge/internal/app"
	"tileforge/internal/core"
	"tileforge/internal/render"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprint(os.Stderr, core.FormatError(err))
		os.Exit(1)
	}
}

func run(cfg *app.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)

	if cfg.Headless {
		return app.RunHeadless(cfg, logger)
	}
	return app.RunWindowed(cfg, logger)
}
