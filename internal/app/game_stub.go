//go:build !ebiten

package app

import (
	"log/slog"

	"tileforge/internal/core"
)

// RunWindowed reports that the GUI build tag is missing.
func RunWindowed(*Config, *slog.Logger) error {
	return core.Errorf(core.KindConfig, "app.run", "windowed mode requires building with the 'ebiten' tag; use -headless")
}
