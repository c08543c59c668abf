// Package commands implements the stratify subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stratify-labs/stratify/internal/config"
	"github.com/stratify-labs/stratify/internal/engine"
)

// App carries the resolved configuration and logger into subcommands. The
// root command populates it before any subcommand runs.
type App struct {
	Config *config.Config
	Logger *slog.Logger
}

// NewEngine creates an engine from the app configuration.
func (a *App) NewEngine() (*engine.Engine, error) {
	if dir := filepath.Dir(a.Config.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return engine.New(a.Config, a.Logger)
}
