// Package app wires the subsystem together: load build files, validate
// the target graph, walk it into an action graph, and hand the actions to
// an executor.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp constructs the application: it configures an isolated logger and
// loads the build configuration into the format-agnostic model. A failure
// to load is a fatal startup error.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.BuildPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load build configuration: %w", err)
	}
	logger.Debug("Build configuration loaded.", "targets", len(model.Targets))

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
	}, nil
}

// Model exposes the loaded configuration model.
func (a *App) Model() *config.Model { return a.model }
