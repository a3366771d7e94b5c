// Package app wires configuration into the running service.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"spectraviewer/internal/catalog"
	"spectraviewer/internal/config"
	"spectraviewer/internal/logger"
	"spectraviewer/internal/server"
	"spectraviewer/internal/spectrum"
)

type App struct {
	cfg     *config.Config
	server  *server.Server
	catalog *catalog.Catalog
}

// New builds the application from config without starting anything.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)

	roots := spectrum.Roots{
		Filesystem: cfg.Spectra.FilesystemPath,
		Jobs:       cfg.Spectra.JobsPath,
	}
	plotter := spectrum.NewPlotter(roots)
	cat := catalog.New(roots)
	srv := server.New(server.Config{
		Addr:                cfg.Server.Addr,
		LegendHideThreshold: cfg.Spectra.LegendHideThreshold,
		FigureTTL:           time.Duration(cfg.Server.FigureTTLSeconds) * time.Second,
	}, plotter, cat)

	return &App{cfg: cfg, server: srv, catalog: cat}, nil
}

// Run serves HTTP and, when enabled, keeps the file catalog fresh. It
// returns when ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if a.cfg.Spectra.WatchRoots {
		group.Go(func() error {
			if err := a.catalog.Watch(ctx); err != nil {
				return fmt.Errorf("catalog watcher error: %w", err)
			}
			return nil
		})
	}

	return group.Wait()
}
