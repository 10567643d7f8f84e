// Package app provides the top-level application lifecycle. It wires
// together the market-state cache, venue connectors, decision engine,
// optional Redis bus, and the HTTP API, and runs them under one errgroup.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/config"
)

// shutdownTimeout bounds the graceful HTTP shutdown on exit.
const shutdownTimeout = 5 * time.Second

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the connectors, decision loop, and HTTP
// server, and blocks until the context is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting engine",
		slog.String("symbol", a.cfg.Engine.Symbol),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	g, ctx := errgroup.WithContext(ctx)

	// Venue feeds: connect up front, then hold the connection until
	// shutdown. Reconnection after the initial dial is handled inside the
	// connector.
	for _, conn := range deps.Connectors {
		conn := conn
		g.Go(func() error {
			if err := conn.Connect(ctx); err != nil {
				return fmt.Errorf("app: connect %s: %w", conn.Name(), err)
			}
			a.logger.InfoContext(ctx, "venue connected", slog.String("venue", conn.Name()))

			<-ctx.Done()
			if err := conn.Close(); err != nil {
				a.logger.Warn("venue close failed",
					slog.String("venue", conn.Name()),
					slog.Any("error", err),
				)
			}
			return ctx.Err()
		})
	}

	// Decision loop.
	g.Go(func() error {
		return deps.Engine.Run(ctx)
	})

	// HTTP API.
	if deps.Server != nil {
		g.Go(func() error {
			errCh := make(chan error, 1)
			go func() {
				errCh <- deps.Server.Start()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := deps.Server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return ctx.Err()
			case err := <-errCh:
				return err
			}
		})
	}

	return g.Wait()
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
