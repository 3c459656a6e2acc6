// Package server runs the HTTP daemon and its background housekeeping.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/justpaste/internal/download"
)

// DefaultShutdownTimeout bounds how long in-flight requests get on shutdown.
const DefaultShutdownTimeout = 30 * time.Second

// Config for the daemon runner.
type Config struct {
	Addr            string
	ScratchDir      string        // root of per-job workspaces
	StaleAfter      time.Duration // workspaces older than this are swept; 0 disables sweeping
	ShutdownTimeout time.Duration
}

// Runner serves HTTP and sweeps abandoned workspaces until its context ends.
type Runner struct {
	handler http.Handler
	config  Config
	logger  *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(handler http.Handler, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Runner{
		handler: handler,
		config:  cfg,
		logger:  logger,
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve runs all components on ln. It blocks until ctx is canceled or a
// component fails, and returns nil after a clean shutdown.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	r.sweep()

	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if r.config.StaleAfter > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(r.config.StaleAfter)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					r.sweep()
				}
			}
		})
	}

	return g.Wait()
}

// sweep removes workspaces left behind by jobs that never released them.
func (r *Runner) sweep() {
	if r.config.StaleAfter <= 0 {
		return
	}
	n, err := download.SweepStale(r.config.ScratchDir, r.config.StaleAfter, r.logger)
	if err != nil {
		r.logger.Warn("stale workspace sweep failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("removed stale workspaces", "count", n)
	}
}
