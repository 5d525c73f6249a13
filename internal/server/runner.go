// Package server runs the long-lived daemon components.
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
)

// Component is a background job that runs until its context is done.
type Component interface {
	Run(ctx context.Context) error
}

// Config for the runner.
type Config struct {
	ShutdownTimeout time.Duration // default 30s
	// DrainTimeout bounds how long requests still running after
	// ShutdownTimeout get to unwind once their contexts are cancelled.
	DrainTimeout time.Duration // default 5s
}

// Runner serves HTTP and runs background components until the context is
// cancelled or one of them fails.
type Runner struct {
	srv        *http.Server
	components []Component
	config     Config
	logger     *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(srv *http.Server, cfg Config, logger *slog.Logger, components ...Component) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	return &Runner{
		srv:        srv,
		components: components,
		config:     cfg,
		logger:     logger.With("component", "runner"),
	}
}

// Run listens on the server's address and blocks until shutdown.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.srv.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve is Run on an existing listener. A cancelled context is a clean
// shutdown and returns nil.
//
// http.Server.Shutdown does not cancel request contexts, so open-ended
// streams would outlive it. Every request context derives from a base
// context that is cancelled once Shutdown gives up waiting.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	r.srv.BaseContext = func(net.Listener) context.Context { return baseCtx }

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := r.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		err := r.srv.Shutdown(shutdownCtx)
		cancelBase()
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("shutdown timed out, cancelling in-flight requests",
				"timeout", r.config.ShutdownTimeout)
			drainCtx, cancelDrain := context.WithTimeout(context.Background(), r.config.DrainTimeout)
			defer cancelDrain()
			err = r.srv.Shutdown(drainCtx)
		}
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	for _, c := range r.components {
		g.Go(func() error {
			if err := c.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
