// Package main runs the Pokemon team builder API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"poketeam/internal/config"
	"poketeam/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	deps, cleanup, err := Connect(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	app, err := NewApp(cfg, log, deps)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", cfg.App.Port)
		errCh <- app.Listen(cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Infow("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Warnw("error during shutdown", "error", err)
	}
	log.Infow("server gracefully stopped")
	return nil
}
