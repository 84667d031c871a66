// Package main provides the check-runner CLI, which runs the test suites of
// the integration checks touched by a change.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nathantilsley/check-runner/internal/platform/config"
	"github.com/nathantilsley/check-runner/internal/platform/logger"
	"github.com/nathantilsley/check-runner/internal/platform/telemetry"
	"github.com/nathantilsley/check-runner/internal/testrun/domain"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := newApp(run, os.Stdout, os.Stderr)
	err := app.RunContext(ctx, os.Args)
	stop()

	if err != nil {
		// Usage errors are returned without going through the exit handler.
		os.Exit(2)
	}
}

func run(ctx context.Context, req domain.TestRequest) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)

	// Initialize telemetry (noop unless OTEL_ENABLED=true)
	tel, err := telemetry.New(ctx, cfg.OTelEnabled, version)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// Build dependency container
	container, err := NewContainer(ctx, cfg, tel, log, os.Stdout, os.Stderr)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	return container.TestService.Execute(ctx, req)
}
