// internal/app/bootstrap/run.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// startupTimeout bounds connecting, schema setup, and seeding.
const startupTimeout = 30 * time.Second

// drainTimeout is how long in-flight requests get to finish on shutdown.
const drainTimeout = 10 * time.Second

// Run drives the whole application lifecycle: configuration, database
// connections, schema and seed data, the HTTP server, and background
// jobs, then blocks until SIGINT/SIGTERM and tears everything down in
// reverse order.
func Run() error {
	logger, err := newLogger(os.Getenv("RELIEFHUB_ENV"))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := LoadConfig(logger)
	if err != nil {
		return err
	}
	if err := ValidateConfig(cfg, logger); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	deps, err := ConnectDB(startCtx, cfg, logger)
	if err != nil {
		return err
	}
	if err := EnsureSchema(startCtx, cfg, deps, logger); err != nil {
		return err
	}
	if err := Startup(startCtx, cfg, deps, logger); err != nil {
		return err
	}

	handler, err := BuildHandler(startCtx, cfg, deps, logger)
	if err != nil {
		return err
	}
	cancel()

	runner := NewTaskRunner(cfg, deps, logger)
	runner.Start()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("http server failed", zap.Error(err))
		runner.Stop()
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server drain incomplete", zap.Error(err))
	}
	runner.Stop()

	if err := Shutdown(shutdownCtx, deps, logger); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// newLogger builds the process logger. Prod logs JSON; everything else
// gets the human-readable development format.
func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
