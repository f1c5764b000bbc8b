package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// RunConfig holds what Run needs to serve until shutdown.
type RunConfig struct {
	Server          *http.Server
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
	// Cancel stops background work such as the memory session sweeper. Optional.
	Cancel context.CancelFunc
}

// Run starts the server and blocks until SIGINT/SIGTERM or a listen failure,
// then drains in-flight requests within ShutdownTimeout.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Server == nil {
		return errors.New("server is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	startServer(logger, cfg.Server, errCh)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		ctx:     ctx,
		quit:    quit,
		errCh:   errCh,
		server:  cfg.Server,
		timeout: cfg.ShutdownTimeout,
		cancel:  cfg.Cancel,
		logger:  logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx     context.Context
	quit    <-chan os.Signal
	errCh   <-chan error
	server  *http.Server
	timeout time.Duration
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// waitForShutdown waits for a shutdown signal, context cancellation or server error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down...")
		return gracefulStop(cfg)
	case <-cfg.ctx.Done():
		cfg.logger.Info("context cancelled, shutting down...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("HTTP server failed", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			return errors.Join(err, stopErr)
		}
		return err
	}
}

// gracefulStop drains the server and stops background work.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.cancel != nil {
		defer cfg.cancel()
	}

	timeout := cfg.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), timeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.server,
		Logger:  cfg.logger,
	})
}
