package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"qemcp/internal/config"
	"qemcp/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// runServer starts the MCP server and blocks until ctx is cancelled, a
// SIGINT or SIGTERM arrives, or the transport fails.
func runServer(ctx context.Context, cfg *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := services.Server.Start(ctx); err != nil {
		logging.Error("Server", err, "Failed to start MCP server")
		return err
	}

	if cfg.WatchConfig {
		watcher := config.NewWatcher(cfg.ConfigPath, config.DefaultDebounceInterval, func(updated config.Config) {
			if err := services.ConfigAdapter.Apply(updated); err != nil {
				logging.Error("Config", err, "Keeping previous configuration")
			}
		})
		if err := watcher.Start(ctx); err != nil {
			logging.Warn("Config", "Not watching %s: %v", config.FilePath(cfg.ConfigPath), err)
		} else {
			defer watcher.Stop()
		}
	}

	if endpoint := services.Server.Endpoint(); endpoint != "" {
		logging.Info("Server", "Serving MCP on %s. Press Ctrl+C to stop.", endpoint)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info("Server", "Shutting down")
	case runErr = <-services.Server.Errors():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := services.Server.Stop(shutdownCtx); err != nil {
		logging.Warn("Server", "Shutdown: %v", err)
	}
	return runErr
}
