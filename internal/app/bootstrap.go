package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"qemcp/internal/config"
	"qemcp/pkg/logging"
)

// Application represents the main application structure that bootstraps
// and runs qemcp.
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads and validates the configuration, initializes
// logging and creates all services.
func NewApplication(cfg *Config) (*Application, error) {
	if cfg.ConfigPath == "" {
		path, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine configuration directory: %w", err)
		}
		cfg.ConfigPath = path
	}

	if cfg.QEConfig == nil {
		qeCfg, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", cfg.ConfigPath, err)
		}
		cfg.QEConfig = &qeCfg
	}

	initLogging(cfg.Debug, *cfg.QEConfig)

	if err := cfg.QEConfig.Validate(); err != nil {
		logging.Error("Bootstrap", err, "Invalid configuration in %s", config.FilePath(cfg.ConfigPath))
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// initLogging sends logs to stderr when stdout carries the stdio
// transport.
func initLogging(debug bool, cfg config.Config) {
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	if debug {
		level = logging.LevelDebug
	}

	var output io.Writer = os.Stdout
	if cfg.Server.Transport == config.MCPTransportStdio {
		output = os.Stderr
	}
	logging.Init(level, logging.Format(cfg.Logging.Format), output)
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run starts the server and blocks until shutdown.
func (a *Application) Run(ctx context.Context) error {
	return runServer(ctx, a.config, a.services)
}
