package app

import (
	"qemcp/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the logging section.
	Debug bool

	// ConfigPath is the configuration directory. Empty means the default
	// user configuration directory.
	ConfigPath string

	// WatchConfig reloads config.yaml when it changes.
	WatchConfig bool

	// Version is announced by the MCP server.
	Version string

	// QEConfig is loaded during bootstrap when nil.
	QEConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug, watchConfig bool, configPath, version string) *Config {
	return &Config{
		Debug:       debug,
		WatchConfig: watchConfig,
		ConfigPath:  configPath,
		Version:     version,
	}
}
