package app

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"qemcp/internal/api"
	"qemcp/internal/config"
	"qemcp/pkg/logging"
)

// ConfigAdapter adapts the config system to implement api.ConfigHandler.
// It holds the configuration in effect and applies reloaded versions to
// the running services.
type ConfigAdapter struct {
	config     config.Config
	configPath string
	apply      func(config.Config) error
	mu         sync.RWMutex
}

// NewConfigAdapter creates a new config adapter instance. apply is called
// with every reloaded configuration before it takes effect.
func NewConfigAdapter(cfg config.Config, configPath string, apply func(config.Config) error) *ConfigAdapter {
	return &ConfigAdapter{
		config:     cfg,
		configPath: configPath,
		apply:      apply,
	}
}

// Register registers the adapter with the API layer.
func (a *ConfigAdapter) Register() {
	api.RegisterConfigHandler(a)
}

// GetConfig returns the configuration in effect.
func (a *ConfigAdapter) GetConfig(ctx context.Context) (interface{}, error) {
	return a.Current(), nil
}

// Current returns a copy of the configuration in effect.
func (a *ConfigAdapter) Current() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// ReloadConfig reloads config.yaml from the configuration directory and
// applies it. An invalid file leaves the current configuration in place.
func (a *ConfigAdapter) ReloadConfig(ctx context.Context) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return a.Apply(cfg)
}

// Apply makes cfg the configuration in effect.
func (a *ConfigAdapter) Apply(cfg config.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.apply != nil {
		if err := a.apply(cfg); err != nil {
			return fmt.Errorf("failed to apply configuration: %w", err)
		}
	}
	if cfg.Server != a.config.Server {
		logging.Warn("Config", "Server settings changed, restart to apply them")
	}
	a.config = cfg
	return nil
}

// GetTools returns the configuration tools.
func (a *ConfigAdapter) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		{
			Name:        "config_get",
			Description: "Get the configuration in effect as YAML",
		},
		{
			Name:        "config_reload",
			Description: "Reload the configuration file and reconnect to Azure DevOps",
		},
	}
}

// ExecuteTool executes a configuration tool by name.
func (a *ConfigAdapter) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	switch toolName {
	case "config_get":
		return a.handleConfigGet()
	case "config_reload":
		return a.handleConfigReload(ctx)
	default:
		return nil, fmt.Errorf("tool '%s' not found", toolName)
	}
}

func (a *ConfigAdapter) handleConfigGet() (*api.CallToolResult, error) {
	cfg := a.Current()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return api.HandleErrorWithPrefix(err, "Failed to encode configuration"), nil
	}
	return &api.CallToolResult{Content: []interface{}{string(data)}}, nil
}

func (a *ConfigAdapter) handleConfigReload(ctx context.Context) (*api.CallToolResult, error) {
	if err := a.ReloadConfig(ctx); err != nil {
		return api.HandleError(err), nil
	}
	return &api.CallToolResult{Content: []interface{}{"Configuration reloaded successfully"}}, nil
}
