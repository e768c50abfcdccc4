package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qemcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/qemcp"
	configFileName = "config.yaml"

	// EnvOrganizationURL overrides ado.organizationUrl.
	EnvOrganizationURL = "QEMCP_ADO_ORG_URL"
	// EnvProject overrides ado.project.
	EnvProject = "QEMCP_ADO_PROJECT"
)

// osUserHomeDir is a variable so tests can replace it.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/qemcp.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// GetDefaultConfigPathOrPanic is GetDefaultConfigPath for flag defaults.
func GetDefaultConfigPathOrPanic() string {
	path, err := GetDefaultConfigPath()
	if err != nil {
		panic(err)
	}
	return path
}

// FilePath returns the path of config.yaml inside configPath.
func FilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads configuration from config.yaml in the given directory,
// layered over the defaults and under the environment overrides.
// The result is not validated; call Validate.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := FilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "Error loading config.yaml from %s: %s", configFilePath, err)
			return Config{}, err
		}
		logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("Config", "Loaded configuration from %s", configFilePath)
	}

	applyEnvOverrides(&config)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v, ok := os.LookupEnv(EnvOrganizationURL); ok && strings.TrimSpace(v) != "" {
		config.ADO.OrganizationURL = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvProject); ok && strings.TrimSpace(v) != "" {
		config.ADO.Project = strings.TrimSpace(v)
	}
}

// Token reads the secret named by TokenEnv from the environment.
func (a AuthConfig) Token() (string, error) {
	name := a.TokenEnv
	if name == "" {
		name = DefaultTokenEnv
	}
	token := strings.TrimSpace(os.Getenv(name))
	if token == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return token, nil
}
