package config

import "time"

const (
	DefaultAPIVersion  = "7.1"
	DefaultTimeout     = 30 * time.Second
	DefaultTokenEnv    = "ADO_PAT"
	DefaultHost        = "localhost"
	DefaultPort        = 8095
	DefaultToolPrefix  = "qe"
	DefaultParallelism = 4
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() Config {
	return Config{
		ADO: ADOConfig{
			APIVersion: DefaultAPIVersion,
			Timeout:    DefaultTimeout,
			Auth: AuthConfig{
				Type:     AuthTypePAT,
				TokenEnv: DefaultTokenEnv,
			},
		},
		Server: ServerConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			Transport:  MCPTransportStreamableHTTP,
			ToolPrefix: DefaultToolPrefix,
		},
		Reconcile: ReconcileConfig{
			Parallelism: DefaultParallelism,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
