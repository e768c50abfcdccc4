package cli

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"qemcp/internal/config"
)

// EnvEndpoint overrides the server endpoint when --endpoint is not set.
const EnvEndpoint = "QEMCP_ENDPOINT"

// target is where the CLI sends its tool calls.
type target struct {
	endpoint   string
	toolPrefix string
}

// resolveTarget determines the endpoint and tool prefix. The endpoint comes
// from the explicit value, then QEMCP_ENDPOINT, then the server section of
// config.yaml in configPath. The tool prefix always comes from config.yaml.
func resolveTarget(endpoint, configPath string) (target, error) {
	cfg := config.GetDefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return target{}, err
		}
		cfg = loaded
	}

	t := target{endpoint: endpoint, toolPrefix: cfg.Server.ToolPrefix}
	if t.endpoint == "" {
		t.endpoint = os.Getenv(EnvEndpoint)
	}
	if t.endpoint != "" {
		return t, nil
	}

	resolved, err := EndpointFromConfig(cfg.Server)
	if err != nil {
		return target{}, err
	}
	t.endpoint = resolved
	return t, nil
}

// EndpointFromConfig builds the URL a local server with this configuration
// listens on.
func EndpointFromConfig(cfg config.ServerConfig) (string, error) {
	host := cfg.Host
	if host == "" {
		host = config.DefaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}
	base := "http://" + net.JoinHostPort(host, strconv.Itoa(port))

	switch cfg.Transport {
	case "", config.MCPTransportStreamableHTTP:
		return base + "/mcp", nil
	case config.MCPTransportSSE:
		return "", fmt.Errorf("the CLI only speaks streamable-http; server transport %q is not supported", cfg.Transport)
	case config.MCPTransportStdio:
		return "", fmt.Errorf("server transport %q has no network endpoint; set --endpoint or %s", cfg.Transport, EnvEndpoint)
	default:
		return "", fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}
}
