package config

import (
	"time"
)

// Config is the top-level configuration structure for qemcp.
type Config struct {
	ADO       ADOConfig       `yaml:"ado"`
	Server    ServerConfig    `yaml:"server"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Logging   LoggingConfig   `yaml:"logging"`
}

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

const (
	// AuthTypePAT sends the token as a personal access token (basic auth).
	AuthTypePAT = "pat"
	// AuthTypeBearer sends the token as an OAuth2 bearer token.
	AuthTypeBearer = "bearer"
)

// ADOConfig holds the connection settings of the Azure DevOps organization.
type ADOConfig struct {
	OrganizationURL string        `yaml:"organizationUrl,omitempty"` // e.g. https://dev.azure.com/acme
	Project         string        `yaml:"project,omitempty"`         // Default project, overridable per call
	APIVersion      string        `yaml:"apiVersion,omitempty"`      // REST api-version (default: 7.1)
	Auth            AuthConfig    `yaml:"auth"`
	AreaPath        string        `yaml:"areaPath,omitempty"`      // Area path for created test cases
	IterationPath   string        `yaml:"iterationPath,omitempty"` // Iteration path for created test cases
	Timeout         time.Duration `yaml:"timeout,omitempty"`       // HTTP timeout per request (default: 30s)
}

// Configured reports whether enough is set to talk to the remote API.
func (c ADOConfig) Configured() bool {
	return c.OrganizationURL != "" && c.Project != ""
}

// AuthConfig selects how requests are authenticated.
type AuthConfig struct {
	Type     string `yaml:"type,omitempty"`     // pat | bearer
	TokenEnv string `yaml:"tokenEnv,omitempty"` // Environment variable holding the token
}

// ServerConfig defines how the MCP server is exposed.
type ServerConfig struct {
	Host       string `yaml:"host,omitempty"`       // Host to bind to (default: localhost)
	Port       int    `yaml:"port,omitempty"`       // Port to listen on (default: 8095)
	Transport  string `yaml:"transport,omitempty"`  // streamable-http | sse | stdio
	ToolPrefix string `yaml:"toolPrefix,omitempty"` // Prefix for all tool names (default: "qe")

	// ReadOnly hides every tool that writes to Azure DevOps.
	ReadOnly bool `yaml:"readOnly,omitempty"`
}

// ReconcileConfig tunes the suite hierarchy reconciler.
type ReconcileConfig struct {
	// Parallelism bounds concurrent test case creation.
	Parallelism int `yaml:"parallelism,omitempty"`

	// SerializeSuiteCreation serializes find-or-create of suites per plan and
	// key within this process.
	SerializeSuiteCreation bool `yaml:"serializeSuiteCreation,omitempty"`

	// SuiteNames holds the name templates of created suites.
	SuiteNames SuiteNamesConfig `yaml:"suiteNames,omitempty"`
}

// SuiteNamesConfig holds text/template strings with sprig functions. They
// see the work item id as .ID and its title as .Title. Empty values use the
// built-in names.
type SuiteNamesConfig struct {
	Feature     string `yaml:"feature,omitempty"`
	Requirement string `yaml:"requirement,omitempty"`
}

// LoggingConfig controls the log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug | info | warn | error
	Format string `yaml:"format,omitempty"` // text | json
}
