package api

import (
	"context"
)

// CallToolResult represents the result of a tool call
type CallToolResult struct {
	Content []interface{} `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ToolMetadata describes a tool that can be exposed
type ToolMetadata struct {
	Name        string // e.g., "testplan_compare_test_cases", "config_get"
	Description string
	Args        []ArgMetadata
}

// ArgMetadata describes a tool argument
type ArgMetadata struct {
	Name        string
	Type        string // "string", "number", "boolean", "object", "array"
	Required    bool
	Description string
	Default     interface{}

	// Schema carries a detailed JSON schema for complex arguments
	// (arrays of objects). When set it takes precedence over Type.
	Schema map[string]interface{}
}

// ToolProvider interface - implemented by the testplan and config adapters
type ToolProvider interface {
	// Returns all tools this provider offers
	GetTools() []ToolMetadata

	// Executes a tool by name
	ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error)
}

// ConfigHandler exposes the effective runtime configuration.
type ConfigHandler interface {
	// GetConfig returns the effective configuration as a generic document.
	GetConfig(ctx context.Context) (interface{}, error)

	// ReloadConfig re-reads configuration from disk and applies it.
	ReloadConfig(ctx context.Context) error
}
