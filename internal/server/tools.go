package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"qemcp/internal/api"
	"qemcp/pkg/logging"
)

// writeTools are hidden in read-only mode.
var writeTools = map[string]bool{
	"testplan_create_test_cases": true,
	"testplan_update_test_case":  true,
	"testplan_create_plan":       true,
	"config_reload":              true,
}

// isWriteTool reports whether a provider tool changes remote or local state.
func isWriteTool(toolName string) bool {
	return writeTools[toolName]
}

// createToolsFromProviders creates MCP tools from all registered tool
// providers.
func (s *Server) createToolsFromProviders() []mcpserver.ServerTool {
	var tools []mcpserver.ServerTool

	for _, provider := range api.ToolProviders() {
		for _, toolMeta := range provider.GetTools() {
			if s.config.ReadOnly && isWriteTool(toolMeta.Name) {
				logging.Debug("Server", "Read-only mode, not exposing %s", toolMeta.Name)
				continue
			}

			tools = append(tools, mcpserver.ServerTool{
				Tool: mcp.Tool{
					Name:        s.prefixToolName(toolMeta.Name),
					Description: toolMeta.Description,
					InputSchema: convertToMCPSchema(toolMeta.Args),
				},
				Handler: createToolHandler(provider, toolMeta.Name),
			})
		}
	}
	return tools
}

// prefixToolName returns the exposed name of a provider tool.
func (s *Server) prefixToolName(toolName string) string {
	if s.config.ToolPrefix == "" {
		return toolName
	}
	return s.config.ToolPrefix + "_" + toolName
}

// createToolHandler wraps a provider's ExecuteTool in an MCP handler.
func createToolHandler(provider api.ToolProvider, toolName string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}

		result, err := provider.ExecuteTool(ctx, toolName, args)
		if err != nil {
			logging.Error("Server", err, "Tool execution failed for %s", toolName)
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
		}
		if result.IsError {
			logging.Warn("Server", "Tool %s returned an error: %v", toolName, result.Content)
		}

		return convertToMCPResult(result), nil
	}
}

// convertToMCPSchema converts arg metadata to an MCP input schema. A
// detailed Schema takes precedence over the basic Type.
func convertToMCPSchema(params []api.ArgMetadata) mcp.ToolInputSchema {
	properties := make(map[string]interface{})
	required := []string{}

	for _, param := range params {
		var propSchema map[string]interface{}

		if len(param.Schema) > 0 {
			propSchema = make(map[string]interface{}, len(param.Schema)+1)
			for key, value := range param.Schema {
				propSchema[key] = value
			}
			if param.Description != "" {
				propSchema["description"] = param.Description
			}
		} else {
			propSchema = map[string]interface{}{
				"type":        param.Type,
				"description": param.Description,
			}
		}

		if param.Default != nil {
			propSchema["default"] = param.Default
		}

		properties[param.Name] = propSchema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// convertToMCPResult converts a provider result to MCP text content.
// Non-string content is marshaled to JSON.
func convertToMCPResult(result *api.CallToolResult) *mcp.CallToolResult {
	mcpContent := make([]mcp.Content, len(result.Content))

	for i, content := range result.Content {
		if text, ok := content.(string); ok {
			mcpContent[i] = mcp.NewTextContent(text)
			continue
		}
		jsonBytes, err := json.Marshal(content)
		if err != nil {
			logging.Warn("Server", "Failed to encode tool result: %v", err)
			mcpContent[i] = mcp.NewTextContent(fmt.Sprintf("%v", content))
			continue
		}
		mcpContent[i] = mcp.NewTextContent(string(jsonBytes))
	}

	return &mcp.CallToolResult{
		Content: mcpContent,
		IsError: result.IsError,
	}
}
