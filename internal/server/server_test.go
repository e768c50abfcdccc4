package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qemcp/internal/api"
	"qemcp/internal/config"
)

// stubProvider is a test plan handler whose tools echo their input.
type stubProvider struct {
	api.TestPlanHandler
	tools []api.ToolMetadata
	calls []string
}

func (p *stubProvider) GetTools() []api.ToolMetadata { return p.tools }

func (p *stubProvider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	p.calls = append(p.calls, toolName)
	switch toolName {
	case "testplan_list_suites":
		return &api.CallToolResult{Content: []interface{}{map[string]interface{}{"total": 1, "args": args}}}, nil
	case "testplan_create_plan":
		return api.HandleError(api.NewValidationError("name", "is required")), nil
	default:
		return nil, errors.New("unknown tool: " + toolName)
	}
}

func registerStub(t *testing.T) *stubProvider {
	t.Helper()
	stub := &stubProvider{tools: []api.ToolMetadata{
		{
			Name:        "testplan_list_suites",
			Description: "List suites",
			Args: []api.ArgMetadata{
				{Name: "testPlanId", Type: "number", Required: true, Description: "Plan"},
				{Name: "project", Type: "string"},
			},
		},
		{Name: "testplan_create_plan", Description: "Create plan"},
		{Name: "testplan_broken", Description: "Always fails"},
	}}
	api.RegisterTestPlan(stub)
	t.Cleanup(func() { api.RegisterTestPlan(nil) })
	return stub
}

func newInProcessClient(t *testing.T, srv *Server) *client.Client {
	t.Helper()
	cl, err := client.NewInProcessClient(srv.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cl.Close() })

	ctx := context.Background()
	require.NoError(t, cl.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "server-test", Version: "0.0.1"}
	_, err = cl.Initialize(ctx, initReq)
	require.NoError(t, err)
	return cl
}

func callTool(t *testing.T, cl *client.Client, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := cl.CallTool(context.Background(), req)
	require.NoError(t, err)
	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestServer_ListTools(t *testing.T) {
	registerStub(t)
	srv := New(Config{ServerConfig: config.ServerConfig{ToolPrefix: "qe"}})
	cl := newInProcessClient(t, srv)

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	byName := make(map[string]mcp.Tool)
	for _, tool := range result.Tools {
		byName[tool.Name] = tool
	}
	require.Contains(t, byName, "qe_testplan_list_suites")
	require.Contains(t, byName, "qe_testplan_create_plan")

	listSuites := byName["qe_testplan_list_suites"]
	assert.Equal(t, []string{"testPlanId"}, listSuites.InputSchema.Required)
	assert.Contains(t, listSuites.InputSchema.Properties, "project")
}

func TestServer_ReadOnlyHidesWriteTools(t *testing.T) {
	registerStub(t)
	srv := New(Config{ServerConfig: config.ServerConfig{ToolPrefix: "qe", ReadOnly: true}})
	cl := newInProcessClient(t, srv)

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "qe_testplan_list_suites")
	assert.NotContains(t, names, "qe_testplan_create_plan")
}

func TestServer_CallTool(t *testing.T) {
	stub := registerStub(t)
	srv := New(Config{ServerConfig: config.ServerConfig{ToolPrefix: "qe"}})
	cl := newInProcessClient(t, srv)

	result := callTool(t, cl, "qe_testplan_list_suites", map[string]interface{}{"testPlanId": 12})
	assert.False(t, result.IsError)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &body))
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, map[string]interface{}{"testPlanId": float64(12)}, body["args"])
	assert.Equal(t, []string{"testplan_list_suites"}, stub.calls, "provider sees the unprefixed name")
}

func TestServer_CallToolErrors(t *testing.T) {
	registerStub(t)
	srv := New(Config{ServerConfig: config.ServerConfig{ToolPrefix: "qe"}})
	cl := newInProcessClient(t, srv)

	result := callTool(t, cl, "qe_testplan_create_plan", nil)
	assert.True(t, result.IsError)
	assert.Equal(t, "name: is required", textOf(t, result))

	result = callTool(t, cl, "qe_testplan_broken", nil)
	assert.True(t, result.IsError)
	assert.Equal(t, "Tool execution failed: unknown tool: testplan_broken", textOf(t, result))
}

func TestConvertToMCPSchema(t *testing.T) {
	schema := convertToMCPSchema([]api.ArgMetadata{
		{Name: "requirementId", Type: "number", Required: true, Description: "Requirement"},
		{
			Name:        "testCases",
			Type:        "array",
			Required:    true,
			Description: "Cases",
			Schema:      map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "object"}, "description": "overridden"},
		},
		{Name: "limit", Type: "number", Default: 10},
	})

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"requirementId", "testCases"}, schema.Required)
	assert.Equal(t, map[string]interface{}{"type": "number", "description": "Requirement"}, schema.Properties["requirementId"])

	cases := schema.Properties["testCases"].(map[string]interface{})
	assert.Equal(t, "Cases", cases["description"])
	assert.Equal(t, map[string]interface{}{"type": "object"}, cases["items"])
	assert.Equal(t, 10, schema.Properties["limit"].(map[string]interface{})["default"])
}

func TestConvertToMCPResult(t *testing.T) {
	result := convertToMCPResult(&api.CallToolResult{
		Content: []interface{}{"plain", map[string]int{"total": 2}},
		IsError: true,
	})

	require.Len(t, result.Content, 2)
	assert.True(t, result.IsError)
	first, _ := mcp.AsTextContent(result.Content[0])
	second, _ := mcp.AsTextContent(result.Content[1])
	assert.Equal(t, "plain", first.Text)
	assert.JSONEq(t, `{"total":2}`, second.Text)
}

func TestServer_Endpoint(t *testing.T) {
	tests := []struct {
		transport string
		expected  string
	}{
		{config.MCPTransportStreamableHTTP, "http://localhost:8095/mcp"},
		{"", "http://localhost:8095/mcp"},
		{config.MCPTransportSSE, "http://localhost:8095/sse"},
		{config.MCPTransportStdio, ""},
	}

	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			srv := New(Config{ServerConfig: config.ServerConfig{Host: "localhost", Port: 8095, Transport: tt.transport}})
			assert.Equal(t, tt.expected, srv.Endpoint())
		})
	}
}

func TestServer_StartStop(t *testing.T) {
	registerStub(t)
	srv := New(Config{
		ServerConfig: config.ServerConfig{Transport: config.MCPTransportStdio},
		Stdin:        strings.NewReader(""),
		Stdout:       io.Discard,
	})

	assert.EqualError(t, srv.Stop(context.Background()), "server not started")

	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	assert.EqualError(t, srv.Start(ctx), "server already started")
	require.NoError(t, srv.Stop(ctx))
}
