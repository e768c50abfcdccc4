package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"qemcp/internal/api"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer exposes canned results under the "qe" prefix.
func newTestServer(t *testing.T, received *map[string]interface{}) *mcpserver.MCPServer {
	t.Helper()
	srv := mcpserver.NewMCPServer("qemcp-test", "0.0.1", mcpserver.WithToolCapabilities(true))

	suites := map[string]interface{}{
		"testPlanId": 42,
		"suites": []api.TestSuite{
			{ID: 1, Name: "Plan", SuiteType: api.SuiteTypeStatic},
			{ID: 7, Name: "1001 : Login", SuiteType: api.SuiteTypeRequirement, RequirementID: 1001, ParentSuite: &api.SuiteReference{ID: 1}},
		},
		"total": 2,
	}
	srv.AddTool(mcp.NewTool("qe_testplan_list_suites"), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if received != nil {
			*received = req.GetArguments()
		}
		data, err := json.Marshal(suites)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(data)), nil
	})
	srv.AddTool(mcp.NewTool("qe_testplan_create_plan"), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("Failed to create test plan: name: is required"), nil
	})
	return srv
}

func newTestExecutor(t *testing.T, srv *mcpserver.MCPServer, format OutputFormat) (*ToolExecutor, *bytes.Buffer) {
	t.Helper()
	cl, err := client.NewInProcessClient(srv)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	executor := newToolExecutor(cl, target{endpoint: "in-process", toolPrefix: "qe"},
		ExecutorOptions{Format: format, Quiet: true}, &stdout, &stderr)
	t.Cleanup(func() { _ = executor.Close() })

	require.NoError(t, executor.Connect(context.Background()))
	return executor, &stdout
}

func TestToolExecutor_ToolName(t *testing.T) {
	executor := newToolExecutor(nil, target{toolPrefix: "qe"}, ExecutorOptions{}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, "qe_testplan_list_suites", executor.ToolName(ToolListSuites))
	assert.Equal(t, DefaultToolTimeout, executor.GetOptions().Timeout)

	executor = newToolExecutor(nil, target{}, ExecutorOptions{}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, ToolListSuites, executor.ToolName(ToolListSuites))
}

func TestToolExecutor_ExecuteJSONOutput(t *testing.T) {
	var received map[string]interface{}
	executor, stdout := newTestExecutor(t, newTestServer(t, &received), OutputFormatJSON)

	err := executor.Execute(context.Background(), ToolListSuites, map[string]interface{}{"testPlanId": 42})
	require.NoError(t, err)

	assert.Equal(t, float64(42), received["testPlanId"])
	assert.Contains(t, stdout.String(), "\n  \"suites\": [")
	assert.Contains(t, stdout.String(), `"name": "1001 : Login"`)
}

func TestToolExecutor_ExecuteTableOutput(t *testing.T) {
	executor, stdout := newTestExecutor(t, newTestServer(t, nil), OutputFormatTable)

	require.NoError(t, executor.Execute(context.Background(), ToolListSuites, map[string]interface{}{"testPlanId": 42}))

	out := stdout.String()
	assert.Contains(t, out, "1001 : Login")
	assert.Contains(t, out, string(api.SuiteTypeRequirement))
	assert.Contains(t, out, "1001")
}

func TestToolExecutor_ExecuteJSON(t *testing.T) {
	executor, _ := newTestExecutor(t, newTestServer(t, nil), OutputFormatTable)

	var res struct {
		Suites []api.TestSuite `json:"suites"`
		Total  int             `json:"total"`
	}
	require.NoError(t, executor.ExecuteJSON(context.Background(), ToolListSuites, map[string]interface{}{"testPlanId": 42}, &res))
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1001, res.Suites[1].RequirementID)
}

func TestToolExecutor_ToolErrorResult(t *testing.T) {
	executor, stdout := newTestExecutor(t, newTestServer(t, nil), OutputFormatTable)

	err := executor.Execute(context.Background(), ToolCreatePlan, map[string]interface{}{})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "qe_testplan_create_plan", toolErr.Tool)
	assert.Equal(t, "Failed to create test plan: name: is required", err.Error())
	assert.Empty(t, stdout.String())
}

func TestToolExecutor_ConnectRefused(t *testing.T) {
	executor, err := NewToolExecutor(ExecutorOptions{
		Quiet:      true,
		ConfigPath: t.TempDir(),
		Endpoint:   "http://127.0.0.1:1/mcp",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1/mcp", executor.Endpoint())

	err = executor.Connect(context.Background())
	require.Error(t, err)

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "http://127.0.0.1:1/mcp", connErr.Endpoint)
	assert.Equal(t, ConnectionErrorNetwork, connErr.Type)
	assert.Contains(t, err.Error(), "qemcp serve")
}
