package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockTestPlanHandler struct {
	TestPlanHandler
	tools []ToolMetadata
}

func (m *mockTestPlanHandler) GetTools() []ToolMetadata {
	return m.tools
}

func (m *mockTestPlanHandler) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error) {
	return &CallToolResult{Content: []interface{}{toolName}}, nil
}

type mockConfigHandler struct{}

func (m *mockConfigHandler) GetConfig(ctx context.Context) (interface{}, error) { return nil, nil }
func (m *mockConfigHandler) ReloadConfig(ctx context.Context) error { return nil }

func TestHandlerRegistry(t *testing.T) {
	resetHandlers()
	t.Cleanup(resetHandlers)

	assert.Nil(t, GetTestPlan())
	assert.Nil(t, GetConfigHandler())
	assert.Empty(t, ToolProviders())

	tp := &mockTestPlanHandler{tools: []ToolMetadata{{Name: "testplan_list_suites"}}}
	RegisterTestPlan(tp)
	assert.Same(t, tp, GetTestPlan())

	// A config handler without tools is registered but not listed as provider.
	RegisterConfigHandler(&mockConfigHandler{})
	assert.NotNil(t, GetConfigHandler())

	providers := ToolProviders()
	if assert.Len(t, providers, 1) {
		assert.Equal(t, "testplan_list_suites", providers[0].GetTools()[0].Name)
	}

	replacement := &mockTestPlanHandler{}
	RegisterTestPlan(replacement)
	assert.Same(t, replacement, GetTestPlan())
}
