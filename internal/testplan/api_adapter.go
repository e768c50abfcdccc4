package testplan

import (
	"context"
	"fmt"
	"strings"

	"qemcp/internal/api"
	"qemcp/pkg/logging"
)

// Adapter exposes the Service through the api package: it implements
// api.TestPlanHandler and api.ToolProvider.
type Adapter struct {
	service *Service
}

// NewAdapter creates a new test plan API adapter.
func NewAdapter(service *Service) *Adapter {
	return &Adapter{service: service}
}

// Register registers this adapter with the central API layer.
func (a *Adapter) Register() {
	api.RegisterTestPlan(a)
	logging.Info("TestPlan", "Registered test plan handler with API layer")
}

// CompareTestCases delegates to the service.
func (a *Adapter) CompareTestCases(ctx context.Context, requirementID int, generated []api.TestCase) (*api.ComparisonResult, error) {
	return a.service.CompareTestCases(ctx, requirementID, generated)
}

// CreateTestCasesInPlan delegates to the service.
func (a *Adapter) CreateTestCasesInPlan(ctx context.Context, req api.CreateTestCasesRequest) (*api.CreateTestCasesResult, error) {
	return a.service.CreateTestCasesInPlan(ctx, req)
}

// UpdateTestCase delegates to the service.
func (a *Adapter) UpdateTestCase(ctx context.Context, id int, req api.UpdateTestCaseRequest) (*api.WorkItem, error) {
	return a.service.UpdateTestCase(ctx, id, req)
}

// GetExistingTestCases delegates to the service.
func (a *Adapter) GetExistingTestCases(ctx context.Context, requirementID int) ([]api.ExistingTestCase, error) {
	return a.service.GetExistingTestCases(ctx, requirementID)
}

// CreateTestPlan delegates to the service.
func (a *Adapter) CreateTestPlan(ctx context.Context, req api.CreateTestPlanRequest) (*api.TestPlan, error) {
	return a.service.CreateTestPlan(ctx, req)
}

// ListTestSuites delegates to the service.
func (a *Adapter) ListTestSuites(ctx context.Context, planID int, project string) ([]api.TestSuite, error) {
	return a.service.ListTestSuites(ctx, planID, project)
}

var testStepSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"stepNumber":     map[string]interface{}{"type": "number", "description": "Position of the step, starting at 1"},
		"action":         map[string]interface{}{"type": "string", "description": "What the tester does"},
		"expectedResult": map[string]interface{}{"type": "string", "description": "What should happen"},
	},
	"required": []string{"action", "expectedResult"},
}

var testCaseSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title": map[string]interface{}{"type": "string"},
		"steps": map[string]interface{}{
			"type":  "array",
			"items": testStepSchema,
		},
		"priority":         map[string]interface{}{"type": "number", "description": "1 (highest) to 4"},
		"automationStatus": map[string]interface{}{"type": "string"},
		"description":      map[string]interface{}{"type": "string"},
	},
	"required": []string{"title", "steps"},
}

// GetTools returns all tools this provider offers
func (a *Adapter) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		{
			Name:        "testplan_compare_test_cases",
			Description: "Compare generated test cases with the test cases linked to a requirement and classify each as NEW, UPDATE or EXISTS",
			Args: []api.ArgMetadata{
				{Name: "requirementId", Type: "number", Required: true, Description: "Work item id of the requirement (user story)"},
				{
					Name:        "testCases",
					Type:        "array",
					Required:    true,
					Description: "Generated test cases",
					Schema:      map[string]interface{}{"type": "array", "items": testCaseSchema},
				},
			},
		},
		{
			Name:        "testplan_create_test_cases",
			Description: "Create test cases in a test plan under the requirement suite of a story, creating feature and requirement suites when missing",
			Args: []api.ArgMetadata{
				{Name: "testPlanId", Type: "number", Required: true, Description: "Test plan id"},
				{Name: "storyId", Type: "number", Required: true, Description: "Work item id of the story"},
				{Name: "storyTitle", Type: "string", Required: true, Description: "Title of the story, used to name a new requirement suite"},
				{
					Name:        "testCases",
					Type:        "array",
					Required:    true,
					Description: "Test cases to create",
					Schema:      map[string]interface{}{"type": "array", "items": testCaseSchema},
				},
				{Name: "featureId", Type: "number", Description: "Work item id of the parent feature"},
				{Name: "featureTitle", Type: "string", Description: "Title of the parent feature"},
				{Name: "project", Type: "string", Description: "Project overriding the configured one"},
			},
		},
		{
			Name:        "testplan_update_test_case",
			Description: "Replace the title and/or steps of an existing test case",
			Args: []api.ArgMetadata{
				{Name: "testCaseId", Type: "number", Required: true, Description: "Work item id of the test case"},
				{Name: "title", Type: "string", Description: "New title"},
				{
					Name:        "steps",
					Type:        "array",
					Description: "New steps, replacing all existing steps",
					Schema:      map[string]interface{}{"type": "array", "items": testStepSchema},
				},
				{Name: "project", Type: "string", Description: "Project overriding the configured one"},
			},
		},
		{
			Name:        "testplan_get_test_cases",
			Description: "List the test cases linked to a requirement",
			Args: []api.ArgMetadata{
				{Name: "requirementId", Type: "number", Required: true, Description: "Work item id of the requirement"},
			},
		},
		{
			Name:        "testplan_create_plan",
			Description: "Create a test plan",
			Args: []api.ArgMetadata{
				{Name: "name", Type: "string", Required: true, Description: "Plan name"},
				{Name: "areaPath", Type: "string", Description: "Area path (defaults to the configured one)"},
				{Name: "iteration", Type: "string", Description: "Iteration path (defaults to the configured one)"},
				{Name: "project", Type: "string", Description: "Project overriding the configured one"},
			},
		},
		{
			Name:        "testplan_list_suites",
			Description: "List all suites of a test plan",
			Args: []api.ArgMetadata{
				{Name: "testPlanId", Type: "number", Required: true, Description: "Test plan id"},
				{Name: "project", Type: "string", Description: "Project overriding the configured one"},
			},
		},
	}
}

// ExecuteTool executes a tool by name
func (a *Adapter) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	if err := requireArgs(a.toolArgs(toolName), args); err != nil {
		return api.HandleError(err), nil
	}

	switch toolName {
	case "testplan_compare_test_cases":
		return a.handleCompare(ctx, args)
	case "testplan_create_test_cases":
		return a.handleCreateTestCases(ctx, args)
	case "testplan_update_test_case":
		return a.handleUpdateTestCase(ctx, args)
	case "testplan_get_test_cases":
		return a.handleGetTestCases(ctx, args)
	case "testplan_create_plan":
		return a.handleCreatePlan(ctx, args)
	case "testplan_list_suites":
		return a.handleListSuites(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func (a *Adapter) toolArgs(toolName string) []api.ArgMetadata {
	for _, tool := range a.GetTools() {
		if tool.Name == toolName {
			return tool.Args
		}
	}
	return nil
}

// requireArgs reports every required argument missing from args.
func requireArgs(meta []api.ArgMetadata, args map[string]interface{}) error {
	var missing []string
	for _, arg := range meta {
		if !arg.Required {
			continue
		}
		if v, ok := args[arg.Name]; !ok || v == nil {
			missing = append(missing, arg.Name)
		}
	}
	if len(missing) > 0 {
		return api.NewValidationError("", fmt.Sprintf("missing required argument(s): %s", strings.Join(missing, ", ")))
	}
	return nil
}

// Tool handlers

type compareArgs struct {
	RequirementID int            `json:"requirementId"`
	TestCases     []api.TestCase `json:"testCases"`
}

func (a *Adapter) handleCompare(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	var req compareArgs
	if err := api.ParseRequest(args, &req); err != nil {
		return api.HandleError(err), nil
	}

	result, err := a.service.CompareTestCases(ctx, req.RequirementID, req.TestCases)
	if err != nil {
		return api.HandleError(err), nil
	}
	return &api.CallToolResult{Content: []interface{}{result}}, nil
}

func (a *Adapter) handleCreateTestCases(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	var req api.CreateTestCasesRequest
	if err := api.ParseRequest(args, &req); err != nil {
		return api.HandleError(err), nil
	}

	result, err := a.service.CreateTestCasesInPlan(ctx, req)
	if err != nil {
		return api.HandleError(err), nil
	}
	return &api.CallToolResult{Content: []interface{}{result}}, nil
}

type updateArgs struct {
	TestCaseID int            `json:"testCaseId"`
	Title      *string        `json:"title,omitempty"`
	Steps      []api.TestStep `json:"steps,omitempty"`
	Project    string         `json:"project,omitempty"`
}

func (a *Adapter) handleUpdateTestCase(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	var req updateArgs
	if err := api.ParseRequest(args, &req); err != nil {
		return api.HandleError(err), nil
	}

	workItem, err := a.service.UpdateTestCase(ctx, req.TestCaseID, api.UpdateTestCaseRequest{
		Title:   req.Title,
		Steps:   req.Steps,
		Project: req.Project,
	})
	if err != nil {
		return api.HandleError(err), nil
	}
	return &api.CallToolResult{Content: []interface{}{workItem}}, nil
}

type requirementArgs struct {
	RequirementID int `json:"requirementId"`
}

func (a *Adapter) handleGetTestCases(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	var req requirementArgs
	if err := api.ParseRequest(args, &req); err != nil {
		return api.HandleError(err), nil
	}

	testCases, err := a.service.GetExistingTestCases(ctx, req.RequirementID)
	if err != nil {
		return api.HandleError(err), nil
	}

	result := map[string]interface{}{
		"requirementId": req.RequirementID,
		"testCases":     testCases,
		"total":         len(testCases),
	}
	return &api.CallToolResult{Content: []interface{}{result}}, nil
}

func (a *Adapter) handleCreatePlan(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	var req api.CreateTestPlanRequest
	if err := api.ParseRequest(args, &req); err != nil {
		return api.HandleError(err), nil
	}

	plan, err := a.service.CreateTestPlan(ctx, req)
	if err != nil {
		return api.HandleError(err), nil
	}
	return &api.CallToolResult{Content: []interface{}{plan}}, nil
}

type listSuitesArgs struct {
	TestPlanID int    `json:"testPlanId"`
	Project    string `json:"project,omitempty"`
}

func (a *Adapter) handleListSuites(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	var req listSuitesArgs
	if err := api.ParseRequest(args, &req); err != nil {
		return api.HandleError(err), nil
	}

	suites, err := a.service.ListTestSuites(ctx, req.TestPlanID, req.Project)
	if err != nil {
		return api.HandleError(err), nil
	}

	result := map[string]interface{}{
		"testPlanId": req.TestPlanID,
		"suites":     suites,
		"total":      len(suites),
	}
	return &api.CallToolResult{Content: []interface{}{result}}, nil
}
