package api

import (
	"context"
)

// CreateTestSuiteRequest describes a suite to create under a parent suite.
type CreateTestSuiteRequest struct {
	Name          string
	SuiteType     SuiteType
	RequirementID int
	ParentSuiteID int
	QueryString   string
}

// WorkItemStore is generic work item access.
type WorkItemStore interface {
	// GetWorkItem returns one work item with all fields and relations.
	GetWorkItem(ctx context.Context, id int) (*WorkItem, error)

	// GetWorkItems returns the work items with the given ids, with relations.
	// Ids that do not exist are skipped.
	GetWorkItems(ctx context.Context, ids []int) ([]*WorkItem, error)

	CreateWorkItem(ctx context.Context, workItemType string, ops []PatchOperation) (*WorkItem, error)
	UpdateWorkItem(ctx context.Context, id int, ops []PatchOperation) (*WorkItem, error)
}

// TestPlanStore is access to test plans and their suites.
type TestPlanStore interface {
	GetTestPlan(ctx context.Context, planID int) (*TestPlan, error)
	CreateTestPlan(ctx context.Context, req CreateTestPlanRequest) (*TestPlan, error)

	// ListTestSuites returns every suite of the plan, root suite included.
	ListTestSuites(ctx context.Context, planID int) ([]TestSuite, error)
	CreateTestSuite(ctx context.Context, planID int, req CreateTestSuiteRequest) (*TestSuite, error)

	// AddTestCasesToSuite attaches existing test case work items to a suite.
	AddTestCasesToSuite(ctx context.Context, planID, suiteID int, testCaseIDs []int) error
}

// Backend is everything the test plan service needs from the remote
// work-tracking system.
type Backend interface {
	WorkItemStore
	TestPlanStore
}

// ProjectScoper is implemented by backends that can be pointed at a
// different project for a single call.
type ProjectScoper interface {
	ForProject(project string) Backend
}
