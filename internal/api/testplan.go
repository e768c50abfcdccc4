package api

import (
	"context"
)

// SuiteType enumerates the kinds of test suites.
type SuiteType string

const (
	// SuiteTypeStatic is a folder-like suite holding explicitly added test cases.
	SuiteTypeStatic SuiteType = "staticTestSuite"

	// SuiteTypeRequirement is bound to one requirement work item.
	SuiteTypeRequirement SuiteType = "requirementTestSuite"

	// SuiteTypeDynamic is populated by a work item query.
	SuiteTypeDynamic SuiteType = "dynamicTestSuite"
)

// SuiteReference identifies a suite by id (and, when known, name).
type SuiteReference struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// TestPlan is a top-level container of test suites.
type TestPlan struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	RootSuite SuiteReference `json:"rootSuite"`
	AreaPath  string         `json:"areaPath,omitempty"`
	Iteration string         `json:"iteration,omitempty"`
	State     string         `json:"state,omitempty"`
}

// TestSuite is a node in a test plan's suite tree.
type TestSuite struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	SuiteType     SuiteType       `json:"suiteType"`
	RequirementID int             `json:"requirementId,omitempty"`
	ParentSuite   *SuiteReference `json:"parentSuite,omitempty"`
	PlanID        int             `json:"planId,omitempty"`
	QueryString   string          `json:"queryString,omitempty"`
}

// TestStep is one action / expected-result pair of a test case.
type TestStep struct {
	StepNumber     int    `json:"stepNumber" yaml:"stepNumber"`
	Action         string `json:"action" yaml:"action"`
	ExpectedResult string `json:"expectedResult" yaml:"expectedResult"`
}

// TestCase is a generated (not yet persisted) test case.
type TestCase struct {
	Title            string     `json:"title" yaml:"title"`
	Steps            []TestStep `json:"steps" yaml:"steps"`
	Priority         int        `json:"priority,omitempty" yaml:"priority,omitempty"`
	AutomationStatus string     `json:"automationStatus,omitempty" yaml:"automationStatus,omitempty"`
	Description      string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// ExistingTestCase is a persisted test case linked to a requirement.
type ExistingTestCase struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	State            string     `json:"state,omitempty"`
	Steps            []TestStep `json:"steps"`
	Priority         int        `json:"priority,omitempty"`
	AutomationStatus string     `json:"automationStatus,omitempty"`
	RequirementID    int        `json:"requirementId,omitempty"`
	Rev              int        `json:"rev,omitempty"`
}

// CreateTestCasesRequest describes where generated test cases go.
// FeatureID and FeatureTitle are both required to place the requirement
// suite under a feature suite; otherwise it goes under the root suite.
type CreateTestCasesRequest struct {
	TestPlanID   int        `json:"testPlanId"`
	StoryID      int        `json:"storyId"`
	StoryTitle   string     `json:"storyTitle"`
	TestCases    []TestCase `json:"testCases"`
	FeatureID    int        `json:"featureId,omitempty"`
	FeatureTitle string     `json:"featureTitle,omitempty"`
	Project      string     `json:"project,omitempty"`
}

// CreateTestCasesResult reports what CreateTestCasesInPlan created or reused.
type CreateTestCasesResult struct {
	OperationID      string      `json:"operationId"`
	TestCases        []*WorkItem `json:"testCases"`
	RequirementSuite *TestSuite  `json:"suite"`
	FeatureSuite     *TestSuite  `json:"featureSuite,omitempty"`
}

// UpdateTestCaseRequest replaces the title and/or steps of a test case.
// Nil Title and nil Steps leave the respective field untouched.
type UpdateTestCaseRequest struct {
	Title   *string    `json:"title,omitempty"`
	Steps   []TestStep `json:"steps,omitempty"`
	Project string     `json:"project,omitempty"`
}

// CreateTestPlanRequest describes a new test plan.
type CreateTestPlanRequest struct {
	Name      string `json:"name"`
	AreaPath  string `json:"areaPath,omitempty"`
	Iteration string `json:"iteration,omitempty"`
	Project   string `json:"project,omitempty"`
}

// TestPlanHandler is the contract of the test plan service: comparison of
// generated test cases and reconciliation of the suite hierarchy.
type TestPlanHandler interface {
	CompareTestCases(ctx context.Context, requirementID int, generated []TestCase) (*ComparisonResult, error)
	CreateTestCasesInPlan(ctx context.Context, req CreateTestCasesRequest) (*CreateTestCasesResult, error)
	UpdateTestCase(ctx context.Context, id int, req UpdateTestCaseRequest) (*WorkItem, error)
	GetExistingTestCases(ctx context.Context, requirementID int) ([]ExistingTestCase, error)
	CreateTestPlan(ctx context.Context, req CreateTestPlanRequest) (*TestPlan, error)
	ListTestSuites(ctx context.Context, planID int, project string) ([]TestSuite, error)
}
