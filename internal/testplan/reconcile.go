package testplan

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"qemcp/internal/api"
	"qemcp/internal/stepxml"
	"qemcp/pkg/logging"
)

// CreateTestCasesInPlan places the given test cases under the story's
// requirement suite, creating the feature and requirement suites first when
// they do not exist yet.
//
// Suites are resolved in hierarchy order and never in parallel. Test case
// work items are created concurrently, bounded by Options.Parallelism, and
// then attached to the requirement suite one call per test case in input
// order. Nothing is rolled back on failure.
func (s *Service) CreateTestCasesInPlan(ctx context.Context, req api.CreateTestCasesRequest) (*api.CreateTestCasesResult, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, api.WrapServiceError("create test cases", err)
	}

	opID := uuid.New().String()
	backend := s.backendFor(req.Project)
	opts := s.options()

	logging.Info("Reconcile", "[%s] Reconciling %d test case(s) for story %d in plan %d",
		opID, len(req.TestCases), req.StoryID, req.TestPlanID)

	plan, err := backend.GetTestPlan(ctx, req.TestPlanID)
	if err != nil {
		return nil, api.WrapServiceError("get test plan", err)
	}
	parentID := plan.RootSuite.ID

	snapshot := &suiteSnapshot{backend: backend, planID: plan.ID}
	result := &api.CreateTestCasesResult{OperationID: opID}

	if req.FeatureID > 0 && strings.TrimSpace(req.FeatureTitle) != "" {
		featureSuite, err := s.guarded(featureKey(plan.ID, req.FeatureID), snapshot, func() (*api.TestSuite, error) {
			return ensureFeatureSuite(ctx, backend, snapshot, plan, req, opts.Names, opID)
		})
		if err != nil {
			return nil, err
		}
		result.FeatureSuite = featureSuite
		parentID = featureSuite.ID
	}

	reqSuite, err := s.guarded(requirementKey(plan.ID, req.StoryID), snapshot, func() (*api.TestSuite, error) {
		return ensureRequirementSuite(ctx, backend, snapshot, plan.ID, parentID, req, opts.Names, opID)
	})
	if err != nil {
		return nil, err
	}
	result.RequirementSuite = reqSuite

	workItems, err := createTestCaseWorkItems(ctx, backend, req.TestCases, opts)
	if err != nil {
		return nil, err
	}

	for _, wi := range workItems {
		if err := backend.AddTestCasesToSuite(ctx, plan.ID, reqSuite.ID, []int{wi.ID}); err != nil {
			return nil, api.WrapServiceError("add test case to suite", err)
		}
	}
	result.TestCases = workItems

	logging.Info("Reconcile", "[%s] Created %d test case(s) in suite %d (%s)",
		opID, len(workItems), reqSuite.ID, reqSuite.Name)
	return result, nil
}

// guarded runs a find-or-create step under the suite guard. Under an
// exclusive guard the step starts from a fresh listing.
func (s *Service) guarded(key string, snapshot *suiteSnapshot, fn func() (*api.TestSuite, error)) (*api.TestSuite, error) {
	return s.guard.Do(key, func() (*api.TestSuite, error) {
		if s.guard.Exclusive() {
			snapshot.invalidate()
		}
		return fn()
	})
}

func validateCreateRequest(req api.CreateTestCasesRequest) error {
	var errs api.ValidationErrors
	if req.TestPlanID <= 0 {
		errs.Add("testPlanId", "must be a positive work item id")
	}
	if req.StoryID <= 0 {
		errs.Add("storyId", "must be a positive work item id")
	}
	if strings.TrimSpace(req.StoryTitle) == "" {
		errs.Add("storyTitle", "is required")
	}
	for i, tc := range req.TestCases {
		if strings.TrimSpace(tc.Title) == "" {
			errs.Add(fmt.Sprintf("testCases[%d].title", i), "is required")
		}
	}
	return errs.OrNil()
}

func ensureFeatureSuite(ctx context.Context, backend api.Backend, snapshot *suiteSnapshot, plan *api.TestPlan, req api.CreateTestCasesRequest, names SuiteNames, opID string) (*api.TestSuite, error) {
	name, err := names.feature(req.FeatureID, req.FeatureTitle)
	if err != nil {
		return nil, api.WrapServiceError("name feature suite", err)
	}
	suites, err := snapshot.get(ctx)
	if err != nil {
		return nil, err
	}

	if existing := findFeatureSuite(suites, req.FeatureID, name); existing != nil {
		logging.Debug("Reconcile", "[%s] Reusing feature suite %d (%s)", opID, existing.ID, existing.Name)
		return existing, nil
	}

	suite, err := backend.CreateTestSuite(ctx, plan.ID, api.CreateTestSuiteRequest{
		Name:          name,
		SuiteType:     api.SuiteTypeStatic,
		ParentSuiteID: plan.RootSuite.ID,
	})
	if err != nil {
		return nil, api.WrapServiceError("create test suite", err)
	}
	snapshot.invalidate()

	logging.Info("Reconcile", "[%s] Created feature suite %d (%s)", opID, suite.ID, suite.Name)
	return suite, nil
}

func ensureRequirementSuite(ctx context.Context, backend api.Backend, snapshot *suiteSnapshot, planID, parentID int, req api.CreateTestCasesRequest, names SuiteNames, opID string) (*api.TestSuite, error) {
	name, err := names.requirement(req.StoryID, req.StoryTitle)
	if err != nil {
		return nil, api.WrapServiceError("name requirement suite", err)
	}
	suites, err := snapshot.get(ctx)
	if err != nil {
		return nil, err
	}

	if existing := findRequirementSuite(suites, req.StoryID); existing != nil {
		logging.Debug("Reconcile", "[%s] Reusing requirement suite %d (%s)", opID, existing.ID, existing.Name)
		return existing, nil
	}

	suite, err := backend.CreateTestSuite(ctx, planID, api.CreateTestSuiteRequest{
		Name:          name,
		SuiteType:     api.SuiteTypeRequirement,
		RequirementID: req.StoryID,
		ParentSuiteID: parentID,
	})
	if err != nil {
		return nil, api.WrapServiceError("create test suite", err)
	}
	snapshot.invalidate()

	logging.Info("Reconcile", "[%s] Created requirement suite %d (%s)", opID, suite.ID, suite.Name)
	return suite, nil
}

// createTestCaseWorkItems creates one Test Case work item per test case.
// The result has the order of testCases.
func createTestCaseWorkItems(ctx context.Context, backend api.Backend, testCases []api.TestCase, opts Options) ([]*api.WorkItem, error) {
	workItems := make([]*api.WorkItem, len(testCases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)

	for i := range testCases {
		tc := testCases[i]
		g.Go(func() error {
			wi, err := backend.CreateWorkItem(gctx, api.WorkItemTypeTestCase, testCaseOperations(tc, opts))
			if err != nil {
				return api.WrapServiceError("create test case", err)
			}
			workItems[i] = wi
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return workItems, nil
}

func testCaseOperations(tc api.TestCase, opts Options) []api.PatchOperation {
	ops := []api.PatchOperation{
		api.AddField(api.FieldTitle, strings.TrimSpace(tc.Title)),
		api.AddField(api.FieldSteps, stepxml.Serialize(tc.Steps)),
	}
	if tc.Priority > 0 {
		ops = append(ops, api.AddField(api.FieldPriority, tc.Priority))
	}
	if tc.AutomationStatus != "" {
		ops = append(ops, api.AddField(api.FieldAutomationStatus, tc.AutomationStatus))
	}
	if tc.Description != "" {
		ops = append(ops, api.AddField(api.FieldDescription, tc.Description))
	}
	if opts.AreaPath != "" {
		ops = append(ops, api.AddField(api.FieldAreaPath, opts.AreaPath))
	}
	if opts.IterationPath != "" {
		ops = append(ops, api.AddField(api.FieldIterationPath, opts.IterationPath))
	}
	return ops
}
