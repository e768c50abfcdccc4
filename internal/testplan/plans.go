package testplan

import (
	"context"
	"strings"

	"qemcp/internal/api"
	"qemcp/pkg/logging"
)

// CreateTestPlan creates a test plan. Area and iteration default to the
// configured paths.
func (s *Service) CreateTestPlan(ctx context.Context, req api.CreateTestPlanRequest) (*api.TestPlan, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, api.WrapServiceError("create test plan", api.NewValidationError("name", "is required"))
	}

	opts := s.options()
	if req.AreaPath == "" {
		req.AreaPath = opts.AreaPath
	}
	if req.Iteration == "" {
		req.Iteration = opts.IterationPath
	}

	plan, err := s.backendFor(req.Project).CreateTestPlan(ctx, req)
	if err != nil {
		return nil, api.WrapServiceError("create test plan", err)
	}

	logging.Info("TestPlan", "Created test plan %d (%s) with root suite %d", plan.ID, plan.Name, plan.RootSuite.ID)
	return plan, nil
}

// ListTestSuites returns every suite of a test plan.
func (s *Service) ListTestSuites(ctx context.Context, planID int, project string) ([]api.TestSuite, error) {
	if planID <= 0 {
		return nil, api.WrapServiceError("list test suites", api.NewValidationError("testPlanId", "must be a positive id"))
	}

	suites, err := s.backendFor(project).ListTestSuites(ctx, planID)
	if err != nil {
		return nil, api.WrapServiceError("list test suites", err)
	}
	return suites, nil
}
