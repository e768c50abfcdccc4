package ado

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"qemcp/internal/api"
)

// suiteResource is a test suite as the test plan API returns it.
type suiteResource struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	SuiteType     api.SuiteType       `json:"suiteType"`
	RequirementID int                 `json:"requirementId,omitempty"`
	ParentSuite   *api.SuiteReference `json:"parentSuite,omitempty"`
	Plan          *api.SuiteReference `json:"plan,omitempty"`
	QueryString   string              `json:"queryString,omitempty"`
}

func (s suiteResource) toTestSuite() api.TestSuite {
	suite := api.TestSuite{
		ID:            s.ID,
		Name:          s.Name,
		SuiteType:     s.SuiteType,
		RequirementID: s.RequirementID,
		ParentSuite:   s.ParentSuite,
		QueryString:   s.QueryString,
	}
	if s.Plan != nil {
		suite.PlanID = s.Plan.ID
	}
	return suite
}

type suiteList struct {
	Count int             `json:"count"`
	Value []suiteResource `json:"value"`
}

type createSuiteBody struct {
	Name          string              `json:"name"`
	SuiteType     api.SuiteType       `json:"suiteType"`
	RequirementID int                 `json:"requirementId,omitempty"`
	ParentSuite   *api.SuiteReference `json:"parentSuite,omitempty"`
	QueryString   string              `json:"queryString,omitempty"`
}

type suiteTestCase struct {
	WorkItem struct {
		ID int `json:"id"`
	} `json:"workItem"`
}

type createPlanBody struct {
	Name      string `json:"name"`
	AreaPath  string `json:"areaPath,omitempty"`
	Iteration string `json:"iteration,omitempty"`
}

// GetTestPlan returns a test plan.
func (c *Client) GetTestPlan(ctx context.Context, planID int) (*api.TestPlan, error) {
	var plan api.TestPlan
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("testplan/plans/%d", planID), nil, "", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreateTestPlan creates a test plan. The service creates its root suite.
func (c *Client) CreateTestPlan(ctx context.Context, req api.CreateTestPlanRequest) (*api.TestPlan, error) {
	body := createPlanBody{Name: req.Name, AreaPath: req.AreaPath, Iteration: req.Iteration}

	var plan api.TestPlan
	if _, err := c.do(ctx, http.MethodPost, "testplan/plans", nil, contentTypeJSON, body, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListTestSuites returns every suite of a plan as a flat list, following
// continuation tokens.
func (c *Client) ListTestSuites(ctx context.Context, planID int) ([]api.TestSuite, error) {
	path := fmt.Sprintf("testplan/plans/%d/suites", planID)

	var suites []api.TestSuite
	token := ""
	for {
		query := url.Values{"asTreeView": {"false"}}
		if token != "" {
			query.Set("continuationToken", token)
		}

		var page suiteList
		header, err := c.do(ctx, http.MethodGet, path, query, "", nil, &page)
		if err != nil {
			return nil, err
		}
		for _, s := range page.Value {
			suites = append(suites, s.toTestSuite())
		}

		token = header.Get(continuationHeader)
		if token == "" {
			return suites, nil
		}
	}
}

// CreateTestSuite creates a suite in a plan.
func (c *Client) CreateTestSuite(ctx context.Context, planID int, req api.CreateTestSuiteRequest) (*api.TestSuite, error) {
	body := createSuiteBody{
		Name:          req.Name,
		SuiteType:     req.SuiteType,
		RequirementID: req.RequirementID,
		QueryString:   req.QueryString,
	}
	if req.ParentSuiteID > 0 {
		body.ParentSuite = &api.SuiteReference{ID: req.ParentSuiteID}
	}

	var created suiteResource
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("testplan/plans/%d/suites", planID), nil, contentTypeJSON, body, &created); err != nil {
		return nil, err
	}
	suite := created.toTestSuite()
	if suite.PlanID == 0 {
		suite.PlanID = planID
	}
	return &suite, nil
}

// AddTestCasesToSuite adds existing test case work items to a static or
// requirement suite.
func (c *Client) AddTestCasesToSuite(ctx context.Context, planID, suiteID int, testCaseIDs []int) error {
	body := make([]suiteTestCase, len(testCaseIDs))
	for i, id := range testCaseIDs {
		body[i].WorkItem.ID = id
	}

	path := fmt.Sprintf("testplan/plans/%d/suites/%d/testcase", planID, suiteID)
	_, err := c.do(ctx, http.MethodPost, path, nil, contentTypeJSON, body, nil)
	return err
}
