package testplan

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"qemcp/internal/api"
)

// fakeBackend is an in-memory api.Backend that records the calls it gets.
type fakeBackend struct {
	mu sync.Mutex

	nextID     int
	plans      map[int]*api.TestPlan
	suites     map[int][]api.TestSuite
	workItems  map[int]*api.WorkItem
	suiteCases map[int][]int

	listCalls        int
	createSuiteCalls int
	addCalls         [][]int
	updateOps        [][]api.PatchOperation

	// errors injected per operation name
	failOn map[string]error

	// projects passed to ForProject
	projects []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:     1000,
		plans:      make(map[int]*api.TestPlan),
		suites:     make(map[int][]api.TestSuite),
		workItems:  make(map[int]*api.WorkItem),
		suiteCases: make(map[int][]int),
		failOn:     make(map[string]error),
	}
}

func (f *fakeBackend) id() int {
	f.nextID++
	return f.nextID
}

// addPlan creates a plan with its root suite and returns it.
func (f *fakeBackend) addPlan(name string) *api.TestPlan {
	f.mu.Lock()
	defer f.mu.Unlock()

	planID := f.id()
	rootID := f.id()
	plan := &api.TestPlan{ID: planID, Name: name, RootSuite: api.SuiteReference{ID: rootID, Name: name}}
	f.plans[planID] = plan
	f.suites[planID] = []api.TestSuite{{ID: rootID, Name: name, SuiteType: api.SuiteTypeStatic, PlanID: planID}}
	return plan
}

func (f *fakeBackend) addSuite(planID int, suite api.TestSuite) api.TestSuite {
	f.mu.Lock()
	defer f.mu.Unlock()

	suite.ID = f.id()
	suite.PlanID = planID
	f.suites[planID] = append(f.suites[planID], suite)
	return suite
}

func (f *fakeBackend) addWorkItem(wi *api.WorkItem) *api.WorkItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	if wi.ID == 0 {
		wi.ID = f.id()
	}
	if wi.Rev == 0 {
		wi.Rev = 1
	}
	f.workItems[wi.ID] = wi
	return wi
}

func (f *fakeBackend) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func (f *fakeBackend) ForProject(project string) api.Backend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, project)
	return f
}

func (f *fakeBackend) GetWorkItem(ctx context.Context, id int) (*api.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("GetWorkItem"); err != nil {
		return nil, err
	}
	wi, ok := f.workItems[id]
	if !ok {
		return nil, api.NewServiceError(http.StatusNotFound, fmt.Sprintf("work item %d does not exist", id))
	}
	copied := *wi
	return &copied, nil
}

func (f *fakeBackend) GetWorkItems(ctx context.Context, ids []int) ([]*api.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("GetWorkItems"); err != nil {
		return nil, err
	}
	var out []*api.WorkItem
	for _, id := range ids {
		if wi, ok := f.workItems[id]; ok {
			copied := *wi
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateWorkItem(ctx context.Context, workItemType string, ops []api.PatchOperation) (*api.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("CreateWorkItem"); err != nil {
		return nil, err
	}
	wi := &api.WorkItem{ID: f.id(), Rev: 1, Fields: api.WorkItemFields{WorkItemType: workItemType}}
	applyOps(wi, ops)
	f.workItems[wi.ID] = wi
	copied := *wi
	return &copied, nil
}

func (f *fakeBackend) UpdateWorkItem(ctx context.Context, id int, ops []api.PatchOperation) (*api.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("UpdateWorkItem"); err != nil {
		return nil, err
	}
	wi, ok := f.workItems[id]
	if !ok {
		return nil, api.NewServiceError(http.StatusNotFound, "not found")
	}
	f.updateOps = append(f.updateOps, ops)
	applyOps(wi, ops)
	wi.Rev++
	copied := *wi
	return &copied, nil
}

func applyOps(wi *api.WorkItem, ops []api.PatchOperation) {
	for _, op := range ops {
		ref := strings.TrimPrefix(op.Path, "/fields/")
		switch ref {
		case api.FieldTitle:
			wi.Fields.Title = op.Value.(string)
		case api.FieldSteps:
			wi.Fields.Steps = op.Value.(string)
		case api.FieldPriority:
			wi.Fields.Priority = op.Value.(int)
		case api.FieldAutomationStatus:
			wi.Fields.AutomationStatus = op.Value.(string)
		case api.FieldDescription:
			wi.Fields.Description = op.Value.(string)
		case api.FieldAreaPath:
			wi.Fields.AreaPath = op.Value.(string)
		case api.FieldIterationPath:
			wi.Fields.IterationPath = op.Value.(string)
		}
	}
}

func (f *fakeBackend) GetTestPlan(ctx context.Context, planID int) (*api.TestPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("GetTestPlan"); err != nil {
		return nil, err
	}
	plan, ok := f.plans[planID]
	if !ok {
		return nil, api.NewServiceError(http.StatusNotFound, fmt.Sprintf("test plan %d does not exist", planID))
	}
	copied := *plan
	return &copied, nil
}

func (f *fakeBackend) CreateTestPlan(ctx context.Context, req api.CreateTestPlanRequest) (*api.TestPlan, error) {
	if err := f.fail("CreateTestPlan"); err != nil {
		return nil, err
	}
	plan := f.addPlan(req.Name)

	f.mu.Lock()
	defer f.mu.Unlock()
	plan.AreaPath = req.AreaPath
	plan.Iteration = req.Iteration
	copied := *plan
	return &copied, nil
}

func (f *fakeBackend) ListTestSuites(ctx context.Context, planID int) ([]api.TestSuite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if err := f.fail("ListTestSuites"); err != nil {
		return nil, err
	}
	if _, ok := f.plans[planID]; !ok {
		return nil, api.NewServiceError(http.StatusNotFound, "plan not found")
	}
	out := make([]api.TestSuite, len(f.suites[planID]))
	copy(out, f.suites[planID])
	return out, nil
}

func (f *fakeBackend) CreateTestSuite(ctx context.Context, planID int, req api.CreateTestSuiteRequest) (*api.TestSuite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createSuiteCalls++
	if err := f.fail("CreateTestSuite"); err != nil {
		return nil, err
	}
	suite := api.TestSuite{
		ID:            f.id(),
		Name:          req.Name,
		SuiteType:     req.SuiteType,
		RequirementID: req.RequirementID,
		ParentSuite:   &api.SuiteReference{ID: req.ParentSuiteID},
		PlanID:        planID,
	}
	f.suites[planID] = append(f.suites[planID], suite)
	return &suite, nil
}

func (f *fakeBackend) AddTestCasesToSuite(ctx context.Context, planID, suiteID int, testCaseIDs []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("AddTestCasesToSuite"); err != nil {
		return err
	}
	f.addCalls = append(f.addCalls, testCaseIDs)
	f.suiteCases[suiteID] = append(f.suiteCases[suiteID], testCaseIDs...)
	return nil
}

// suitesOfType returns the plan's suites of one type, ordered by id.
func (f *fakeBackend) suitesOfType(planID int, suiteType api.SuiteType) []api.TestSuite {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []api.TestSuite
	for _, s := range f.suites[planID] {
		if s.SuiteType == suiteType {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
