package testplan

import (
	"context"
	"strings"

	"github.com/cespare/xxhash/v2"

	"qemcp/internal/api"
	"qemcp/internal/stepxml"
	"qemcp/pkg/logging"
)

// UpdateTestCase replaces the title and/or steps of a test case. At least one
// of them must be given. When the test case already has the requested
// content no update is sent and the current work item is returned.
func (s *Service) UpdateTestCase(ctx context.Context, id int, req api.UpdateTestCaseRequest) (*api.WorkItem, error) {
	if err := validateUpdateRequest(id, req); err != nil {
		return nil, api.WrapServiceError("update test case", err)
	}
	backend := s.backendFor(req.Project)

	current, err := backend.GetWorkItem(ctx, id)
	if err != nil {
		return nil, api.WrapServiceError("get test case", err)
	}

	currentSteps := stepxml.Serialize(stepxml.Parse(current.Fields.Steps))
	wantTitle := current.Fields.Title
	wantSteps := currentSteps
	if req.Title != nil {
		wantTitle = strings.TrimSpace(*req.Title)
	}
	if req.Steps != nil {
		wantSteps = stepxml.Serialize(req.Steps)
	}

	if contentFingerprint(wantTitle, wantSteps) == contentFingerprint(current.Fields.Title, currentSteps) {
		logging.Debug("TestPlan", "Test case %d already up to date, skipping update", id)
		return current, nil
	}

	var ops []api.PatchOperation
	if req.Title != nil {
		ops = append(ops, api.ReplaceField(api.FieldTitle, wantTitle))
	}
	if req.Steps != nil {
		ops = append(ops, api.ReplaceField(api.FieldSteps, wantSteps))
	}

	updated, err := backend.UpdateWorkItem(ctx, id, ops)
	if err != nil {
		return nil, api.WrapServiceError("update test case", err)
	}

	logging.Info("TestPlan", "Updated test case %d (rev %d)", updated.ID, updated.Rev)
	return updated, nil
}

func validateUpdateRequest(id int, req api.UpdateTestCaseRequest) error {
	var errs api.ValidationErrors
	if id <= 0 {
		errs.Add("testCaseId", "must be a positive work item id")
	}
	if req.Title == nil && req.Steps == nil {
		errs.Add("", "title or steps must be provided")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs.Add("title", "must not be empty")
	}
	return errs.OrNil()
}

// contentFingerprint hashes the content an update can change.
func contentFingerprint(title, stepsXML string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(title)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(stepsXML)
	return d.Sum64()
}
