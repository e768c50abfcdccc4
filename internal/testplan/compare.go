package testplan

import (
	"context"

	"qemcp/internal/api"
	"qemcp/internal/similarity"
	"qemcp/internal/stepxml"
	"qemcp/pkg/logging"
)

// CompareTestCases classifies generated test cases against the test cases
// already linked to the requirement.
func (s *Service) CompareTestCases(ctx context.Context, requirementID int, generated []api.TestCase) (*api.ComparisonResult, error) {
	if requirementID <= 0 {
		return nil, api.WrapServiceError("compare test cases", api.NewValidationError("requirementId", "must be a positive work item id"))
	}

	existing, err := s.GetExistingTestCases(ctx, requirementID)
	if err != nil {
		return nil, err
	}

	result := similarity.Compare(requirementID, generated, existing)
	logging.Info("Compare", "Requirement %d: %d generated vs %d existing -> %d new, %d update, %d exists",
		requirementID, result.Summary.Total, result.ExistingCount,
		result.Summary.NewCount, result.Summary.UpdateCount, result.Summary.ExistsCount)
	return result, nil
}

// GetExistingTestCases returns the test cases linked to a requirement.
// "Tested by" links are used when the requirement has any; otherwise its
// child work items of type Test Case.
func (s *Service) GetExistingTestCases(ctx context.Context, requirementID int) ([]api.ExistingTestCase, error) {
	if requirementID <= 0 {
		return nil, api.WrapServiceError("get test cases", api.NewValidationError("requirementId", "must be a positive work item id"))
	}
	backend := s.backendFor("")

	requirement, err := backend.GetWorkItem(ctx, requirementID)
	if err != nil {
		return nil, api.WrapServiceError("get requirement", err)
	}

	ids := requirement.RelatedIDs(api.RelTestedBy)
	source := "tested-by links"
	if len(ids) == 0 {
		ids = requirement.RelatedIDs(api.RelChild)
		source = "child links"
	}
	if len(ids) == 0 {
		logging.Debug("Compare", "Requirement %d has no linked test cases", requirementID)
		return []api.ExistingTestCase{}, nil
	}

	items, err := backend.GetWorkItems(ctx, ids)
	if err != nil {
		return nil, api.WrapServiceError("get test cases", err)
	}

	existing := make([]api.ExistingTestCase, 0, len(items))
	for _, item := range items {
		if item == nil || item.Fields.WorkItemType != api.WorkItemTypeTestCase {
			continue
		}
		existing = append(existing, toExistingTestCase(item, requirementID))
	}

	logging.Debug("Compare", "Requirement %d: %d test case(s) from %s", requirementID, len(existing), source)
	return existing, nil
}

func toExistingTestCase(item *api.WorkItem, requirementID int) api.ExistingTestCase {
	return api.ExistingTestCase{
		ID:               item.ID,
		Title:            item.Fields.Title,
		State:            item.Fields.State,
		Steps:            stepxml.Parse(item.Fields.Steps),
		Priority:         item.Fields.Priority,
		AutomationStatus: item.Fields.AutomationStatus,
		RequirementID:    requirementID,
		Rev:              item.Rev,
	}
}
