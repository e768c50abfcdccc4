package similarity

import (
	"qemcp/internal/api"
)

// Compare classifies every generated test case against the existing ones
// and summarizes the result. The best match for a generated case is the
// first existing case with the highest score.
func Compare(requirementID int, generated []api.TestCase, existing []api.ExistingTestCase) *api.ComparisonResult {
	result := &api.ComparisonResult{
		RequirementID: requirementID,
		Comparisons:   make([]api.TestCaseComparison, 0, len(generated)),
		ExistingCount: len(existing),
	}

	for _, g := range generated {
		comparison := compareOne(g, existing)
		switch comparison.Status {
		case api.StatusNew:
			result.Summary.NewCount++
		case api.StatusUpdate:
			result.Summary.UpdateCount++
		case api.StatusExists:
			result.Summary.ExistsCount++
		}
		result.Comparisons = append(result.Comparisons, comparison)
	}
	result.Summary.Total = len(result.Comparisons)

	return result
}

func compareOne(generated api.TestCase, existing []api.ExistingTestCase) api.TestCaseComparison {
	bestIdx := -1
	bestScore := 0
	for i := range existing {
		if s := TestCaseSimilarity(generated, existing[i]); bestIdx < 0 || s > bestScore {
			bestIdx, bestScore = i, s
		}
	}

	comparison := api.TestCaseComparison{
		Generated:  generated,
		Status:     api.StatusNew,
		Similarity: bestScore,
	}
	if bestIdx < 0 {
		return comparison
	}

	comparison.Status = Classify(bestScore)
	if comparison.Status == api.StatusNew {
		return comparison
	}

	match := existing[bestIdx]
	comparison.Existing = &match
	comparison.Diff = Diff(generated, match)
	return comparison
}
