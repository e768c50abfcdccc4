package similarity

import (
	"qemcp/internal/api"
)

// Diff describes how generated differs from existing.
//
// Steps are paired greedily in generated order: each generated step takes
// the unmatched existing step it is most similar to, provided the score
// reaches StepMatchThreshold. There is no optimal assignment, so an early
// generated step can take an existing step a later one would have matched
// better. Existing steps left over are reported as removed, in their
// original order, after all generated steps.
func Diff(generated api.TestCase, existing api.ExistingTestCase) *api.TestCaseDiff {
	titlePct := Percent(StringSimilarity(generated.Title, existing.Title))
	diff := &api.TestCaseDiff{
		TitleChanged:    titlePct < TitleChangedThreshold,
		TitleSimilarity: titlePct,
		StepsDiff:       []api.StepDiff{},
	}

	matched := make([]bool, len(existing.Steps))
	for i := range generated.Steps {
		g := generated.Steps[i]

		bestIdx := -1
		bestScore := 0.0
		for j, e := range existing.Steps {
			if matched[j] {
				continue
			}
			if s := StepSimilarity(g, e); bestIdx < 0 || s > bestScore {
				bestIdx, bestScore = j, s
			}
		}

		if bestIdx < 0 || bestScore < StepMatchThreshold {
			diff.StepsAdded++
			diff.StepsDiff = append(diff.StepsDiff, api.StepDiff{
				Type:      api.StepAdded,
				Generated: &g,
			})
			continue
		}

		matched[bestIdx] = true
		e := existing.Steps[bestIdx]
		entry := api.StepDiff{
			Generated:  &g,
			Existing:   &e,
			Similarity: Percent(bestScore),
		}
		if bestScore >= StepUnchangedThreshold {
			entry.Type = api.StepUnchanged
			diff.StepsUnchanged++
		} else {
			entry.Type = api.StepModified
			diff.StepsModified++
		}
		diff.StepsDiff = append(diff.StepsDiff, entry)
	}

	for j := range existing.Steps {
		if matched[j] {
			continue
		}
		e := existing.Steps[j]
		diff.StepsRemoved++
		diff.StepsDiff = append(diff.StepsDiff, api.StepDiff{
			Type:     api.StepRemoved,
			Existing: &e,
		})
	}

	return diff
}
