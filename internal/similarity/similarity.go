// Package similarity scores how alike generated and existing test cases are
// and classifies generated test cases as NEW, UPDATE or EXISTS.
//
// Everything in this package is pure: no I/O, no logging, no shared state.
package similarity

import (
	"math"

	"qemcp/internal/api"
	qstrings "qemcp/pkg/strings"
)

// Weights of the overall test case score.
const (
	TitleWeight = 0.4
	StepsWeight = 0.6
)

// Classification thresholds, in percent.
const (
	// Below NewThreshold no existing test case is a plausible match.
	NewThreshold = 40

	// At or above ExistsThreshold the test case is considered present.
	ExistsThreshold = 90

	// Title similarity below this percentage marks the title as changed.
	TitleChangedThreshold = 95
)

// Step pairing thresholds used by Diff, as fractions.
const (
	StepMatchThreshold     = 0.5
	StepUnchangedThreshold = 0.95
)

// Words of at most this many runes are ignored when comparing text.
const minWordRunes = 2

// StringSimilarity returns the Jaccard index of the significant word sets
// of a and b, in [0, 1]. Either string being blank scores 0, which takes
// precedence over identical strings scoring 1.
func StringSimilarity(a, b string) float64 {
	if isBlank(a) || isBlank(b) {
		return 0
	}
	if a == b {
		return 1
	}

	setA := wordSet(a)
	setB := wordSet(b)

	union := len(setA)
	intersection := 0
	for w := range setB {
		if _, ok := setA[w]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// StepSimilarity averages the action and expected result similarity.
func StepSimilarity(a, b api.TestStep) float64 {
	return (StringSimilarity(a.Action, b.Action) + StringSimilarity(a.ExpectedResult, b.ExpectedResult)) / 2
}

// StepsSimilarity scores two step lists in [0, 1]. Every generated step is
// scored against its best existing step, the scores are averaged and the
// average is scaled by 0.7 + 0.3*min/max of the list lengths.
func StepsSimilarity(generated, existing []api.TestStep) float64 {
	if len(generated) == 0 && len(existing) == 0 {
		return 1
	}
	if len(generated) == 0 || len(existing) == 0 {
		return 0
	}

	var total float64
	for _, g := range generated {
		best := 0.0
		for _, e := range existing {
			if s := StepSimilarity(g, e); s > best {
				best = s
			}
		}
		total += best
	}
	avg := total / float64(len(generated))

	shorter, longer := len(generated), len(existing)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	penalty := 0.7 + 0.3*float64(shorter)/float64(longer)

	return avg * penalty
}

// TestCaseSimilarity returns the weighted title and steps similarity as a
// rounded percentage in [0, 100].
func TestCaseSimilarity(generated api.TestCase, existing api.ExistingTestCase) int {
	title := StringSimilarity(generated.Title, existing.Title)
	steps := StepsSimilarity(generated.Steps, existing.Steps)
	return Percent(TitleWeight*title + StepsWeight*steps)
}

// Classify maps a similarity percentage to a comparison status.
func Classify(similarity int) api.ComparisonStatus {
	switch {
	case similarity < NewThreshold:
		return api.StatusNew
	case similarity >= ExistsThreshold:
		return api.StatusExists
	default:
		return api.StatusUpdate
	}
}

// Percent converts a fraction to a rounded percentage.
func Percent(f float64) int {
	return int(math.Round(f * 100))
}

func isBlank(s string) bool {
	return qstrings.CollapseSpace(s) == ""
}

func wordSet(s string) map[string]struct{} {
	words := qstrings.Words(s, minWordRunes)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
