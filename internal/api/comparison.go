package api

// ComparisonStatus classifies a generated test case against existing ones.
type ComparisonStatus string

const (
	StatusNew    ComparisonStatus = "NEW"
	StatusUpdate ComparisonStatus = "UPDATE"
	StatusExists ComparisonStatus = "EXISTS"
)

// StepDiffType is the kind of change a StepDiff describes.
type StepDiffType string

const (
	StepAdded     StepDiffType = "added"
	StepRemoved   StepDiffType = "removed"
	StepModified  StepDiffType = "modified"
	StepUnchanged StepDiffType = "unchanged"
)

// TestCaseComparison is the verdict for one generated test case.
// Existing is nil exactly when Status is StatusNew.
type TestCaseComparison struct {
	Generated  TestCase          `json:"generated"`
	Existing   *ExistingTestCase `json:"existing,omitempty"`
	Status     ComparisonStatus  `json:"status"`
	Similarity int               `json:"similarity"`
	Diff       *TestCaseDiff     `json:"diff,omitempty"`
}

// TestCaseDiff describes how a generated test case differs from its best
// existing match. StepsAdded + StepsRemoved + StepsModified + StepsUnchanged
// always equals len(StepsDiff).
type TestCaseDiff struct {
	TitleChanged    bool       `json:"titleChanged"`
	TitleSimilarity int        `json:"titleSimilarity"`
	StepsAdded      int        `json:"stepsAdded"`
	StepsRemoved    int        `json:"stepsRemoved"`
	StepsModified   int        `json:"stepsModified"`
	StepsUnchanged  int        `json:"stepsUnchanged"`
	StepsDiff       []StepDiff `json:"stepsDiff"`
}

// StepDiff is one entry of a step-level diff.
type StepDiff struct {
	Type       StepDiffType `json:"type"`
	Generated  *TestStep    `json:"generated,omitempty"`
	Existing   *TestStep    `json:"existing,omitempty"`
	Similarity int          `json:"similarity"`
}

// ComparisonSummary counts comparisons per status.
type ComparisonSummary struct {
	Total       int `json:"total"`
	NewCount    int `json:"newCount"`
	UpdateCount int `json:"updateCount"`
	ExistsCount int `json:"existsCount"`
}

// ComparisonResult is the outcome of comparing generated test cases with the
// test cases already linked to a requirement.
type ComparisonResult struct {
	RequirementID int                  `json:"requirementId"`
	Comparisons   []TestCaseComparison `json:"comparisons"`
	Summary       ComparisonSummary    `json:"summary"`
	ExistingCount int                  `json:"existingCount"`
}
