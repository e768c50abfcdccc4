package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qemcp/internal/api"
)

var (
	stepOpen = api.TestStep{StepNumber: 1, Action: "Open the login page", ExpectedResult: "Login form is displayed"}
	stepCred = api.TestStep{StepNumber: 2, Action: "Enter valid username and password", ExpectedResult: "Credentials are accepted"}
	stepHelp = api.TestStep{StepNumber: 3, Action: "Click the help link", ExpectedResult: "Help page opens"}
)

func loginCase() api.TestCase {
	return api.TestCase{
		Title: "Verify login with valid credentials",
		Steps: []api.TestStep{
			{StepNumber: 1, Action: "Enter username and password", ExpectedResult: "Fields accept input"},
			{StepNumber: 2, Action: "Click login", ExpectedResult: "User redirected to dashboard"},
		},
	}
}

func TestCompare_ExistingLoginCase(t *testing.T) {
	generated := loginCase()
	existing := api.ExistingTestCase{ID: 2001, Title: generated.Title, Steps: generated.Steps}

	result := Compare(1001, []api.TestCase{generated}, []api.ExistingTestCase{existing})

	require.Len(t, result.Comparisons, 1)
	c := result.Comparisons[0]
	assert.Equal(t, api.StatusExists, c.Status)
	assert.GreaterOrEqual(t, c.Similarity, ExistsThreshold)
	require.NotNil(t, c.Existing)
	assert.Equal(t, 2001, c.Existing.ID)
	require.NotNil(t, c.Diff)
	assert.False(t, c.Diff.TitleChanged)
	assert.Equal(t, 0, c.Diff.StepsModified)
	assert.Equal(t, 2, c.Diff.StepsUnchanged)

	assert.Equal(t, api.ComparisonSummary{Total: 1, ExistsCount: 1}, result.Summary)
	assert.Equal(t, 1, result.ExistingCount)
	assert.Equal(t, 1001, result.RequirementID)
}

func TestCompare_UnrelatedCaseIsNew(t *testing.T) {
	generated := api.TestCase{
		Title: "Verify password reset email delivery",
		Steps: []api.TestStep{
			{StepNumber: 1, Action: "Request a password reset", ExpectedResult: "Reset email is sent"},
		},
	}
	existing := api.ExistingTestCase{
		ID:    3001,
		Title: "Configure SSO provider",
		Steps: []api.TestStep{
			{StepNumber: 1, Action: "Open admin settings", ExpectedResult: "SSO tab is visible"},
		},
	}

	result := Compare(1001, []api.TestCase{generated}, []api.ExistingTestCase{existing})

	require.Len(t, result.Comparisons, 1)
	c := result.Comparisons[0]
	assert.Equal(t, api.StatusNew, c.Status)
	assert.Less(t, c.Similarity, NewThreshold)
	assert.Nil(t, c.Existing)
	assert.Nil(t, c.Diff)
	assert.Equal(t, 1, result.Summary.NewCount)
}

func TestCompare_NoExistingCases(t *testing.T) {
	result := Compare(5, []api.TestCase{loginCase(), loginCase()}, nil)

	assert.Equal(t, api.ComparisonSummary{Total: 2, NewCount: 2}, result.Summary)
	assert.Equal(t, 0, result.ExistingCount)
	for _, c := range result.Comparisons {
		assert.Equal(t, api.StatusNew, c.Status)
		assert.Equal(t, 0, c.Similarity)
		assert.Nil(t, c.Existing)
	}
}

func TestCompare_UpdatePicksBestMatch(t *testing.T) {
	generated := api.TestCase{
		Title: "Verify login with valid credentials",
		Steps: []api.TestStep{
			stepOpen,
			{StepNumber: 2, Action: stepCred.Action, ExpectedResult: "Credentials are accepted quickly"},
		},
	}
	unrelated := api.ExistingTestCase{ID: 1, Title: "Export audit report", Steps: []api.TestStep{stepHelp}}
	nearMatch := api.ExistingTestCase{ID: 2, Title: "Verify login with valid password", Steps: []api.TestStep{stepOpen, stepCred}}

	result := Compare(9, []api.TestCase{generated}, []api.ExistingTestCase{unrelated, nearMatch})

	c := result.Comparisons[0]
	// title 4/6, steps (1 + 0.875)/2 -> 0.4*0.667 + 0.6*0.9375 = 0.829
	assert.Equal(t, 83, c.Similarity)
	assert.Equal(t, api.StatusUpdate, c.Status)
	require.NotNil(t, c.Existing)
	assert.Equal(t, 2, c.Existing.ID)
	assert.True(t, c.Diff.TitleChanged)
	assert.Equal(t, 67, c.Diff.TitleSimilarity)
	assert.Equal(t, 1, c.Diff.StepsUnchanged)
	assert.Equal(t, 1, c.Diff.StepsModified)
	assert.Equal(t, api.ComparisonSummary{Total: 1, UpdateCount: 1}, result.Summary)
}

func TestCompare_TieKeepsFirstExisting(t *testing.T) {
	generated := loginCase()
	a := api.ExistingTestCase{ID: 10, Title: generated.Title, Steps: generated.Steps}
	b := api.ExistingTestCase{ID: 11, Title: generated.Title, Steps: generated.Steps}

	result := Compare(1, []api.TestCase{generated}, []api.ExistingTestCase{a, b})
	assert.Equal(t, 10, result.Comparisons[0].Existing.ID)
}
