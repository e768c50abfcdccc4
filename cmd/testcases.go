package cmd

import (
	"fmt"

	"qemcp/internal/cli"

	"github.com/spf13/cobra"
)

var (
	testCasesFile string

	createStoryID      int
	createStoryTitle   string
	createFeatureID    int
	createFeatureTitle string
	createProject      string

	updateTitle     string
	updateStepsFile string
	updateProject   string
)

var compareCmd = &cobra.Command{
	Use:   "compare <requirement-id>",
	Short: "Compare generated test cases with the ones linked to a requirement",
	Long: `Compare generated test cases with the test cases already linked to a
requirement (user story) and classify each as NEW, UPDATE or EXISTS.

The test case file is YAML or JSON: either a list of test cases or a
document with a testCases list. Use "-" to read it from stdin.

Examples:
  qemcp compare 1001 -f generated.yaml
  generate-tests | qemcp compare 1001 -f - -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	requirementID, err := parseID("requirement id", args[0])
	if err != nil {
		return err
	}
	cases, err := cli.LoadTestCases(testCasesFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return runTool(cmd, cli.ToolCompareTestCases, map[string]interface{}{
		"requirementId": requirementID,
		"testCases":     cases,
	})
}

var createCmd = &cobra.Command{
	Use:   "create <test-plan-id>",
	Short: "Create test cases in a test plan under a story's requirement suite",
	Long: `Create test cases in a test plan. The requirement suite of the story is
reused when it exists anywhere in the plan and created otherwise. With
--feature and --feature-title the requirement suite is placed under the
feature's suite, which is created when missing.

Examples:
  qemcp create 42 --story 1001 --story-title "Login" -f generated.yaml
  qemcp create 42 --story 1001 --story-title "Login" --feature 900 --feature-title "Accounts" -f generated.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	planID, err := parseID("test plan id", args[0])
	if err != nil {
		return err
	}
	if (createFeatureID == 0) != (createFeatureTitle == "") {
		return fmt.Errorf("--feature and --feature-title must be given together")
	}
	cases, err := cli.LoadTestCases(testCasesFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	toolArgs := map[string]interface{}{
		"testPlanId": planID,
		"storyId":    createStoryID,
		"storyTitle": createStoryTitle,
		"testCases":  cases,
	}
	if createFeatureID != 0 {
		toolArgs["featureId"] = createFeatureID
		toolArgs["featureTitle"] = createFeatureTitle
	}
	if createProject != "" {
		toolArgs["project"] = createProject
	}
	return runTool(cmd, cli.ToolCreateTestCases, toolArgs)
}

var updateCmd = &cobra.Command{
	Use:   "update <test-case-id>",
	Short: "Replace the title and/or steps of a test case",
	Long: `Replace the title and/or the steps of an existing test case. The steps
file is a YAML or JSON list of steps with action and expectedResult; it
replaces all existing steps.

Examples:
  qemcp update 3001 --title "Login with SSO"
  qemcp update 3001 --steps-file steps.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	testCaseID, err := parseID("test case id", args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("title") && updateStepsFile == "" {
		return fmt.Errorf("nothing to update: set --title and/or --steps-file")
	}

	toolArgs := map[string]interface{}{"testCaseId": testCaseID}
	if cmd.Flags().Changed("title") {
		toolArgs["title"] = updateTitle
	}
	if updateStepsFile != "" {
		steps, err := cli.LoadSteps(updateStepsFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		toolArgs["steps"] = steps
	}
	if updateProject != "" {
		toolArgs["project"] = updateProject
	}
	return runTool(cmd, cli.ToolUpdateTestCase, toolArgs)
}

var testCasesCmd = &cobra.Command{
	Use:     "testcases <requirement-id>",
	Aliases: []string{"tc"},
	Short:   "List the test cases linked to a requirement",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requirementID, err := parseID("requirement id", args[0])
		if err != nil {
			return err
		}
		return runTool(cmd, cli.ToolGetTestCases, map[string]interface{}{"requirementId": requirementID})
	},
}

func init() {
	compareCmd.Flags().StringVarP(&testCasesFile, "file", "f", "", "YAML or JSON file with generated test cases (- for stdin)")
	_ = compareCmd.MarkFlagRequired("file")

	createCmd.Flags().StringVarP(&testCasesFile, "file", "f", "", "YAML or JSON file with the test cases to create (- for stdin)")
	createCmd.Flags().IntVar(&createStoryID, "story", 0, "Work item id of the story")
	createCmd.Flags().StringVar(&createStoryTitle, "story-title", "", "Title of the story")
	createCmd.Flags().IntVar(&createFeatureID, "feature", 0, "Work item id of the parent feature")
	createCmd.Flags().StringVar(&createFeatureTitle, "feature-title", "", "Title of the parent feature")
	createCmd.Flags().StringVar(&createProject, "project", "", "Project overriding the configured one")
	for _, name := range []string{"file", "story", "story-title"} {
		_ = createCmd.MarkFlagRequired(name)
	}

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVar(&updateStepsFile, "steps-file", "", "YAML or JSON file with the new steps (- for stdin)")
	updateCmd.Flags().StringVar(&updateProject, "project", "", "Project overriding the configured one")

	addClientCommand(compareCmd)
	addClientCommand(createCmd)
	addClientCommand(updateCmd)
	addClientCommand(testCasesCmd)
}
