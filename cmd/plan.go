package cmd

import (
	"qemcp/internal/cli"

	"github.com/spf13/cobra"
)

var (
	planAreaPath  string
	planIteration string
	planProject   string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Work with test plans",
}

var planCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a test plan",
	Long: `Create a test plan. Area and iteration path default to the ones
configured for the server.

Example:
  qemcp plan create "Sprint 12 regression" --iteration 'Shop\Sprint 12'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs := map[string]interface{}{"name": args[0]}
		if planAreaPath != "" {
			toolArgs["areaPath"] = planAreaPath
		}
		if planIteration != "" {
			toolArgs["iteration"] = planIteration
		}
		if planProject != "" {
			toolArgs["project"] = planProject
		}
		return runTool(cmd, cli.ToolCreatePlan, toolArgs)
	},
}

var planSuitesCmd = &cobra.Command{
	Use:   "suites <test-plan-id>",
	Short: "List the suites of a test plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parseID("test plan id", args[0])
		if err != nil {
			return err
		}
		toolArgs := map[string]interface{}{"testPlanId": planID}
		if planProject != "" {
			toolArgs["project"] = planProject
		}
		return runTool(cmd, cli.ToolListSuites, toolArgs)
	},
}

func init() {
	planCmd.PersistentFlags().StringVar(&planProject, "project", "", "Project overriding the configured one")
	planCreateCmd.Flags().StringVar(&planAreaPath, "area-path", "", "Area path of the plan")
	planCreateCmd.Flags().StringVar(&planIteration, "iteration", "", "Iteration path of the plan")

	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planSuitesCmd)
	addClientCommand(planCmd)
}
