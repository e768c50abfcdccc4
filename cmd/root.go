package cmd

import (
	"errors"
	"os"

	"qemcp/internal/cli"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeUnavailable indicates the qemcp server could not be reached.
	ExitCodeUnavailable = 2
	// ExitCodeToolFailed indicates the server rejected or failed the tool call.
	ExitCodeToolFailed = 3
)

// rootCmd represents the base command for the qemcp application.
var rootCmd = &cobra.Command{
	Use:   "qemcp",
	Short: "Keep Azure DevOps test plans in step with generated test cases",
	Long: `qemcp serves Azure DevOps test plan tools over MCP so assistants can
compare generated test cases with the ones linked to a story and create them
under the right feature and requirement suites.

The same tools are available from the command line against a running server.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "qemcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps errors to exit codes for scripting.
func getExitCode(err error) int {
	var connErr *cli.ConnectionError
	if errors.As(err, &connErr) {
		return ExitCodeUnavailable
	}

	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return ExitCodeToolFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
