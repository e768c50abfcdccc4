package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"qemcp/internal/cli"
	"qemcp/pkg/logging"

	"github.com/spf13/cobra"
)

// clientFlags are shared by every command that calls a running server.
var clientFlags cli.CommandFlags

// executeTool connects to the server and runs one tool. Tests replace it.
var executeTool = func(ctx context.Context, options cli.ExecutorOptions, tool string, args map[string]interface{}) error {
	executor, err := cli.NewToolExecutor(options)
	if err != nil {
		return err
	}
	defer executor.Close()

	if err := executor.Connect(ctx); err != nil {
		return err
	}
	return executor.Execute(ctx, tool, args)
}

func runTool(cmd *cobra.Command, tool string, args map[string]interface{}) error {
	options, err := clientFlags.ToExecutorOptions()
	if err != nil {
		return err
	}
	if options.Debug {
		logging.InitForCLI(logging.LevelDebug, os.Stderr)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return executeTool(ctx, options, tool, args)
}

// addClientCommand registers cmd on the root command with the client flags.
func addClientCommand(cmd *cobra.Command) {
	cli.RegisterCommonFlags(cmd, &clientFlags)
	rootCmd.AddCommand(cmd)
}

// parseID parses a positive work item, plan or suite id argument.
func parseID(name, value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, value)
	}
	return id, nil
}
