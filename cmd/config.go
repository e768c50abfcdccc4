package cmd

import (
	"qemcp/internal/cli"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or reload the configuration of a running server",
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the configuration the server is running with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, cli.ToolConfigGet, map[string]interface{}{})
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "reload",
		Short: "Make the server re-read config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, cli.ToolConfigReload, map[string]interface{}{})
		},
	})
	addClientCommand(configCmd)
}
