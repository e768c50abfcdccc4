package cmd

import (
	"context"
	"fmt"

	"qemcp/internal/app"

	"github.com/spf13/cobra"
)

var (
	// serveDebug forces debug logging.
	serveDebug bool

	// serveWatchConfig reloads config.yaml when it changes.
	serveWatchConfig bool

	// serveConfigPath is the directory holding config.yaml.
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the qemcp MCP server",
	Long: `Starts the MCP server exposing the Azure DevOps test plan tools.

The server reads config.yaml from the configuration directory
(default ~/.config/qemcp). The Azure DevOps token is read from the
environment variable named by ado.auth.tokenEnv (default ADO_PAT).

Transports:
  streamable-http  (default) http://<host>:<port>/mcp
  sse              http://<host>:<port>/sse
  stdio            for assistants that launch qemcp as a subprocess

Use --watch-config to pick up changes to config.yaml without a restart.
Server settings (host, port, transport, tool prefix) still need one.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveWatchConfig, serveConfigPath, GetVersion())

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveWatchConfig, "watch-config", false, "Reload config.yaml when it changes")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Configuration directory (default ~/.config/qemcp)")
}
