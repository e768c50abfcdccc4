package cli

import (
	"qemcp/internal/config"

	"github.com/spf13/cobra"
)

// CommandFlags holds the flag values shared by every command that talks to a
// running qemcp server.
type CommandFlags struct {
	// OutputFormat specifies the desired output format (table, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Debug enables verbose logging of MCP notifications
	Debug bool
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
	// Endpoint overrides the server endpoint URL
	Endpoint string
}

// RegisterCommonFlags registers the output and connection flags on cmd:
//   - --output/-o: Output format (table, json, yaml), default: "table"
//   - --no-headers: Suppress header row in table output
//   - --quiet/-q: Suppress non-essential output
//   - --debug: Enable debug logging
//   - --config-path: Configuration directory
//   - --endpoint: qemcp server endpoint URL (env: QEMCP_ENDPOINT)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format (table, json, yaml)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.Endpoint, "endpoint", "", "qemcp server endpoint URL (env: "+EnvEndpoint+")")
}

// ToExecutorOptions converts CommandFlags to ExecutorOptions for use with NewToolExecutor.
func (f *CommandFlags) ToExecutorOptions() (ExecutorOptions, error) {
	if err := ValidateOutputFormat(f.OutputFormat); err != nil {
		return ExecutorOptions{}, err
	}

	return ExecutorOptions{
		Format:     OutputFormat(f.OutputFormat),
		NoHeaders:  f.NoHeaders,
		Quiet:      f.Quiet,
		Debug:      f.Debug,
		ConfigPath: f.ConfigPath,
		Endpoint:   f.Endpoint,
	}, nil
}
