package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"qemcp/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultToolTimeout bounds a single tool call. Creating many test cases in
// a fresh plan can take a while.
const DefaultToolTimeout = 5 * time.Minute

// ExecutorOptions contains configuration options for tool execution.
type ExecutorOptions struct {
	// Format specifies the output format (table, json, yaml)
	Format OutputFormat
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Debug enables verbose logging of MCP notifications
	Debug bool
	// ConfigPath is the configuration directory used to find the server
	ConfigPath string
	// Endpoint overrides the server endpoint URL
	Endpoint string
	// Timeout bounds each tool call; zero means DefaultToolTimeout
	Timeout time.Duration
}

// ToolExecutor calls qemcp server tools and formats their results.
type ToolExecutor struct {
	client     *client.Client
	options    ExecutorOptions
	endpoint   string
	toolPrefix string
	formatter  *Formatter
	stderr     io.Writer
}

// NewToolExecutor creates an executor for the server found through options.
// The connection is established by Connect.
func NewToolExecutor(options ExecutorOptions) (*ToolExecutor, error) {
	t, err := resolveTarget(options.Endpoint, options.ConfigPath)
	if err != nil {
		return nil, err
	}

	mcpClient, err := client.NewStreamableHttpClient(t.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
	}

	return newToolExecutor(mcpClient, t, options, os.Stdout, os.Stderr), nil
}

func newToolExecutor(mcpClient *client.Client, t target, options ExecutorOptions, stdout, stderr io.Writer) *ToolExecutor {
	if options.Timeout == 0 {
		options.Timeout = DefaultToolTimeout
	}
	return &ToolExecutor{
		client:     mcpClient,
		options:    options,
		endpoint:   t.endpoint,
		toolPrefix: t.toolPrefix,
		formatter:  NewFormatter(options.Format, options.NoHeaders, stdout),
		stderr:     stderr,
	}
}

// Endpoint returns the server URL this executor talks to.
func (e *ToolExecutor) Endpoint() string {
	return e.endpoint
}

// ToolName returns the name the server exposes for a short tool name.
func (e *ToolExecutor) ToolName(tool string) string {
	if e.toolPrefix == "" {
		return tool
	}
	return e.toolPrefix + "_" + tool
}

func (e *ToolExecutor) startSpinner(suffix string) *spinner.Spinner {
	if e.options.Quiet {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(e.stderr))
	s.Suffix = suffix
	s.Start()
	return s
}

// Connect starts the MCP session and performs the initialize handshake.
func (e *ToolExecutor) Connect(ctx context.Context) error {
	s := e.startSpinner(" Connecting to qemcp server...")
	err := e.connect(ctx)
	if s != nil {
		if err != nil {
			s.FinalMSG = text.FgRed.Sprint("Failed to connect to qemcp server") + "\n"
		}
		s.Stop()
	}
	if err != nil {
		return ClassifyConnectionError(err, e.endpoint)
	}
	return nil
}

func (e *ToolExecutor) connect(ctx context.Context) error {
	if err := e.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}

	if e.options.Debug {
		e.client.OnNotification(func(notification mcp.JSONRPCNotification) {
			logging.Debug("CLI", "MCP notification: %s", notification.Method)
		})
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "qemcp-cli", Version: "1.0.0"}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	result, err := e.client.Initialize(initCtx, req)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	logging.Debug("CLI", "Connected to %s %s at %s", result.ServerInfo.Name, result.ServerInfo.Version, e.endpoint)
	return nil
}

// Close closes the MCP session.
func (e *ToolExecutor) Close() error {
	return e.client.Close()
}

// call runs a tool and returns its text result. Error results become a
// *ToolError.
func (e *ToolExecutor) call(ctx context.Context, tool string, args map[string]interface{}) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = e.ToolName(tool)
	req.Params.Arguments = args

	callCtx, cancel := context.WithTimeout(ctx, e.options.Timeout)
	defer cancel()

	s := e.startSpinner(" Executing " + tool + "...")
	result, err := e.client.CallTool(callCtx, req)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return "", fmt.Errorf("failed to execute tool %s: %w", req.Params.Name, err)
	}

	var texts []string
	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			texts = append(texts, textContent.Text)
		}
	}

	if result.IsError {
		if !e.options.Quiet {
			fmt.Fprintf(e.stderr, "%s\n", text.FgRed.Sprint("Command returned error"))
		}
		return "", &ToolError{Tool: req.Params.Name, Message: strings.Join(texts, "\n")}
	}
	if len(texts) == 0 {
		return "", nil
	}
	return texts[0], nil
}

// Execute runs a tool and prints its result in the configured format.
func (e *ToolExecutor) Execute(ctx context.Context, tool string, args map[string]interface{}) error {
	result, err := e.call(ctx, tool, args)
	if err != nil {
		return err
	}
	if result == "" {
		if !e.options.Quiet {
			fmt.Fprintln(e.formatter.out, "No results")
		}
		return nil
	}
	return e.formatter.Render(tool, result)
}

// ExecuteJSON runs a tool and decodes its JSON result into out.
func (e *ToolExecutor) ExecuteJSON(ctx context.Context, tool string, args map[string]interface{}, out interface{}) error {
	result, err := e.call(ctx, tool, args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(result), out); err != nil {
		return fmt.Errorf("failed to decode result of %s: %w", tool, err)
	}
	return nil
}

// GetOptions returns the executor options.
func (e *ToolExecutor) GetOptions() ExecutorOptions {
	return e.options
}
