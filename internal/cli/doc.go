// Package cli implements the client side of the qemcp command line: it
// connects to a running qemcp server over MCP, calls its test plan tools and
// renders the results.
//
// # Core Components
//
// ToolExecutor owns the MCP client session. It resolves the server endpoint
// (flag, QEMCP_ENDPOINT, then the server section of config.yaml), shows a
// spinner while connecting and executing, and hands tool results to the
// Formatter.
//
// Formatter renders results as a table, JSON or YAML. Table output knows the
// shape of each test plan tool result: comparisons are shown with their
// status, similarity and step diff counts; suites, test cases and plans get
// compact column layouts.
//
// LoadTestCases reads generated test cases from a YAML or JSON file so they
// can be compared with or created in Azure DevOps.
//
// # Usage
//
//	executor, err := cli.NewToolExecutor(cli.ExecutorOptions{
//		Format:     cli.OutputFormatTable,
//		ConfigPath: configPath,
//	})
//	if err != nil {
//		return err
//	}
//	defer executor.Close()
//
//	if err := executor.Connect(ctx); err != nil {
//		return err
//	}
//	return executor.Execute(ctx, cli.ToolListSuites, map[string]interface{}{"testPlanId": 42})
package cli
