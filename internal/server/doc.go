// Package server exposes the registered tool providers as an MCP server.
//
// Every api.ToolProvider known to the api package contributes its tools.
// Tool names get the configured prefix ("qe_testplan_list_suites"), tool
// arguments are described to clients as JSON Schema built from the
// providers' api.ArgMetadata, and results that are not plain strings are
// returned as JSON text content.
//
// The server speaks one of three transports:
//
//   - streamable-http (default), served on /mcp
//   - sse, served on /sse with messages posted to /message
//   - stdio, reading requests from stdin and writing responses to stdout
//
// In read-only mode the tools that write to Azure DevOps are not exposed.
package server
