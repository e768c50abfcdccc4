// Package app wires qemcp together and runs it.
//
// NewApplication performs the bootstrap sequence:
//
//  1. Load config.yaml from the configuration directory (defaults when it
//     does not exist) and apply environment overrides
//  2. Initialize logging from the logging section, or at debug level when
//     requested on the command line
//  3. Validate the configuration
//  4. Create the Azure DevOps client, the test plan service and the MCP
//     server, and register the API adapters
//
// Run starts the MCP server, optionally watches config.yaml for changes,
// and blocks until the context is cancelled, a termination signal arrives
// or the transport fails.
//
// Configuration reloads, whether triggered by the watcher or by the
// config_reload tool, rebuild the Azure DevOps client and swap it into the
// running service. Server settings only take effect after a restart.
package app
