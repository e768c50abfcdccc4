// Package logging provides the structured logger used across qemcp.
//
// It is a thin layer over log/slog that tags every entry with a subsystem
// name so that output from the ADO client, the reconciler and the MCP server
// can be filtered independently.
//
// # Usage
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr)
//
//	logging.Info("Bootstrap", "Loaded configuration from %s", path)
//	logging.Debug("ADO", "GET %s", url)
//	logging.Warn("StepXML", "Step field did not contain any steps")
//	logging.Error("Reconcile", err, "Failed to create suite %s", name)
//
// # Subsystems
//
//   - Bootstrap: application initialization
//   - Config: configuration loading, validation and reloads
//   - ADO: Azure DevOps REST calls
//   - TestPlan: tool dispatch and service-level events
//   - Compare: test case comparison
//   - Reconcile: suite hierarchy reconciliation
//   - StepXML: step field parsing
//   - Server: MCP transport lifecycle
//   - CLI: command line client
//
// Before Init is called only warnings and errors are written (to stderr), so
// packages can be used as libraries without bootstrapping the logger.
//
// The logger is safe for concurrent use.
package logging
