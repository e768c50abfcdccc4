// Package api provides the central API layer for qemcp's Service Locator Pattern.
//
// This package is the single point of communication between the qemcp
// packages. It owns the shared domain types (work items, test plans, suites,
// test cases and comparison results), the handler interfaces that service
// packages implement, and the error taxonomy surfaced to callers.
//
// # Service Locator Pattern
//
//  1. **Handler Interfaces** - Contracts for each capability
//     (TestPlanHandler, ConfigHandler)
//
//  2. **Handler Registry** - Thread-safe registration and lookup through
//     Register* / Get* functions
//
//  3. **Adapter Pattern** - Service packages provide adapters that implement
//     the handler interfaces and register with the API layer during bootstrap
//
// The api package never imports the packages that implement its handlers,
// which keeps the dependency graph acyclic: internal/ado and internal/testplan
// import api, and internal/server discovers tools through the registry.
//
// # Tool Providers
//
// Handlers that also implement ToolProvider are exposed as MCP tools by the
// server. Each provider describes its tools with ToolMetadata / ArgMetadata
// and executes them through ExecuteTool, returning a CallToolResult.
//
// # Errors
//
// Failures that originate in the remote work-tracking system are reported as
// *ServiceError values carrying the upstream HTTP status code (500 when no
// status is known). WrapServiceError prefixes the failing operation name while
// keeping the upstream status:
//
//	suite, err := store.CreateTestSuite(ctx, planID, req)
//	if err != nil {
//	    return nil, api.WrapServiceError("create test suite", err)
//	}
//
// NotFoundError and ValidationError cover missing resources and bad input.
package api
