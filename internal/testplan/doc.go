// Package testplan reconciles test plan hierarchies and compares generated
// test cases with the ones already linked to a requirement.
//
// The Service works against an api.Backend, a thin repository over the
// remote work-tracking system. Nothing is cached: every suite and plan
// lookup goes back to the backend, so a run that failed half way is picked
// up by the next call instead of being rolled back.
//
// # Reconciliation
//
// CreateTestCasesInPlan guarantees the path
//
//	plan root suite -> [feature suite] -> requirement suite
//
// exists, creates the test cases as work items and attaches them to the
// requirement suite. Suites are found before they are created, so repeated
// calls with the same story reuse the same suites.
//
// Finding and creating a suite is not atomic. Two concurrent calls for the
// same story can both miss the suite and both create it. SuiteGuard is the
// seam for serializing that step; KeyedSuiteGuard does it within one
// process.
//
// # Comparison
//
// CompareTestCases fetches the requirement's test cases and classifies each
// generated case with the similarity package.
//
// The Adapter registers the service with the api package and exposes it as
// MCP tools.
package testplan
