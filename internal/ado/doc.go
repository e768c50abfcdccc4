// Package ado is the Azure DevOps REST client behind the test plan service.
//
// Client implements api.Backend over the work item tracking and test plan
// endpoints of one organization and project. Every request carries the
// configured api-version. Responses outside the 2xx range become
// *api.ServiceError values holding the upstream status and, when the body
// has one, the upstream message, so callers can surface them unchanged.
//
// Credentials are either a personal access token sent with HTTP basic
// auth, or a bearer token sent through golang.org/x/oauth2.
package ado
