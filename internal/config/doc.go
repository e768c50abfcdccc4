// Package config loads and validates the qemcp configuration.
//
// Configuration is read from a single directory (default ~/.config/qemcp)
// containing config.yaml. A missing file is not an error: defaults are used.
// A couple of environment variables override the file:
//
//	QEMCP_ADO_ORG_URL   ado.organizationUrl
//	QEMCP_ADO_PROJECT   ado.project
//
// Secrets are never stored in the file. ado.auth.tokenEnv names the
// environment variable holding the personal access token or bearer token.
//
// Example config.yaml:
//
//	ado:
//	  organizationUrl: https://dev.azure.com/acme
//	  project: Shop
//	  auth:
//	    type: pat
//	    tokenEnv: ADO_PAT
//	server:
//	  port: 8095
//	reconcile:
//	  parallelism: 4
//	  suiteNames:
//	    requirement: "{{ .ID }}: {{ .Title | trunc 120 }}"
//
// Watcher re-reads the file on change so a running server can pick up new
// connection settings without a restart.
package config
