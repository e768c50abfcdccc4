package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"qemcp/internal/api"
	"qemcp/internal/config"
)

const testTokenEnv = "QEMCP_TEST_PAT"

func validConfig() config.Config {
	cfg := config.GetDefaultConfig()
	cfg.ADO.OrganizationURL = "https://dev.azure.com/acme"
	cfg.ADO.Project = "Shop"
	cfg.ADO.Auth.TokenEnv = testTokenEnv
	return cfg
}

// writeConfig writes config.yaml into a new temporary directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

// isolate clears environment overrides and the API registry for a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvOrganizationURL, "")
	t.Setenv(config.EnvProject, "")
	t.Setenv(testTokenEnv, "secret")
	t.Cleanup(func() {
		api.RegisterTestPlan(nil)
		api.RegisterConfigHandler(nil)
	})
}
