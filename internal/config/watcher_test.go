package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	t.Setenv(EnvOrganizationURL, "")
	t.Setenv(EnvProject, "")

	dir := t.TempDir()
	writeConfigFile(t, dir, "ado:\n  organizationUrl: https://dev.azure.com/acme\n  project: First\n")

	changes := make(chan Config, 4)
	w := NewWatcher(dir, 20*time.Millisecond, func(c Config) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	writeConfigFile(t, dir, "ado:\n  organizationUrl: https://dev.azure.com/acme\n  project: Second\n")

	select {
	case cfg := <-changes:
		assert.Equal(t, "Second", cfg.ADO.Project)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for configuration reload")
	}
}

func TestWatcher_IgnoresInvalidConfig(t *testing.T) {
	t.Setenv(EnvOrganizationURL, "")
	t.Setenv(EnvProject, "")

	dir := t.TempDir()
	changes := make(chan Config, 4)
	w := NewWatcher(dir, 20*time.Millisecond, func(c Config) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Missing project fails validation.
	writeConfigFile(t, dir, "ado:\n  organizationUrl: https://dev.azure.com/acme\n")

	select {
	case cfg := <-changes:
		t.Fatalf("unexpected reload: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(t.TempDir(), 0, nil)
	assert.Equal(t, DefaultDebounceInterval, w.debounceInterval)

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
