package viper

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewViperEnvKeyReplacer(t *testing.T) {
	t.Setenv("CASTLECTL_LOG_LEVEL", "debug")
	t.Setenv("CASTLECTL_ADMIN_BASE_URL", "http://admin.test/api")

	v := NewViper("nonexistent.yaml")

	require.Equal(t, "debug", v.GetString("log-level"))
	require.Equal(t, "http://admin.test/api", v.GetString("admin.base-url"))
}

func TestNewViperProfileEnvWithDashes(t *testing.T) {
	t.Setenv("CASTLECTL_STAGING_EU_ADMIN_TOKEN", "token-123")

	v := NewViper("nonexistent.yaml")
	v.Set("staging-eu", map[string]any{})

	profile := v.Sub("staging-eu")
	require.NotNil(t, profile)
	require.Equal(t, "token-123", profile.GetString("admin.token"))
}

func TestInitializeDefaultViperWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "castlectl", "config.yaml")

	v, err := InitializeDefaultViper(map[string]any{
		"default": map[string]any{"output": "text"},
	}, path)
	require.NoError(t, err)
	require.Equal(t, "text", v.GetString("default.output"))

	reloaded, err := NewViperE(path)
	require.NoError(t, err)
	require.Equal(t, "text", reloaded.GetString("default.output"))
}

func TestNewViperEMissingFile(t *testing.T) {
	_, err := NewViperE(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
