package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type mapInputs map[string]string

func (m mapInputs) GetInput(name string) string {
	return m[name]
}

// TestLoadConfig verifies the layering of file, environment, inputs and flags.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("eli_version: \"0.28\"\narchitecture: x64\nlog_level: warn\n"), 0o600))

	env := map[string]string{
		"RUNNER_TOOL_CACHE": filepath.Join(dir, "toolcache"),
		"RUNNER_TEMP":       filepath.Join(dir, "temp"),
	}

	opts := &Options{ConfigPath: settings, Architecture: "arm64", VersionsManifest: "versions-manifest.json"}

	cfg, err := LoadConfig(opts, mapInputs{"eli-version": "0.29", "token": "ghs_abc"}, func(key string) string {
		return env[key]
	})
	require.NoError(t, err)
	require.Equal(t, "0.29", cfg.EliVersion)
	require.Equal(t, "arm64", cfg.Architecture)
	require.Equal(t, "ghs_abc", cfg.Token)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, env["RUNNER_TOOL_CACHE"], cfg.ToolCacheDir)
	require.Equal(t, env["RUNNER_TEMP"], cfg.TempDir)
	require.Equal(t, "https://api.github.com", cfg.APIURL)
	require.Equal(t, "versions-manifest.json", cfg.VersionsManifest)
}

// TestLoadConfig_InvalidFlag verifies flag values are validated.
func TestLoadConfig_InvalidFlag(t *testing.T) {
	t.Parallel()

	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("{}\n"), 0o600))

	_, err := LoadConfig(&Options{ConfigPath: settings, LogLevel: "chatty"}, mapInputs{}, func(string) string { return "" })
	require.Error(t, err)
}

// TestAPIHost verifies token scoping uses the API host name.
func TestAPIHost(t *testing.T) {
	t.Parallel()

	require.Equal(t, "api.github.com", apiHost("https://api.github.com"))
	require.Equal(t, "ghe.example.com", apiHost("https://ghe.example.com:8443/api/v3"))
}
