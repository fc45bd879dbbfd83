package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOS verifies the platform mapping table and pass-through of unknown values.
func TestOS(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"darwin":  "macos",
		"freebsd": "freebsd",
		"linux":   "linux",
		"win32":   "windows",
		"windows": "windows",
		"plan9":   "plan9",
		"":        "",
	}
	for raw, want := range cases {
		require.Equal(t, want, OS(raw), raw)
	}
}

// TestArch verifies the architecture mapping table and pass-through of unknown values.
func TestArch(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"x64":     "x86_64",
		"amd64":   "x86_64",
		"arm64":   "aarch64",
		"riscv64": "riscv64",
		"x86_64":  "x86_64",
	}
	for raw, want := range cases {
		require.Equal(t, want, Arch(raw), raw)
	}
}

// TestExecutableHelpers checks extension handling for canonical executable names.
func TestExecutableHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, "eli.exe", ExecutableName("eli", "eli-windows-x86_64.exe"))
	require.Equal(t, "eli", ExecutableName("eli", "eli-linux-x86_64"))
	require.Equal(t, ".exe", ExecutableSuffix("windows"))
	require.Equal(t, ".exe", ExecutableSuffix("win32"))
	require.Empty(t, ExecutableSuffix("linux"))
	require.True(t, IsWindows("win32"))
	require.False(t, IsWindows("darwin"))
}
