package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// osTokens maps raw OS identifiers to release platform tokens.
// Both Go (GOOS) and Node-style (win32) names are accepted because the
// architecture input of the pipeline step uses the runner's vocabulary.
//
//nolint:gochecknoglobals // Read-only lookup table.
var osTokens = map[string]string{
	"darwin":  "macos",
	"freebsd": "freebsd",
	"linux":   "linux",
	"win32":   "windows",
	"windows": "windows",
}

// archTokens maps raw architecture identifiers to release arch tokens.
// Release assets use aarch64, riscv64 and x86_64.
//
//nolint:gochecknoglobals // Read-only lookup table.
var archTokens = map[string]string{
	"x64":   "x86_64",
	"amd64": "x86_64",
	"arm64": "aarch64",
}

// OS returns the release platform token for raw. Unknown values pass through.
func OS(raw string) string {
	if token, ok := osTokens[raw]; ok {
		return token
	}

	return raw
}

// Arch returns the release architecture token for raw. Unknown values pass through.
func Arch(raw string) string {
	if token, ok := archTokens[raw]; ok {
		return token
	}

	return raw
}

// Host returns the raw OS and architecture of the running process.
func Host() (goos, goarch string) {
	return runtime.GOOS, runtime.GOARCH
}

// IsWindows reports whether raw names the Windows family.
func IsWindows(raw string) bool {
	return OS(raw) == "windows"
}

// ExecutableName returns base with the extension of filename appended, if any.
func ExecutableName(base, filename string) string {
	return base + filepath.Ext(filename)
}

// ExecutableSuffix returns ".exe" on Windows hosts and "" elsewhere.
func ExecutableSuffix(goos string) string {
	if IsWindows(strings.ToLower(goos)) {
		return ".exe"
	}

	return ""
}
