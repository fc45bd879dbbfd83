// Package version exposes build metadata for setup-eli.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. The helpers render them for the `version` subcommand and the
// User-Agent header sent to the release API.
package version
