// Package release holds the eli release data model shared by the catalog,
// the resolver and the installer: artifacts, catalog entries, match results,
// the semantic version normalizer and the error taxonomy reported to the
// pipeline.
package release
