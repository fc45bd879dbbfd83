// Package catalog lists published eli releases.
//
// A Source returns raw releases (GitHubSource talks to the GitHub REST API).
// Fetcher turns them into a release.Catalog: tags normalized, releases older
// than the baseline dropped, newest first, each asset split into platform and
// architecture tokens.
package catalog
