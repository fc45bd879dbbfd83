// Package resolver selects the eli release to install.
//
// FindMatch picks the newest catalog release satisfying a version range that
// ships an artifact for the target platform. ResolveLatest turns the "latest"
// alias into a concrete version pinned to the newest stable release line.
package resolver
