// Package installer acquires an eli installation for a version spec.
//
// Acquire resolves the "latest" alias, serves cache hits, and otherwise
// downloads the matching release artifact, places it as an executable named
// eli and commits it to the tool cache. Every collaborator is a port so the
// flow can run against fakes.
package installer
