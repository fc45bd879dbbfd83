// Package toolcache implements the on-disk tool cache.
//
// Entries live at <root>/<tool>/<version>/<arch>. An entry becomes visible
// only once its <arch>.complete marker exists, which is written after every
// file has been placed. Commits of the same key are serialized with an
// advisory file lock.
package toolcache
