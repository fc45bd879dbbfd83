package installer

import (
	"context"
	"os"

	"github.com/alis-is/setup-eli/internal/domain/release"
)

// Cache is the tool cache.
type Cache interface {
	// Find returns the cached directory for the key or "" on a miss.
	Find(ctx context.Context, tool, versionSpec, arch string) (string, error)
	// CacheDir commits srcDir under the key and returns the cached directory.
	CacheDir(ctx context.Context, srcDir, tool, version, arch string) (string, error)
}

// Downloader fetches a URL to dest, or to a temporary file when dest is "".
type Downloader interface {
	Download(ctx context.Context, url, dest string) (string, error)
}

// FileSystem holds the filesystem primitives used to place the binary.
type FileSystem interface {
	MkdirTemp(dir, pattern string) (string, error)
	MkdirAll(path string) error
	Rename(from, to string) error
	Chmod(path string, mode os.FileMode) error
}

// Resolver selects releases from the catalog.
type Resolver interface {
	FindMatch(ctx context.Context, spec, goos, arch string) (*release.Match, error)
	ResolveLatest(ctx context.Context, alias, goos, arch string) (string, error)
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

// MkdirTemp creates a fresh directory under dir, creating dir when missing.
func (OSFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", err
	}

	return os.MkdirTemp(dir, pattern)
}

// MkdirAll creates path and its parents.
func (OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, dirPermissions)
}

// Rename moves from to to.
func (OSFileSystem) Rename(from, to string) error {
	return os.Rename(from, to)
}

// Chmod sets the mode of path.
func (OSFileSystem) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}
