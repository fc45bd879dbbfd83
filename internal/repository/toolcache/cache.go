package toolcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	goupdate "github.com/doitdistributed/go-update"

	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

const (
	markerSuffix = ".complete"
	lockSuffix   = ".lock"

	dirPermissions  os.FileMode = 0o755
	lockPermissions os.FileMode = 0o644
)

var (
	// ErrRootRequired is returned when the cache root is empty.
	ErrRootRequired = errors.New("tool cache root must be provided")

	errKeyRequired = errors.New("tool, version and arch must be provided")
)

// Repository stores tool installations keyed by tool, version and arch.
type Repository interface {
	Find(ctx context.Context, tool, versionSpec, arch string) (string, error)
	CacheDir(ctx context.Context, srcDir, tool, version, arch string) (string, error)
}

// FileRepository keeps the tool cache under a root directory.
type FileRepository struct {
	// root is the cache directory, e.g. RUNNER_TOOL_CACHE.
	root string
	// mu serializes commits within the process; the file lock covers other processes.
	mu sync.Mutex
}

// NewFileRepository creates a cache rooted at root.
func NewFileRepository(root string) (*FileRepository, error) {
	if root == "" {
		return nil, ErrRootRequired
	}

	return &FileRepository{root: filepath.Clean(root)}, nil
}

// Root returns the cache directory.
func (r *FileRepository) Root() string {
	return r.root
}

// Find returns the directory of a completed entry for tool and arch whose
// version satisfies versionSpec. An exact version is looked up directly;
// a range picks the highest cached version. A miss returns "" and no error.
func (r *FileRepository) Find(ctx context.Context, tool, versionSpec, arch string) (string, error) {
	if tool == "" || versionSpec == "" || arch == "" {
		return "", errKeyRequired
	}

	if exact, err := release.Normalize(versionSpec); err == nil && isExplicit(versionSpec) {
		dir := r.entryDir(tool, exact, arch)
		if r.isComplete(dir) {
			return dir, nil
		}

		return "", nil
	}

	constraint, err := release.ParseConstraint(versionSpec)
	if err != nil {
		logger.Debugf(ctx, "Tool cache lookup skipped for %q: %v", versionSpec, err)

		return "", nil
	}

	versions, err := r.Versions(tool, arch)
	if err != nil {
		return "", err
	}

	for _, v := range versions {
		if constraint.Check(semver.MustParse(v)) {
			return r.entryDir(tool, v, arch), nil
		}
	}

	return "", nil
}

// Versions lists completed versions of tool for arch, newest first.
func (r *FileRepository) Versions(tool, arch string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, tool))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read tool cache: %w", err)
	}

	parsed := make([]*semver.Version, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		v, parseErr := semver.StrictNewVersion(entry.Name())
		if parseErr != nil || !r.isComplete(r.entryDir(tool, entry.Name(), arch)) {
			continue
		}

		parsed = append(parsed, v)
	}

	sort.Sort(sort.Reverse(semver.Collection(parsed)))

	versions := make([]string, 0, len(parsed))
	for _, v := range parsed {
		versions = append(versions, v.String())
	}

	return versions, nil
}

// CacheDir copies the contents of srcDir into the entry for tool, version and
// arch and marks it complete. Any previous entry for the key is replaced.
func (r *FileRepository) CacheDir(ctx context.Context, srcDir, tool, version, arch string) (string, error) {
	if tool == "" || version == "" || arch == "" {
		return "", errKeyRequired
	}

	normalized, err := release.Normalize(version)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		return "", fmt.Errorf("stat source directory: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("source %s: %w", srcDir, fs.ErrInvalid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dest := r.entryDir(tool, normalized, arch)
	marker := dest + markerSuffix

	if err = os.MkdirAll(filepath.Dir(dest), dirPermissions); err != nil {
		return "", fmt.Errorf("create tool cache directory: %w", err)
	}

	lock, err := acquireFileLock(ctx, dest+lockSuffix)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = lock.release()
	}()

	logger.Debugf(ctx, "Caching %s@%s (%s) into %s", tool, normalized, arch, dest)

	if err = os.Remove(marker); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("remove marker: %w", err)
	}

	if err = os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("clear tool cache entry: %w", err)
	}

	if err = copyTree(srcDir, dest); err != nil {
		return "", err
	}

	if err = os.WriteFile(marker, nil, lockPermissions); err != nil {
		return "", fmt.Errorf("write marker: %w", err)
	}

	return dest, nil
}

func (r *FileRepository) entryDir(tool, version, arch string) string {
	return filepath.Join(r.root, tool, version, arch)
}

func (r *FileRepository) isComplete(dir string) bool {
	if _, err := os.Stat(dir + markerSuffix); err != nil {
		return false
	}

	info, err := os.Stat(dir)

	return err == nil && info.IsDir()
}

// isExplicit reports whether spec names one version rather than a range.
func isExplicit(spec string) bool {
	trimmed := strings.TrimPrefix(strings.TrimSpace(spec), "v")

	return strings.Count(trimmed, ".") >= 2 && !strings.ContainsAny(trimmed, "^~<>=*xX |,")
}

// copyTree places every regular file of src under dest, keeping modes.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, dirPermissions)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		return placeFile(path, target, info.Mode().Perm())
	})
}

// placeFile writes source to target atomically through go-update.
func placeFile(source, target string, mode os.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = in.Close()
	}()

	// go-update swaps files in place, so the target has to exist first.
	empty, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if err = empty.Close(); err != nil {
		return err
	}

	if err = goupdate.Apply(in, goupdate.Options{
		TargetPath: target,
		TargetMode: mode,
	}); err != nil {
		return fmt.Errorf("place %s: %w", target, err)
	}

	return nil
}
