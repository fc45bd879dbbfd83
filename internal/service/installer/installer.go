package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alis-is/setup-eli/internal/domain/platform"
	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

const (
	// ExecutableMode is applied to the placed binary outside Windows.
	ExecutableMode os.FileMode = 0o755

	dirPermissions os.FileMode = 0o755

	stagingPattern = "setup-eli-"
)

// Installer acquires eli installations.
type Installer struct {
	resolver   Resolver
	cache      Cache
	downloader Downloader
	fs         FileSystem

	// goos is the raw host OS, e.g. linux or windows.
	goos string
	// tempDir hosts the per-run staging directories of Windows downloads.
	tempDir string
}

// Option configures an Installer.
type Option func(*Installer)

// WithFileSystem replaces the local filesystem.
func WithFileSystem(fs FileSystem) Option {
	return func(i *Installer) {
		if fs != nil {
			i.fs = fs
		}
	}
}

// WithPlatform overrides the host OS.
func WithPlatform(goos string) Option {
	return func(i *Installer) {
		if goos != "" {
			i.goos = goos
		}
	}
}

// WithTempDir sets the directory for Windows downloads.
func WithTempDir(dir string) Option {
	return func(i *Installer) {
		if dir != "" {
			i.tempDir = dir
		}
	}
}

// New creates an Installer.
func New(resolver Resolver, cache Cache, downloader Downloader, opts ...Option) *Installer {
	i := &Installer{
		resolver:   resolver,
		cache:      cache,
		downloader: downloader,
		fs:         OSFileSystem{},
		goos:       runtime.GOOS,
		tempDir:    ".",
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Acquire returns the directory holding the eli executable for spec and arch.
//
// An empty spec or "latest" resolves to the newest stable version first. A
// cache hit is returned without touching the network. Otherwise the matching
// artifact is downloaded, renamed to eli (keeping its extension), made
// executable and committed to the cache.
func (i *Installer) Acquire(ctx context.Context, spec, arch string) (string, error) {
	ctx = logger.WithName(ctx, "installer")

	if release.IsAlias(spec) {
		resolved, err := i.resolver.ResolveLatest(ctx, release.AliasLatest, i.goos, arch)
		if err != nil {
			return "", err
		}

		logger.Infof(ctx, "%s version resolved as %s", release.AliasLatest, resolved)

		if resolved == "" {
			return "", &release.NoStableVersionError{
				Alias:    release.AliasLatest,
				Platform: i.goos,
				Arch:     arch,
			}
		}

		spec = resolved
	}

	cached, err := i.cache.Find(ctx, release.ToolName, spec, arch)
	if err != nil {
		return "", fmt.Errorf("look up tool cache: %w", err)
	}

	if cached != "" {
		logger.Infof(ctx, "Found in cache @ %s", cached)

		return cached, nil
	}

	logger.Infof(ctx, "Attempting to download %s-%s...", spec, arch)

	match, err := i.resolver.FindMatch(ctx, spec, i.goos, arch)
	if err != nil {
		return "", err
	}

	if match == nil {
		return "", &release.VersionNotFoundError{Spec: spec, Platform: i.goos, Arch: arch}
	}

	logger.Info(ctx, "Install from dist")

	installed, err := i.install(ctx, match.DownloadInfo(), arch)
	if err != nil {
		return "", &release.AcquisitionError{Version: spec, Err: err}
	}

	return installed, nil
}

// install downloads info, places the executable and caches it.
func (i *Installer) install(ctx context.Context, info release.DownloadInfo, arch string) (string, error) {
	logger.Infof(ctx, "Acquiring %s from %s", info.ResolvedVersion, info.URL)

	windows := platform.IsWindows(i.goos)

	// Windows downloads keep the release file name so the extension survives.
	var dest string
	if windows {
		staging, err := i.fs.MkdirTemp(i.tempDir, stagingPattern)
		if err != nil {
			return "", fmt.Errorf("create staging directory in %s: %w", i.tempDir, err)
		}

		dest = filepath.Join(staging, info.Filename)
	}

	downloaded, err := i.downloader.Download(ctx, info.URL, dest)
	if err != nil {
		return "", err
	}

	binDir := filepath.Join(filepath.Dir(downloaded), release.ToolName)
	binPath := filepath.Join(binDir, platform.ExecutableName(release.ToolName, info.Filename))

	if err = i.fs.MkdirAll(binDir); err != nil {
		return "", fmt.Errorf("create %s: %w", binDir, err)
	}

	if err = i.fs.Rename(downloaded, binPath); err != nil {
		return "", fmt.Errorf("move %s: %w", downloaded, err)
	}

	if !windows {
		if err = i.fs.Chmod(binPath, ExecutableMode); err != nil {
			return "", fmt.Errorf("chmod %s: %w", binPath, err)
		}
	}

	logger.Infof(ctx, "Successfully downloaded %s to %s", release.ToolName, binPath)
	logger.Info(ctx, "Adding to the cache ...")

	cachedDir, err := i.cache.CacheDir(ctx, binDir, release.ToolName, info.ResolvedVersion, arch)
	if err != nil {
		return "", err
	}

	logger.Infof(ctx, "Successfully cached %s to %s", release.ToolName, cachedDir)

	return cachedDir, nil
}
