package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alis-is/setup-eli/internal/domain/release"
)

type staticCatalog struct {
	catalog release.Catalog
	err     error
}

func (s staticCatalog) ListReleases(context.Context) (release.Catalog, error) {
	return s.catalog, s.err
}

func downloadURL(version, filename string) string {
	return "https://github.com/alis-is/eli/releases/download/" + version + "/" + filename
}

func entry(version string, stable bool, files ...string) release.Entry {
	e := release.Entry{Tag: version, Version: version, Stable: stable}

	for _, filename := range files {
		platformToken, archToken := "linux", "x86_64"

		switch filename {
		case "eli-windows-x86_64.exe":
			platformToken = "windows"
		case "eli-linux-aarch64":
			archToken = "aarch64"
		}

		e.Artifacts = append(e.Artifacts, release.Artifact{
			Filename:    filename,
			Platform:    platformToken,
			Arch:        archToken,
			DownloadURL: downloadURL(version, filename),
		})
	}

	return e
}

func fixtureCatalog() release.Catalog {
	return release.Catalog{
		entry("0.30.0-rc.1", false, "eli-linux-x86_64"),
		entry("0.29.2", true, "eli-linux-x86_64", "eli-windows-x86_64.exe"),
		entry("0.29.1", true, "eli-linux-x86_64", "eli-windows-x86_64.exe", "eli-linux-aarch64"),
		entry("0.29.0", true, "eli-linux-x86_64", "eli-windows-x86_64.exe"),
	}
}

// TestFindMatch verifies range semantics and exact platform matching.
func TestFindMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		spec         string
		goos         string
		arch         string
		wantVersion  string
		wantFilename string
	}{
		{name: "minor prefix", spec: "0.29", goos: "linux", arch: "x64", wantVersion: "0.29.2", wantFilename: "eli-linux-x86_64"},
		{name: "caret range", spec: "^0.29.0", goos: "linux", arch: "x64", wantVersion: "0.29.2", wantFilename: "eli-linux-x86_64"},
		{name: "major prefix on windows", spec: "0", goos: "windows", arch: "x64", wantVersion: "0.29.2", wantFilename: "eli-windows-x86_64.exe"},
		{name: "node style platform", spec: "0.29.0", goos: "win32", arch: "amd64", wantVersion: "0.29.0", wantFilename: "eli-windows-x86_64.exe"},
		{name: "exact pre-release", spec: "0.30.0-rc.1", goos: "linux", arch: "x64", wantVersion: "0.30.0-rc.1", wantFilename: "eli-linux-x86_64"},
		{name: "arch only in older release", spec: "0", goos: "linux", arch: "arm64", wantVersion: "0.29.1", wantFilename: "eli-linux-aarch64"},
	}

	resolver := New(staticCatalog{catalog: fixtureCatalog()})

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			match, err := resolver.FindMatch(context.Background(), tt.spec, tt.goos, tt.arch)
			require.NoError(t, err)
			require.NotNil(t, match)
			require.Equal(t, tt.wantVersion, match.Version)
			require.Len(t, match.Entry.Artifacts, 1)

			info := match.DownloadInfo()
			require.Equal(t, tt.wantFilename, info.Filename)
			require.Equal(t, downloadURL(tt.wantVersion, tt.wantFilename), info.URL)
			require.Equal(t, tt.wantVersion, info.ResolvedVersion)
		})
	}
}

// TestFindMatch_Deterministic verifies repeated lookups on the same catalog agree.
func TestFindMatch_Deterministic(t *testing.T) {
	t.Parallel()

	resolver := New(staticCatalog{catalog: fixtureCatalog()})

	for _, spec := range []string{"0", "0.29", "0.29.1", ">=0.29.0 <0.29.2"} {
		first, err := resolver.FindMatch(context.Background(), spec, "linux", "x64")
		require.NoError(t, err, spec)
		require.NotNil(t, first, spec)

		second, err := resolver.FindMatch(context.Background(), spec, "linux", "x64")
		require.NoError(t, err, spec)
		require.Equal(t, first, second, spec)
	}
}

// TestFindMatch_NoMatch verifies unknown versions and platforms yield no match without error.
func TestFindMatch_NoMatch(t *testing.T) {
	t.Parallel()

	resolver := New(staticCatalog{catalog: fixtureCatalog()})

	match, err := resolver.FindMatch(context.Background(), "9.99.9", "linux", "x64")
	require.NoError(t, err)
	require.Nil(t, match)

	match, err = resolver.FindMatch(context.Background(), "0.29", "darwin", "x64")
	require.NoError(t, err)
	require.Nil(t, match)
}

// TestFindMatch_FirstArtifactWins verifies duplicate artifacts resolve in scan order.
func TestFindMatch_FirstArtifactWins(t *testing.T) {
	t.Parallel()

	e := entry("0.29.2", true, "eli-linux-x86_64")
	e.Artifacts = append(e.Artifacts, release.Artifact{
		Filename:    "eli-linux-x86_64.zip",
		Platform:    "linux",
		Arch:        "x86_64",
		DownloadURL: downloadURL("0.29.2", "eli-linux-x86_64.zip"),
	})

	match, err := New(staticCatalog{catalog: release.Catalog{e}}).FindMatch(context.Background(), "0.29.2", "linux", "x64")
	require.NoError(t, err)
	require.Equal(t, "eli-linux-x86_64", match.Artifact().Filename)
}

// TestFindMatch_Errors verifies invalid specs and catalog failures are reported.
func TestFindMatch_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(staticCatalog{catalog: fixtureCatalog()}).FindMatch(context.Background(), "not a range !!", "linux", "x64")
	require.ErrorIs(t, err, release.ErrInvalidVersionFormat)

	unavailable := &release.CatalogUnavailableError{Err: errors.New("boom")}
	_, err = New(staticCatalog{err: unavailable}).FindMatch(context.Background(), "0.29", "linux", "x64")
	require.ErrorIs(t, err, release.ErrCatalogUnavailable)
}

// TestResolveLatest verifies the newest stable release wins over a newer pre-release line.
func TestResolveLatest(t *testing.T) {
	t.Parallel()

	resolver := New(staticCatalog{catalog: fixtureCatalog()})

	version, err := resolver.ResolveLatest(context.Background(), release.AliasLatest, "linux", "x64")
	require.NoError(t, err)
	require.Equal(t, "0.29.2", version)

	version, err = resolver.ResolveLatest(context.Background(), release.AliasLatest, "linux", "arm64")
	require.NoError(t, err)
	require.Equal(t, "0.29.1", version)

	version, err = resolver.ResolveLatest(context.Background(), release.AliasLatest, "darwin", "x64")
	require.NoError(t, err)
	require.Empty(t, version)
}

// TestResolveLatest_CatalogFailure verifies catalog errors propagate.
func TestResolveLatest_CatalogFailure(t *testing.T) {
	t.Parallel()

	unavailable := &release.CatalogUnavailableError{Err: errors.New("boom")}

	_, err := New(staticCatalog{err: unavailable}).ResolveLatest(context.Background(), release.AliasLatest, "linux", "x64")
	require.ErrorIs(t, err, release.ErrCatalogUnavailable)
}

// TestResolveLatest_ManifestFile verifies a configured manifest replaces the catalog.
func TestResolveLatest_ManifestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "versions-manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(manifestFixture), 0o600))

	unavailable := &release.CatalogUnavailableError{Err: errors.New("boom")}
	resolver := New(staticCatalog{err: unavailable}, WithManifestFile(path))

	version, err := resolver.ResolveLatest(context.Background(), release.AliasLatest, "linux", "x64")
	require.NoError(t, err)
	require.Equal(t, "0.29.4", version)

	_, err = New(staticCatalog{}, WithManifestFile(filepath.Join(t.TempDir(), "missing.json"))).
		ResolveLatest(context.Background(), release.AliasLatest, "linux", "x64")
	require.ErrorIs(t, err, os.ErrNotExist)
}
