package catalog

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

// Fetcher builds release catalogs from a Source.
type Fetcher struct {
	source   Source
	baseline *semver.Version
}

// NewFetcher returns a Fetcher reading from source.
func NewFetcher(source Source) *Fetcher {
	return &Fetcher{
		source:   source,
		baseline: semver.MustParse(release.BaselineVersion),
	}
}

type versionedEntry struct {
	entry   release.Entry
	version *semver.Version
}

// ListReleases returns releases at or above the baseline, newest first.
// Releases with equal versions keep their listing order.
// Source failures are reported as *release.CatalogUnavailableError.
func (f *Fetcher) ListReleases(ctx context.Context) (release.Catalog, error) {
	raw, err := f.source.ListReleases(ctx)
	if err != nil {
		return nil, &release.CatalogUnavailableError{Err: err}
	}

	kept := make([]versionedEntry, 0, len(raw))

	for _, r := range raw {
		normalized, normErr := release.Normalize(r.TagName)
		if normErr != nil {
			logger.Debugf(ctx, "Skipping release %q: %v", r.TagName, normErr)

			continue
		}

		v, parseErr := semver.StrictNewVersion(normalized)
		if parseErr != nil || v.LessThan(f.baseline) {
			continue
		}

		kept = append(kept, versionedEntry{
			entry: release.Entry{
				Tag:       r.TagName,
				Version:   normalized,
				Stable:    !r.Prerelease && !r.Draft,
				Artifacts: parseAssets(r.Assets),
			},
			version: v,
		})
	}

	slices.SortStableFunc(kept, func(a, b versionedEntry) int {
		return b.version.Compare(a.version)
	})

	catalog := make(release.Catalog, 0, len(kept))
	for _, k := range kept {
		catalog = append(catalog, k.entry)
	}

	logger.Debugf(ctx, "Catalog holds %d releases", len(catalog))

	return catalog, nil
}

func parseAssets(assets []RawAsset) []release.Artifact {
	artifacts := make([]release.Artifact, 0, len(assets))

	for _, asset := range assets {
		platform, arch := assetTokens(asset.Name)

		artifacts = append(artifacts, release.Artifact{
			Filename:    asset.Name,
			Platform:    platform,
			Arch:        arch,
			DownloadURL: asset.BrowserDownloadURL,
		})
	}

	return artifacts
}

// assetTokens extracts the platform and arch tokens from names like
// eli-linux-x86_64 or eli-windows-x86_64.exe. Missing tokens are empty.
func assetTokens(name string) (platform, arch string) {
	base := strings.TrimSuffix(name, path.Ext(name))
	tokens := strings.Split(base, "-")

	if len(tokens) > 1 {
		platform = tokens[1]
	}

	if len(tokens) > 2 {
		arch = tokens[2]
	}

	return platform, arch
}
