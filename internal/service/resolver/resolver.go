package resolver

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/alis-is/setup-eli/internal/domain/platform"
	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

// Catalog lists the releases available for resolution.
type Catalog interface {
	ListReleases(ctx context.Context) (release.Catalog, error)
}

// Resolver resolves version specs against a release catalog.
type Resolver struct {
	catalog Catalog
	// manifestPath is an optional versions-manifest.json consulted by ResolveLatest.
	manifestPath string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithManifestFile resolves the latest alias from a local versions-manifest.json
// instead of the catalog. An empty path keeps the catalog.
func WithManifestFile(path string) Option {
	return func(r *Resolver) {
		r.manifestPath = path
	}
}

// New returns a Resolver reading from catalog.
func New(catalog Catalog, opts ...Option) *Resolver {
	r := &Resolver{catalog: catalog}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FindMatch returns the newest release satisfying spec that ships an artifact
// for goos/arch, narrowed to that artifact. It returns nil, nil when nothing matches.
func (r *Resolver) FindMatch(ctx context.Context, spec, goos, arch string) (*release.Match, error) {
	constraint, err := release.ParseConstraint(spec)
	if err != nil {
		return nil, err
	}

	catalog, err := r.catalog.ListReleases(ctx)
	if err != nil {
		return nil, err
	}

	platformToken := platform.OS(goos)
	archToken := platform.Arch(arch)

	for _, entry := range catalog {
		v, parseErr := semver.StrictNewVersion(entry.Version)
		if parseErr != nil {
			return nil, &release.InvalidVersionFormatError{Version: entry.Version, Err: parseErr}
		}

		logger.Debugf(ctx, "check %s satisfies %s", entry.Version, spec)

		if !constraint.Check(v) {
			continue
		}

		artifact, ok := entry.FindArtifact(platformToken, archToken)
		if !ok {
			continue
		}

		logger.Debugf(ctx, "matched %s", entry.Version)

		return &release.Match{
			Entry:   entry.Narrow(artifact),
			Version: entry.Version,
		}, nil
	}

	return nil, nil
}

// ResolveLatest resolves alias to the newest stable version for goos/arch.
// It returns "" when no stable release ships a matching artifact.
func (r *Resolver) ResolveLatest(ctx context.Context, alias, goos, arch string) (string, error) {
	if r.manifestPath != "" {
		manifest, err := LoadManifest(r.manifestPath)
		if err != nil {
			return "", err
		}

		logger.Debugf(ctx, "resolving %s from %s", alias, r.manifestPath)

		return ResolveStable(ctx, alias, platform.Arch(arch), platform.OS(goos), ManifestCandidates(manifest))
	}

	catalog, err := r.catalog.ListReleases(ctx)
	if err != nil {
		return "", err
	}

	return ResolveStable(ctx, alias, platform.Arch(arch), platform.OS(goos), CatalogCandidates(catalog))
}
