package resolver

import (
	"context"
	"strings"

	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

// CandidateFile is the part of an artifact the stable resolver inspects.
type CandidateFile struct {
	Filename string
	Arch     string
}

// StableCandidate is a release offered to ResolveStable.
type StableCandidate interface {
	CandidateVersion() string
	CandidateFiles() []CandidateFile
}

// ResolveStable returns the newest stable version among candidates that ship a
// file for arch whose name contains platform.
//
// Candidates must be ordered newest first. The result is pinned to the
// major.minor line of the first eligible candidate. It returns "" when no
// candidate is eligible, and an error when a candidate version cannot be normalized.
func ResolveStable(
	ctx context.Context,
	alias, arch, platform string,
	candidates []StableCandidate,
) (string, error) {
	eligible := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		normalized, err := release.Normalize(candidate.CandidateVersion())
		if err != nil {
			return "", err
		}

		if !shipsFile(candidate.CandidateFiles(), arch, platform) || release.IsPrerelease(normalized) {
			continue
		}

		eligible = append(eligible, normalized)
	}

	logger.Debugf(ctx, "versionSpec: %s, releases: %s", alias, strings.Join(eligible, ", "))

	if len(eligible) == 0 {
		return "", nil
	}

	line, err := release.MajorMinor(eligible[0])
	if err != nil {
		return "", err
	}

	for _, v := range eligible {
		if strings.HasPrefix(v, line+".") {
			return v, nil
		}
	}

	return "", nil
}

func shipsFile(files []CandidateFile, arch, platform string) bool {
	for _, file := range files {
		if file.Arch == arch && strings.Contains(file.Filename, platform) {
			return true
		}
	}

	return false
}

// entryCandidate adapts a catalog entry.
type entryCandidate struct {
	entry release.Entry
}

func (c entryCandidate) CandidateVersion() string {
	return c.entry.Version
}

func (c entryCandidate) CandidateFiles() []CandidateFile {
	files := make([]CandidateFile, 0, len(c.entry.Artifacts))
	for _, artifact := range c.entry.Artifacts {
		files = append(files, CandidateFile{Filename: artifact.Filename, Arch: artifact.Arch})
	}

	return files
}

// CatalogCandidates adapts catalog entries, keeping their order.
func CatalogCandidates(catalog release.Catalog) []StableCandidate {
	candidates := make([]StableCandidate, 0, len(catalog))
	for _, entry := range catalog {
		candidates = append(candidates, entryCandidate{entry: entry})
	}

	return candidates
}
