package resolver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ManifestFile is one file of a versions-manifest.json release.
type ManifestFile struct {
	Filename    string `json:"filename"`
	Arch        string `json:"arch"`
	Platform    string `json:"platform"`
	DownloadURL string `json:"download_url"`
}

// ManifestRelease is one release of a versions-manifest.json document, the
// format hosted tool caches publish.
type ManifestRelease struct {
	Version    string         `json:"version"`
	Stable     bool           `json:"stable"`
	ReleaseURL string         `json:"release_url"`
	Files      []ManifestFile `json:"files"`
}

// CandidateVersion implements StableCandidate.
func (m ManifestRelease) CandidateVersion() string {
	return m.Version
}

// CandidateFiles implements StableCandidate.
func (m ManifestRelease) CandidateFiles() []CandidateFile {
	files := make([]CandidateFile, 0, len(m.Files))
	for _, f := range m.Files {
		files = append(files, CandidateFile{Filename: f.Filename, Arch: f.Arch})
	}

	return files
}

// ReadManifest decodes a versions-manifest.json document.
func ReadManifest(r io.Reader) ([]ManifestRelease, error) {
	var manifest []ManifestRelease
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("decode versions manifest: %w", err)
	}

	return manifest, nil
}

// LoadManifest reads the versions-manifest.json document at path.
func LoadManifest(path string) ([]ManifestRelease, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open versions manifest: %w", err)
	}
	defer file.Close()

	return ReadManifest(file)
}

// ManifestCandidates adapts manifest releases, keeping their order.
func ManifestCandidates(manifest []ManifestRelease) []StableCandidate {
	candidates := make([]StableCandidate, 0, len(manifest))
	for _, m := range manifest {
		candidates = append(candidates, m)
	}

	return candidates
}
