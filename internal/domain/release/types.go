package release

const (
	// ToolName is the cache key tool name and the canonical executable base name.
	ToolName = "eli"
	// Owner is the GitHub account publishing eli releases.
	Owner = "alis-is"
	// Repository is the GitHub repository publishing eli releases.
	Repository = "eli"
	// BaselineVersion is the oldest release the catalog keeps.
	BaselineVersion = "0.29.0"
	// AliasLatest resolves to the newest stable release line.
	AliasLatest = "latest"
)

// Artifact is one downloadable file of a release.
type Artifact struct {
	// Filename is the asset name, e.g. eli-linux-x86_64.
	Filename string
	// Platform is the platform token parsed from Filename.
	Platform string
	// Arch is the architecture token parsed from Filename.
	Arch string
	// DownloadURL is the browser download URL taken verbatim from the catalog.
	DownloadURL string
}

// Entry is one published release.
type Entry struct {
	// Tag is the raw release tag, e.g. v0.29.1.
	Tag string
	// Version is the normalized semantic version derived from Tag.
	Version string
	// Stable is false for pre-releases and drafts.
	Stable bool
	// Artifacts lists the release assets in manifest order.
	Artifacts []Artifact
}

// FindArtifact returns the first artifact matching the platform and arch tokens.
func (e Entry) FindArtifact(platform, arch string) (Artifact, bool) {
	for _, artifact := range e.Artifacts {
		if artifact.Arch == arch && artifact.Platform == platform {
			return artifact, true
		}
	}

	return Artifact{}, false
}

// Narrow returns a copy of the entry listing only the provided artifact.
func (e Entry) Narrow(artifact Artifact) Entry {
	narrowed := e
	narrowed.Artifacts = []Artifact{artifact}

	return narrowed
}

// Catalog is the filtered, newest-first list of releases for one resolution call.
type Catalog []Entry

// Match is a release narrowed to the single artifact for the target platform.
type Match struct {
	// Entry is the matched release with exactly one artifact.
	Entry Entry
	// Version is the resolved normalized version.
	Version string
}

// Artifact returns the single artifact of the match.
func (m *Match) Artifact() Artifact {
	return m.Entry.Artifacts[0]
}

// DownloadInfo derives the download descriptor from the match.
func (m *Match) DownloadInfo() DownloadInfo {
	artifact := m.Artifact()

	return DownloadInfo{
		URL:             artifact.DownloadURL,
		ResolvedVersion: m.Version,
		Filename:        artifact.Filename,
	}
}

// DownloadInfo describes what the installer downloads.
type DownloadInfo struct {
	URL             string
	ResolvedVersion string
	Filename        string
}

// IsAlias reports whether spec asks for the latest stable release.
// An empty spec is treated the same as "latest".
func IsAlias(spec string) bool {
	return spec == "" || spec == AliasLatest
}
