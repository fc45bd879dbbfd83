package catalog

import "context"

// RawAsset is one release asset as published.
type RawAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// RawRelease is one release as published.
type RawRelease struct {
	TagName    string     `json:"tag_name"`
	Prerelease bool       `json:"prerelease"`
	Draft      bool       `json:"draft"`
	Assets     []RawAsset `json:"assets"`
}

// Source lists raw releases of the eli repository.
type Source interface {
	ListReleases(ctx context.Context) ([]RawRelease, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]RawRelease, error)

// ListReleases calls f.
func (f SourceFunc) ListReleases(ctx context.Context) ([]RawRelease, error) {
	return f(ctx)
}
