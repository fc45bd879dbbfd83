package release

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying each failure kind reported to the pipeline.
// The typed errors below unwrap to them, so callers branch with errors.Is.
var (
	ErrInvalidVersionFormat  = errors.New("invalid version format")
	ErrCatalogUnavailable    = errors.New("release catalog unavailable")
	ErrNoStableVersionFound  = errors.New("no stable version found")
	ErrVersionNotFound       = errors.New("version not found")
	ErrToolAcquisitionFailed = errors.New("tool acquisition failed")
	ErrVersionFileMissing    = errors.New("version file missing")
)

// InvalidVersionFormatError reports a tag or spec that is not a semantic version.
type InvalidVersionFormatError struct {
	Version string
	Err     error
}

func (e *InvalidVersionFormatError) Error() string {
	return fmt.Sprintf("The version: %s can't be changed to SemVer notation", e.Version)
}

func (e *InvalidVersionFormatError) Unwrap() []error {
	return []error{ErrInvalidVersionFormat, e.Err}
}

// CatalogUnavailableError reports a failed or unusable release listing.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("unable to list %s releases: %v", ToolName, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() []error {
	return []error{ErrCatalogUnavailable, e.Err}
}

// NoStableVersionError reports that an alias could not be resolved to a stable release.
type NoStableVersionError struct {
	Alias    string
	Platform string
	Arch     string
}

func (e *NoStableVersionError) Error() string {
	return fmt.Sprintf("Unable to resolve a stable %s version for '%s' on platform %s and architecture %s.",
		ToolName, e.Alias, e.Platform, e.Arch)
}

func (e *NoStableVersionError) Unwrap() error {
	return ErrNoStableVersionFound
}

// VersionNotFoundError reports that no release satisfies the spec for the platform.
type VersionNotFoundError struct {
	Spec     string
	Platform string
	Arch     string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("Unable to find %s version '%s' for platform %s and architecture %s.",
		ToolName, e.Spec, e.Platform, e.Arch)
}

func (e *VersionNotFoundError) Unwrap() error {
	return ErrVersionNotFound
}

// AcquisitionError wraps a download, placement or cache commit failure.
type AcquisitionError struct {
	Version string
	Err     error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("Failed to download version %s: %v", e.Version, e.Err)
}

func (e *AcquisitionError) Unwrap() []error {
	return []error{ErrToolAcquisitionFailed, e.Err}
}

// VersionFileMissingError reports a version file path that does not exist.
type VersionFileMissingError struct {
	Path string
}

func (e *VersionFileMissingError) Error() string {
	return fmt.Sprintf("The specified %s version file at: %s does not exist", ToolName, e.Path)
}

func (e *VersionFileMissingError) Unwrap() error {
	return ErrVersionFileMissing
}
