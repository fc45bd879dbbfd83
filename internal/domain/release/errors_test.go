package release

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errTestCause = errors.New("unhandled download message")

// TestErrorMessages pins the operator-facing messages and their sentinels.
func TestErrorMessages(t *testing.T) {
	t.Parallel()

	notFound := &VersionNotFoundError{Spec: "9.99.9", Platform: "linux", Arch: "x64"}
	require.Equal(t, "Unable to find eli version '9.99.9' for platform linux and architecture x64.", notFound.Error())
	require.ErrorIs(t, notFound, ErrVersionNotFound)

	missing := &VersionFileMissingError{Path: ".eli-version"}
	require.Equal(t, "The specified eli version file at: .eli-version does not exist", missing.Error())
	require.ErrorIs(t, missing, ErrVersionFileMissing)

	acquisition := &AcquisitionError{Version: "0.29.0", Err: errTestCause}
	require.Equal(t, "Failed to download version 0.29.0: unhandled download message", acquisition.Error())
	require.ErrorIs(t, acquisition, ErrToolAcquisitionFailed)
	require.ErrorIs(t, acquisition, errTestCause)

	catalog := &CatalogUnavailableError{Err: errTestCause}
	require.ErrorIs(t, catalog, ErrCatalogUnavailable)
	require.ErrorIs(t, catalog, errTestCause)

	stable := &NoStableVersionError{Alias: "latest", Platform: "linux", Arch: "x64"}
	require.ErrorIs(t, stable, ErrNoStableVersionFound)
	require.Contains(t, stable.Error(), "latest")
}
