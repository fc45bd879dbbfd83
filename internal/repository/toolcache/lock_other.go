//go:build !unix

package toolcache

import (
	"context"
	"os"
)

// lockFile is a no-op where flock is unavailable; the in-process mutex still applies.
func lockFile(context.Context, *os.File) error {
	return nil
}

func unlockFile(*os.File) error {
	return nil
}
