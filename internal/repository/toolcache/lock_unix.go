//go:build unix

package toolcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

var (
	lockWaitTimeout = 2 * time.Minute
	lockPollEvery   = 100 * time.Millisecond
)

var errLockTimeout = errors.New("timed out waiting for tool cache lock")

// lockFile polls a non-blocking flock until it succeeds, ctx ends or the wait times out.
func lockFile(ctx context.Context, file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)

	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %s", errLockTimeout, lockWaitTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockPollEvery):
		}
	}
}

func unlockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_UN)
}
