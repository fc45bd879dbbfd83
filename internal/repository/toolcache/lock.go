package toolcache

import (
	"context"
	"fmt"
	"os"
)

// fileLock is an exclusive advisory lock held on an open file.
type fileLock struct {
	file *os.File
}

// acquireFileLock opens or creates path and locks it exclusively.
func acquireFileLock(ctx context.Context, path string) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockPermissions)
	if err != nil {
		return nil, fmt.Errorf("open lock %s: %w", path, err)
	}

	if err = lockFile(ctx, file); err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	return &fileLock{file: file}, nil
}

func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}

	if err := unlockFile(l.file); err != nil {
		_ = l.file.Close()

		return err
	}

	return l.file.Close()
}
