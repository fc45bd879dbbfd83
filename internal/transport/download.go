package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// downloadDirPattern names the per-download temporary directories.
	downloadDirPattern = "setup-eli-*"
	// downloadFilename is the file name used inside a temporary directory.
	downloadFilename = "download"
)

// Download fetches rawURL into dest and returns the written path.
// An empty dest writes into a fresh directory under the client temp directory.
// A failed download leaves no file behind.
func (c *Client) Download(ctx context.Context, rawURL, dest string) (string, error) {
	resp, err := c.Get(ctx, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	file, err := createTarget(c.tempDir, dest)
	if err != nil {
		return "", err
	}

	path := file.Name()

	if _, err = io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(path)

		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if err = file.Close(); err != nil {
		_ = os.Remove(path)

		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}

func createTarget(tempDir, dest string) (*os.File, error) {
	if dest == "" {
		dir, err := os.MkdirTemp(tempDir, downloadDirPattern)
		if err != nil {
			return nil, fmt.Errorf("create temporary directory: %w", err)
		}

		dest = filepath.Join(dir, downloadFilename)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("create directory for %s: %w", dest, err)
	}

	file, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dest, err)
	}

	return file, nil
}
