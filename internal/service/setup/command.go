package setup

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

// versionCommandTimeout bounds the `eli -v` probe.
const versionCommandTimeout = 10 * time.Second

var (
	// ErrEliVersionNotFound is returned when `eli -v` output carries no version.
	ErrEliVersionNotFound = errors.New("Eli version not found") //nolint:staticcheck // Operator-facing message.

	eliVersionPattern = regexp.MustCompile(`eli (\d+\.\d+\.\d+)`)
)

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs name with args and a timeout.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, versionCommandTimeout)
	defer cancel()

	output, err := exec.CommandContext(cmdCtx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	return output, nil
}

// ParseEliVersion extracts the x.y.z version from `eli -v` output.
func ParseEliVersion(output string) (string, error) {
	match := eliVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return "", ErrEliVersionNotFound
	}

	return match[1], nil
}
