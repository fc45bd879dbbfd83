package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alis-is/setup-eli/internal/config"
	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

type fakeAcquirer struct {
	dir  string
	err  error
	spec string
	arch string
}

func (f *fakeAcquirer) Acquire(_ context.Context, spec, arch string) (string, error) {
	f.spec, f.arch = spec, arch

	return f.dir, f.err
}

type fakePipeline struct {
	paths    []string
	outputs  map[string]string
	warnings []string
}

func (f *fakePipeline) AddPath(path string) {
	f.paths = append(f.paths, path)
}

func (f *fakePipeline) SetOutput(name, value string) {
	if f.outputs == nil {
		f.outputs = make(map[string]string)
	}

	f.outputs[name] = value
}

func (f *fakePipeline) Warningf(msg string, args ...any) {
	f.warnings = append(f.warnings, fmt.Sprintf(msg, args...))
}

type fakeRunner struct {
	output  string
	err     error
	command []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.command = append([]string{name}, args...)

	return []byte(f.output), f.err
}

func newStep(cfg *config.Config, acquirer Acquirer, pipeline Pipeline, runner CommandRunner) *Step {
	step := NewStep(cfg, acquirer, pipeline, runner)
	step.goos = "linux"
	step.goarch = "amd64"

	return step
}

// TestParseEliVersion verifies version extraction from `eli -v` output.
func TestParseEliVersion(t *testing.T) {
	t.Parallel()

	output := "Lua 5.4.4  Copyright (C) 1994-2022 Lua.org, PUC-Rio\neli 0.29.1  Copyright (C) 2019-2023 alis.is"

	version, err := ParseEliVersion(output)
	require.NoError(t, err)
	require.Equal(t, "0.29.1", version)

	_, err = ParseEliVersion("Lua 5.4.4")
	require.ErrorIs(t, err, ErrEliVersionNotFound)
	require.EqualError(t, err, "Eli version not found")
}

// TestStep_Execute verifies the happy path: acquire, add to path, probe and publish.
func TestStep_Execute(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).Sugar())

	installDir := filepath.Join("/cache", "eli", "0.29.0", "x64")
	acquirer := &fakeAcquirer{dir: installDir}
	pipeline := &fakePipeline{}
	runner := &fakeRunner{output: "eli 0.29.0  Copyright (C) 2019-2023 alis.is\n"}

	cfg := &config.Config{EliVersion: "0.29.0", Architecture: "x64"}

	version, err := newStep(cfg, acquirer, pipeline, runner).Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, "0.29.0", version)

	require.Equal(t, "0.29.0", acquirer.spec)
	require.Equal(t, "x64", acquirer.arch)
	require.Equal(t, []string{installDir}, pipeline.paths)
	require.Equal(t, map[string]string{OutputEliVersion: "0.29.0"}, pipeline.outputs)
	require.Equal(t, []string{filepath.Join(installDir, "eli"), "-v"}, runner.command)
	require.Empty(t, pipeline.warnings)

	for _, message := range []string{
		"Setup eli version spec 0.29.0",
		"Added eli to the path",
		"Successfully set up eli version eli 0.29.0  Copyright (C) 2019-2023 alis.is",
	} {
		require.Equal(t, 1, logs.FilterMessage(message).Len(), message)
	}
}

// TestStep_DefaultsToLatestAndHostArch verifies empty inputs resolve to latest on the host arch.
func TestStep_DefaultsToLatestAndHostArch(t *testing.T) {
	t.Parallel()

	acquirer := &fakeAcquirer{dir: "/cache/eli/0.29.2/amd64"}

	_, err := newStep(&config.Config{}, acquirer, &fakePipeline{}, &fakeRunner{output: "eli 0.29.2"}).
		Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, release.AliasLatest, acquirer.spec)
	require.Equal(t, "amd64", acquirer.arch)
}

// TestStep_VersionFile verifies the version file is read and the input wins when both are set.
func TestStep_VersionFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".eli-version")
	require.NoError(t, os.WriteFile(path, []byte("0.29.1\n"), 0o600))

	acquirer := &fakeAcquirer{dir: "/cache"}

	_, err := newStep(&config.Config{EliVersionFile: path}, acquirer, &fakePipeline{}, &fakeRunner{output: "eli 0.29.1"}).
		Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.29.1", acquirer.spec)

	pipeline := &fakePipeline{}

	_, err = newStep(&config.Config{EliVersion: "0.29.2", EliVersionFile: path}, acquirer, pipeline, &fakeRunner{output: "eli 0.29.2"}).
		Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.29.2", acquirer.spec)
	require.Equal(t, []string{
		"Both eli-version and eli-version-file inputs are specified, only eli-version will be used",
	}, pipeline.warnings)
}

// TestStep_MissingVersionFile verifies the missing file error stops the step before acquisition.
func TestStep_MissingVersionFile(t *testing.T) {
	t.Parallel()

	acquirer := &fakeAcquirer{}

	_, err := newStep(&config.Config{EliVersionFile: ".eli-version"}, acquirer, &fakePipeline{}, &fakeRunner{}).
		Execute(context.Background())
	require.ErrorIs(t, err, release.ErrVersionFileMissing)
	require.EqualError(t, err, "The specified eli version file at: .eli-version does not exist")
	require.Empty(t, acquirer.spec)
}

// TestStep_Failures verifies acquisition and probe errors propagate without publishing outputs.
func TestStep_Failures(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	notFound := &release.VersionNotFoundError{Spec: "9.99.9", Platform: "linux", Arch: "x64"}

	_, err := newStep(&config.Config{EliVersion: "9.99.9"}, &fakeAcquirer{err: notFound}, pipeline, &fakeRunner{}).
		Execute(context.Background())
	require.ErrorIs(t, err, release.ErrVersionNotFound)
	require.Empty(t, pipeline.paths)

	probeErr := errors.New("exec format error")

	_, err = newStep(&config.Config{EliVersion: "0.29.0"}, &fakeAcquirer{dir: "/cache"}, pipeline, &fakeRunner{err: probeErr}).
		Execute(context.Background())
	require.ErrorIs(t, err, probeErr)
	require.Empty(t, pipeline.outputs)

	_, err = newStep(&config.Config{EliVersion: "0.29.0"}, &fakeAcquirer{dir: "/cache"}, pipeline, &fakeRunner{output: "Lua 5.4"}).
		Execute(context.Background())
	require.ErrorIs(t, err, ErrEliVersionNotFound)
	require.Empty(t, pipeline.outputs)
}
