package setup

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alis-is/setup-eli/internal/config"
	"github.com/alis-is/setup-eli/internal/domain/platform"
	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

// OutputEliVersion is the step output holding the installed version.
const OutputEliVersion = "eli-version"

// Acquirer installs eli and returns the install directory.
type Acquirer interface {
	Acquire(ctx context.Context, spec, arch string) (string, error)
}

// Pipeline is the runner surface the step reports to.
// *githubactions.Action implements it.
type Pipeline interface {
	AddPath(path string)
	SetOutput(name, value string)
	Warningf(msg string, args ...any)
}

// Step is one execution of the setup step.
type Step struct {
	cfg      *config.Config
	acquirer Acquirer
	pipeline Pipeline
	runner   CommandRunner
	// goos is the raw host OS, used to name the executable.
	goos string
	// goarch is the fallback when no architecture input is given.
	goarch string
}

// NewStep wires a Step. runner may be nil to use ExecRunner.
func NewStep(cfg *config.Config, acquirer Acquirer, pipeline Pipeline, runner CommandRunner) *Step {
	if runner == nil {
		runner = ExecRunner{}
	}

	goos, goarch := platform.Host()

	return &Step{
		cfg:      cfg,
		acquirer: acquirer,
		pipeline: pipeline,
		runner:   runner,
		goos:     goos,
		goarch:   goarch,
	}
}

// Execute acquires eli, exposes it and returns the version it reports.
func (s *Step) Execute(ctx context.Context) (string, error) {
	spec, err := s.versionSpec()
	if err != nil {
		return "", err
	}

	logger.Infof(ctx, "Setup eli version spec %s", spec)

	arch := s.cfg.Architecture
	if arch == "" {
		arch = s.goarch
	}

	installDir, err := s.acquirer.Acquire(ctx, spec, arch)
	if err != nil {
		return "", err
	}

	s.pipeline.AddPath(installDir)
	logger.Info(ctx, "Added eli to the path")

	executable := filepath.Join(installDir, release.ToolName+platform.ExecutableSuffix(s.goos))

	output, err := s.runner.Output(ctx, executable, "-v")
	if err != nil {
		return "", err
	}

	reported := strings.TrimSpace(string(output))
	if reported == "" {
		reported = spec
	}

	logger.Info(ctx, reported)

	version, err := ParseEliVersion(reported)
	if err != nil {
		return "", err
	}

	s.pipeline.SetOutput(OutputEliVersion, version)
	logger.Infof(ctx, "Successfully set up eli version %s", reported)

	return version, nil
}

// versionSpec picks the spec from the eli-version input, then the version
// file, and defaults to latest.
func (s *Step) versionSpec() (string, error) {
	version := s.cfg.EliVersion
	versionFile := s.cfg.EliVersionFile

	if version != "" && versionFile != "" {
		s.pipeline.Warningf("Both %s and %s inputs are specified, only %s will be used",
			config.InputEliVersion, config.InputEliVersionFile, config.InputEliVersion)
	}

	if version != "" {
		return version, nil
	}

	if versionFile != "" {
		fromFile, err := config.ReadVersionFile(versionFile)
		if err != nil {
			return "", err
		}

		version = fromFile
	}

	if version == "" {
		return release.AliasLatest, nil
	}

	return version, nil
}

