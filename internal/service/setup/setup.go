package setup

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/sethvargo/go-githubactions"

	"github.com/alis-is/setup-eli/internal/catalog"
	"github.com/alis-is/setup-eli/internal/config"
	"github.com/alis-is/setup-eli/internal/logger"
	"github.com/alis-is/setup-eli/internal/repository/toolcache"
	"github.com/alis-is/setup-eli/internal/service/installer"
	"github.com/alis-is/setup-eli/internal/service/resolver"
	"github.com/alis-is/setup-eli/internal/transport"
)

// Options are inputs accepted by the setup entry point.
// Non-empty flag values override settings and step inputs.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// EliVersion is the version spec flag.
	EliVersion string
	// EliVersionFile is the version file flag.
	EliVersionFile string
	// Architecture is the target architecture flag.
	Architecture string
	// Token is the GitHub token flag.
	Token string
	// LogLevel is the log level flag.
	LogLevel string
	// VersionsManifest is the versions manifest flag.
	VersionsManifest string

	// Getenv reads the environment; nil means os.Getenv.
	Getenv func(string) string
	// Stdout receives workflow commands; nil means os.Stdout.
	Stdout io.Writer
	// Runner runs `eli -v`; nil means ExecRunner.
	Runner CommandRunner
}

// Run executes the setup step and is the public entry point for the CLI.
// Failures are also reported to the pipeline as an error annotation.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "setup-eli")

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	action := githubactions.New(
		githubactions.WithGetenv(getenv),
		githubactions.WithWriter(stdout),
	)

	if err := run(ctx, opts, action, getenv); err != nil {
		logger.ErrorKV(ctx, "Setup failed", "error", err)
		action.Errorf("%s", err.Error())

		return err
	}

	return nil
}

func run(ctx context.Context, opts *Options, action *githubactions.Action, getenv func(string) string) error {
	cfg, err := LoadConfig(opts, action, getenv)
	if err != nil {
		return err
	}

	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(logger.LevelFromEnvironment(getenv, level))

	client := transport.New(
		transport.WithTimeout(cfg.Timeout),
		transport.WithTempDir(cfg.TempDir),
		transport.WithAuthFunc(transport.BearerToken(cfg.Token, apiHost(cfg.APIURL))),
	)
	defer client.Close()

	source, err := catalog.NewGitHubSource(client, cfg.APIURL, cfg.Owner, cfg.Repository)
	if err != nil {
		return err
	}

	cache, err := toolcache.NewFileRepository(cfg.ToolCacheDir)
	if err != nil {
		return err
	}

	acquirer := installer.New(
		resolver.New(catalog.NewFetcher(source), resolver.WithManifestFile(cfg.VersionsManifest)),
		cache,
		client,
		installer.WithTempDir(cfg.TempDir),
	)

	_, err = NewStep(cfg, acquirer, action, opts.Runner).Execute(ctx)

	return err
}

// LoadConfig layers the settings file, the runner environment, the step inputs and the flags.
func LoadConfig(opts *Options, inputs config.Inputs, getenv func(string) string) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if err = cfg.ApplyEnvironment(getenv); err != nil {
		return nil, err
	}

	cfg.ApplyInputs(inputs)

	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}

	override(&cfg.EliVersion, opts.EliVersion)
	override(&cfg.EliVersionFile, opts.EliVersionFile)
	override(&cfg.Architecture, opts.Architecture)
	override(&cfg.Token, opts.Token)
	override(&cfg.LogLevel, opts.LogLevel)
	override(&cfg.VersionsManifest, opts.VersionsManifest)

	if err = config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return cfg, nil
}

func apiHost(apiURL string) string {
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return apiURL
	}

	return parsed.Hostname()
}
