package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/alis-is/setup-eli/internal/domain/release"
	"github.com/alis-is/setup-eli/internal/logger"
)

// Config holds the settings of one setup-eli run.
type Config struct {
	// EliVersion is the version spec to install; empty means latest.
	EliVersion string `yaml:"eli_version,omitempty"`
	// EliVersionFile is a file holding the version spec, used when EliVersion is empty.
	EliVersionFile string `yaml:"eli_version_file,omitempty"`
	// Architecture is the target architecture; empty means the host architecture.
	Architecture string `yaml:"architecture,omitempty"`
	// Token authenticates GitHub API calls. It is never written to disk.
	Token string `yaml:"-"`
	// ToolCacheDir is the root of the tool cache.
	ToolCacheDir string `yaml:"tool_cache_dir,omitempty"`
	// TempDir receives downloads before they are cached.
	TempDir string `yaml:"temp_dir,omitempty"`
	// APIURL is the GitHub REST endpoint.
	APIURL string `yaml:"api_url"`
	// Owner is the GitHub account publishing eli.
	Owner string `yaml:"owner"`
	// Repository is the GitHub repository publishing eli.
	Repository string `yaml:"repository"`
	// Timeout bounds a single HTTP exchange.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// VersionsManifest is an optional versions-manifest.json used to resolve the latest alias.
	VersionsManifest string `yaml:"versions_manifest,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "setup-eli-settings.yaml"

	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com"

	// DefaultTimeout is the default duration for a single HTTP exchange.
	DefaultTimeout = 5 * time.Minute

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultToolCacheDir is used outside a pipeline runner.
	DefaultToolCacheDir = "~/.cache/setup-eli"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// Step input names.
const (
	InputEliVersion     = "eli-version"
	InputEliVersionFile = "eli-version-file"
	InputArchitecture   = "architecture"
	InputToken          = "token"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidLogLevel is returned for unknown log levels.
	errInvalidLogLevel = errors.New("invalid log level")
)

// Inputs reads pipeline step inputs. *githubactions.Action implements it.
type Inputs interface {
	GetInput(name string) string
}

// Load reads configuration from path and validates it.
// When path is empty and the default file does not exist, defaults are returned.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills static defaults and checks formatting.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.APIURL == "" {
		settings.APIURL = DefaultAPIURL
	}

	if settings.Owner == "" {
		settings.Owner = release.Owner
	}

	if settings.Repository == "" {
		settings.Repository = release.Repository
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %s", errInvalidLogLevel, settings.LogLevel)
	}

	if _, err := url.ParseRequestURI(settings.APIURL); err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}

	return nil
}

// ApplyEnvironment fills directories from the runner environment.
// RUNNER_TOOL_CACHE and RUNNER_TEMP win; otherwise ~/.cache/setup-eli and the
// system temp directory are used.
func (c *Config) ApplyEnvironment(getenv func(string) string) error {
	if c.ToolCacheDir == "" {
		c.ToolCacheDir = getenv("RUNNER_TOOL_CACHE")
	}

	if c.ToolCacheDir == "" {
		c.ToolCacheDir = DefaultToolCacheDir
	}

	expanded, err := homedir.Expand(c.ToolCacheDir)
	if err != nil {
		return fmt.Errorf("expand tool cache dir: %w", err)
	}

	c.ToolCacheDir = expanded

	if c.TempDir == "" {
		c.TempDir = getenv("RUNNER_TEMP")
	}

	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}

	return nil
}

// ApplyInputs overlays non-empty step inputs onto c.
func (c *Config) ApplyInputs(inputs Inputs) {
	overlay := func(dst *string, name string) {
		if value := strings.TrimSpace(inputs.GetInput(name)); value != "" {
			*dst = value
		}
	}

	overlay(&c.EliVersion, InputEliVersion)
	overlay(&c.EliVersionFile, InputEliVersionFile)
	overlay(&c.Architecture, InputArchitecture)
	overlay(&c.Token, InputToken)
}

// ReadVersionFile returns the trimmed contents of a version file.
func ReadVersionFile(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &release.VersionFileMissingError{Path: path}
		}

		return "", fmt.Errorf("read version file: %w", err)
	}

	return strings.TrimSpace(string(contents)), nil
}
