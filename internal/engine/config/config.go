// Package config handles loading and validation of hookscan configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/irahardianto/hookscan/internal/engine/filter"
	"github.com/irahardianto/hookscan/internal/platform/logger"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the project configuration file, relative to the repository root.
const DefaultPath = ".hookscan.yaml"

// EnvPrefix prefixes environment variable overrides (HOOKSCAN_TEMP_ROOT, ...).
const EnvPrefix = "HOOKSCAN"

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSarif = "sarif"
)

const currentVersion = 1

// Config is the project configuration.
type Config struct {
	Version int `yaml:"version" ignored:"true"`
	// VCS selects the backend. Only "git" is supported.
	VCS string `yaml:"vcs" split_words:"true"`
	// GitBinary is the git executable to run.
	GitBinary string `yaml:"git_binary" split_words:"true"`
	// TempRoot is where revision extractions are written. Empty means the OS temp dir.
	TempRoot string `yaml:"temp_root" split_words:"true"`
	// Include and Exclude narrow the listed files with glob patterns.
	Include []string `yaml:"include" split_words:"true"`
	Exclude []string `yaml:"exclude" split_words:"true"`
	// Format is the default output format.
	Format string `yaml:"format" split_words:"true"`
	// Scanner is the command file commands run when --exec is not given.
	// Installed hooks rely on it to reject a commit or push.
	Scanner string `yaml:"scanner" split_words:"true"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:   currentVersion,
		VCS:       "git",
		GitBinary: "git",
		Format:    FormatText,
	}
}

// Matcher builds the path filter described by Include and Exclude.
func (c *Config) Matcher() (*filter.Matcher, error) {
	return filter.New(c.Include, c.Exclude)
}

// Loader handles loading configuration from the file system.
type Loader struct {
	fs FileSystem
}

// NewLoader creates a new Loader with the given file system.
func NewLoader(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads the configuration at path, applies HOOKSCAN_* environment
// overrides and validates the result.
// A missing file is not an error: defaults are used instead.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading config file", "path", path)
	// [SEC] Prevent path traversal
	path = filepath.Clean(path)

	cfg := Default()

	data, err := l.fs.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case l.fs.IsNotExist(err):
		log.Debug("no config file, using defaults", "path", path)
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads configuration from path using the real file system.
func Load(ctx context.Context, path string) (*Config, error) {
	return NewLoader(&RealFileSystem{}).Load(ctx, path)
}

// applyDefaults fills fields a config file left empty.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Version == 0 {
		cfg.Version = def.Version
	}
	if cfg.VCS == "" {
		cfg.VCS = def.VCS
	}
	if cfg.GitBinary == "" {
		cfg.GitBinary = def.GitBinary
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
}

// validate checks every field and returns a joined error, so users can fix all at once.
func validate(cfg *Config) error {
	var errs []error

	if cfg.Version != currentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version %d (valid: %d)", cfg.Version, currentVersion))
	}
	if cfg.VCS != "git" {
		errs = append(errs, fmt.Errorf("unsupported vcs %q (valid: git)", cfg.VCS))
	}
	switch cfg.Format {
	case FormatText, FormatJSON, FormatSarif:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q (valid: text, json, sarif)", cfg.Format))
	}
	if _, err := cfg.Matcher(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
