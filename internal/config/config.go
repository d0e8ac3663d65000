// Package config loads the changeset configuration using koanf.
// Configuration is loaded with priority: environment variables (CHANGESET_*)
// > project config (.changeset/config.yml or .changeset/config.json) > defaults.
// A project without either config file is not set up for changesets and
// loading fails with ErrConfigMissing.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/changeset/internal/changeset"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "CHANGESET_"

// ErrConfigMissing is returned when neither config file exists.
var ErrConfigMissing = errors.New("changeset configuration not found")

// ChangeType describes one change class for interactive authoring and status
// display.
type ChangeType struct {
	Description string `koanf:"description"`
	Emoji       string `koanf:"emoji"`
}

// Config is the changeset configuration document.
type Config struct {
	// BaseBranch is the branch releases are cut from.
	// Can be set via CHANGESET_BASE_BRANCH env var.
	BaseBranch string `koanf:"baseBranch" validate:"required"`

	// ChangeTypes maps "major", "minor" and "patch" to their descriptions.
	ChangeTypes map[string]ChangeType `koanf:"changeTypes" validate:"dive,keys,oneof=major minor patch,endkeys"`

	// ChangelogFile is the changelog name kept next to every manifest.
	ChangelogFile string `koanf:"changelogFile" validate:"required,excludesall=/"`

	// ManifestFile is the manifest file name packages are discovered by.
	ManifestFile string `koanf:"manifestFile" validate:"required,excludesall=/"`

	// Archive moves consumed records into the archive directory after a
	// release. Can be set via CHANGESET_ARCHIVE env var.
	Archive bool `koanf:"archive"`

	// MaxHistoryEntries caps the release history log. Zero disables history.
	MaxHistoryEntries int `koanf:"maxHistoryEntries" validate:"gte=0"`
}

// Emoji returns the configured emoji for class, or "" if none.
func (c *Config) Emoji(class changeset.ChangeClass) string {
	return c.ChangeTypes[string(class)].Emoji
}

// Describe returns the configured description for class, falling back to
// the class label.
func (c *Config) Describe(class changeset.ChangeClass) string {
	if d := c.ChangeTypes[string(class)].Description; d != "" {
		return d
	}
	return class.Label()
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Paths locates the project config files.
	Paths Paths
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration for the project described by paths.
func Load(paths Paths) (*Config, error) {
	return LoadWithOptions(LoadOptions{Paths: paths})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	source, err := loadProjectConfig(k, opts.Paths, warningWriter, opts.SkipWarnings)
	if err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, source)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadProjectConfig loads the project config (YAML preferred, JSON supported)
// and returns the path it was loaded from. Warns if both exist.
func loadProjectConfig(k *koanf.Koanf, paths Paths, warningWriter io.Writer, skipWarnings bool) (string, error) {
	yamlPath := paths.ConfigYAML()
	jsonPath := paths.ConfigJSON()

	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath); err != nil {
			return "", fmt.Errorf("loading project YAML config: %w", err)
		}
		if jsonExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: JSON config found at %s (ignored, using %s)\n\n", jsonPath, yamlPath)
		}
		return yamlPath, nil
	case jsonExists:
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return "", fmt.Errorf("failed to load project config %s: %w", jsonPath, err)
		}
		return jsonPath, nil
	default:
		return "", fmt.Errorf("%w: expected %s or %s", ErrConfigMissing, jsonPath, yamlPath)
	}
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf, source string) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envKeys maps environment suffixes to config keys.
var envKeys = map[string]string{
	"base_branch":         "baseBranch",
	"changelog_file":      "changelogFile",
	"manifest_file":       "manifestFile",
	"archive":             "archive",
	"max_history_entries": "maxHistoryEntries",
}

// envTransform converts environment variable names to config keys.
// Example: CHANGESET_BASE_BRANCH -> baseBranch. Unknown variables map to ""
// and are ignored.
func envTransform(s string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
}
