package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "readmegen.yaml"

// Config represents the application configuration.
type Config struct {
	Source        string        `yaml:"source"`
	Output        string        `yaml:"output"`
	Version       VersionConfig `yaml:"version"`
	Anchors       AnchorConfig  `yaml:"anchors"`
	VerifyAnchors bool          `yaml:"verify_anchors"`
	MetricsFile   string        `yaml:"metrics_file,omitempty"`
	Logging       LoggingConfig `yaml:"logging"`
	Watch         WatchConfig   `yaml:"watch"`
}

// VersionConfig controls placeholder substitution from the build file.
type VersionConfig struct {
	Enabled     *bool  `yaml:"enabled,omitempty"` // nil means enabled
	BuildFile   string `yaml:"build_file"`
	Placeholder string `yaml:"placeholder"`
}

// IsEnabled reports whether version substitution runs.
func (v VersionConfig) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// AnchorConfig selects the punctuation set stripped from anchors ("full" or "no-brackets").
type AnchorConfig struct {
	Charset string `yaml:"charset"`
}

// LoggingConfig represents log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WatchConfig represents watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Load loads configuration from the specified file, which must exist.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

// LoadOrDefault loads configPath when it exists and falls back to Default otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFile()
		return Default(), nil
	}
	return Load(configPath)
}

// Init creates a new configuration file with the default settings.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
