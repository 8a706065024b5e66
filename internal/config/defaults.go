package config

import (
	"time"

	"git.home.luguber.info/inful/readmegen/internal/libversion"
	"git.home.luguber.info/inful/readmegen/internal/reflink"
)

const (
	DefaultSource    = "doc/README_src.md"
	DefaultOutput    = "README.md"
	DefaultBuildFile = "Makefile"
	DefaultDebounce  = 300 * time.Millisecond
)

// Default returns the configuration that reproduces a plain run from the repository root.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Version.BuildFile == "" {
		cfg.Version.BuildFile = DefaultBuildFile
	}
	if cfg.Version.Placeholder == "" {
		cfg.Version.Placeholder = libversion.Placeholder
	}
	if cfg.Anchors.Charset == "" {
		cfg.Anchors.Charset = string(reflink.CharsetFull)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}
