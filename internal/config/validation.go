package config

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

// Validate checks the configuration for values that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fieldError("source", "source path must not be empty", c.Source)
	}
	if c.Output == "" {
		return fieldError("output", "output path must not be empty", c.Output)
	}
	if filepath.Clean(c.Source) == filepath.Clean(c.Output) {
		return fieldError("output", "output path must differ from source path", c.Output)
	}
	if c.Version.IsEnabled() {
		if c.Version.BuildFile == "" {
			return fieldError("version.build_file", "build file must be set when version substitution is enabled", "")
		}
		if c.Version.Placeholder == "" {
			return fieldError("version.placeholder", "placeholder must be set when version substitution is enabled", "")
		}
	}
	if _, err := charsetNormalizer.NormalizeWithError(c.Anchors.Charset); err != nil {
		return enumError(err, "invalid anchor charset", "anchors.charset", charsetNormalizer.ValidKeys())
	}
	if _, err := logLevelNormalizer.NormalizeWithError(c.Logging.Level); err != nil {
		return enumError(err, "invalid log level", "logging.level", logLevelNormalizer.ValidKeys())
	}
	if _, err := logFormatNormalizer.NormalizeWithError(c.Logging.Format); err != nil {
		return enumError(err, "invalid log format", "logging.format", logFormatNormalizer.ValidKeys())
	}
	if c.Watch.Debounce < 0 {
		return fieldError("watch.debounce", "debounce must not be negative", c.Watch.Debounce.String())
	}
	return nil
}

func enumError(err error, message, field string, allowed []string) error {
	return ferrors.WrapError(err, ferrors.CategoryConfig, message).
		Fatal().
		WithContext("field", field).
		WithContext("allowed", strings.Join(allowed, ", ")).
		Build()
}

func fieldError(field, message, value string) error {
	return ferrors.ConfigError(message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
