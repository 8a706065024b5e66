package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/readmegen/internal/config"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
	"git.home.luguber.info/inful/readmegen/internal/readme"
)

// Global carries state shared by all commands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to readmegen.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"1" help:"Generate the README from the source document"`
	Check    CheckCmd    `cmd:"" help:"Fail when the README differs from a fresh generation"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate the README whenever the source or build file changes"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with the default settings"`
}

// AfterApply runs after flag parsing; sets up logging until the configuration is known.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = newLogger(config.LogLevelInfo, config.LogFormatText, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

// configPath returns the configuration file to load and whether it was given explicitly.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return config.DefaultPath, false
}

func newLogger(level config.LogLevel, format config.LogFormat, verbose bool) *slog.Logger {
	slogLevel := slog.LevelInfo
	switch level {
	case config.LogLevelDebug:
		slogLevel = slog.LevelDebug
	case config.LogLevelWarn:
		slogLevel = slog.LevelWarn
	case config.LogLevelError:
		slogLevel = slog.LevelError
	case config.LogLevelInfo:
	}
	if verbose {
		slogLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// session holds what one command invocation needs across one or more runs.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	registry *prom.Registry
}

func newSession(g *Global, root *CLI) (*session, error) {
	path, explicit := root.configPath()

	var cfg *config.Config
	var err error
	if explicit {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load configuration").
			Fatal().
			WithContext(logfields.KeyPath, path).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g.Logger = newLogger(config.NormalizeLogLevel(cfg.Logging.Level), config.NormalizeLogFormat(cfg.Logging.Format), root.Verbose)
	slog.SetDefault(g.Logger)

	s := &session{cfg: cfg, logger: g.Logger, recorder: metrics.NoopRecorder{}}
	if cfg.MetricsFile != "" {
		s.registry = prom.NewRegistry()
		s.recorder = metrics.NewPrometheusRecorder(s.registry)
	}
	return s, nil
}

// generator returns a generator whose logs carry a fresh run ID.
func (s *session) generator() *readme.Generator {
	return readme.NewGenerator(s.cfg,
		readme.WithLogger(s.logger.With(logfields.RunID(uuid.NewString()))),
		readme.WithRecorder(s.recorder),
	)
}

func (s *session) flushMetrics() {
	if s.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(s.cfg.MetricsFile, s.registry); err != nil {
		s.logger.Warn("Failed to write metrics file", logfields.Path(s.cfg.MetricsFile), logfields.Error(err))
	}
}
