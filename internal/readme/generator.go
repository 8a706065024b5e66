// Package readme runs the README generation pipeline: read the source,
// substitute the library version, build the link table, resolve shorthand
// references and write the output in a single write.
package readme

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/readmegen/internal/config"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/libversion"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
	"git.home.luguber.info/inful/readmegen/internal/reflink"
)

// Stage names reported to logs and metrics.
const (
	StageRead    = "read"
	StageVersion = "version"
	StageLinks   = "links"
	StageResolve = "resolve"
	StageVerify  = "verify"
	StageWrite   = "write"
)

// Result describes one rendered document.
type Result struct {
	Output       []byte
	Version      string
	Placeholders int
	Headings     int
	References   []reflink.Reference
	Collisions   []reflink.Collision
	// Populated only when anchor verification is enabled.
	DanglingAnchors    []string
	UnrenderedHeadings []string
	Fingerprint        string
}

// Generator renders the configured source document.
type Generator struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for warnings and stage timings.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// NewGenerator creates a generator for cfg.
func NewGenerator(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render produces the resolved document in memory without touching the output file.
func (g *Generator) Render(ctx context.Context) (*Result, error) {
	res := &Result{}
	var content string

	err := g.stage(ctx, StageRead, func() error {
		data, err := os.ReadFile(g.cfg.Source)
		if err != nil {
			return readError(err, "failed to read source", g.cfg.Source)
		}
		content = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if g.cfg.Version.IsEnabled() {
		err = g.stage(ctx, StageVersion, func() error {
			v, err := g.loadVersion()
			if err != nil {
				return err
			}
			res.Version = v
			content, res.Placeholders = libversion.Substitute(content, g.cfg.Version.Placeholder, v)
			g.logger.Debug("Substituted version placeholder",
				logfields.Version(v), logfields.Count(res.Placeholders))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var table *reflink.Table
	err = g.stage(ctx, StageLinks, func() error {
		table = reflink.BuildTable(content, g.cfg.LinkOptions())
		res.Headings = table.Len()
		res.Collisions = table.Collisions()
		for _, c := range res.Collisions {
			g.logger.Warn("Duplicate reference key; later heading wins",
				logfields.Key(c.Key),
				slog.String("previous_anchor", c.Previous.Anchor),
				logfields.Anchor(c.Current.Anchor))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = g.stage(ctx, StageResolve, func() error {
		out, refs, err := reflink.Resolve(content, table)
		if err != nil {
			return g.classifyResolveError(err)
		}
		res.Output = []byte(out)
		res.References = refs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if g.cfg.VerifyAnchors {
		err = g.stage(ctx, StageVerify, func() error {
			return g.verify(res, table)
		})
		if err != nil {
			return nil, err
		}
	}

	res.Fingerprint = Fingerprint(res.Output)
	g.recorder.SetHeadings(res.Headings)
	g.recorder.AddReferences(len(res.References))
	g.recorder.AddCollisions(len(res.Collisions))
	return res, nil
}

// Generate renders the document and overwrites the output file with one write.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	res, err := g.Render(ctx)
	if err != nil {
		g.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	err = g.stage(ctx, StageWrite, func() error {
		if err := os.WriteFile(g.cfg.Output, res.Output, 0o644); err != nil {
			return ferrors.FileSystemError("failed to write output").
				WithContext(logfields.KeyPath, g.cfg.Output).
				WithCause(err).
				Build()
		}
		return nil
	})
	if err != nil {
		g.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	g.recorder.IncRunOutcome(metrics.OutcomeWritten)
	g.logger.Info("README generated",
		logfields.Path(g.cfg.Output),
		slog.Int("headings", res.Headings),
		slog.Int("references", len(res.References)),
		logfields.Version(res.Version))
	return res, nil
}

// Fingerprint returns the content fingerprint used to compare rendered documents.
func Fingerprint(content []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(content))
}

func (g *Generator) loadVersion() (string, error) {
	path := g.cfg.Version.BuildFile
	v, err := libversion.LoadFile(path)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, libversion.ErrVersionNotFound):
		return "", ferrors.VersionError("version pattern amalgamation-DDDDD.zip not found in build file").
			WithContext(logfields.KeyPath, path).
			WithCause(err).
			Build()
	default:
		return "", readError(err, "failed to read build file", path)
	}
}

// readError classifies a failed input read; a missing file is not_found.
func readError(err error, message, path string) error {
	b := ferrors.FileSystemError(message)
	if errors.Is(err, fs.ErrNotExist) {
		b = ferrors.NotFoundError(message)
	}
	return b.WithContext(logfields.KeyPath, path).WithCause(err).Build()
}

func (g *Generator) classifyResolveError(err error) error {
	var unresolved *reflink.UnresolvedKeyError
	if errors.As(err, &unresolved) {
		return ferrors.ReferenceError("cannot resolve shorthand reference").
			WithContext(logfields.KeyKey, unresolved.Key).
			WithContext(logfields.KeyLine, unresolved.Line).
			WithContext(logfields.KeyPath, g.cfg.Source).
			WithCause(err).
			Build()
	}
	return ferrors.InternalError("resolve references").WithCause(err).Build()
}

// stage times fn and reports its outcome.
func (g *Generator) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	g.recorder.ObserveStageDuration(name, elapsed)
	if err != nil {
		g.recorder.IncStageResult(name, metrics.ResultFatal)
		return err
	}
	g.recorder.IncStageResult(name, metrics.ResultSuccess)
	g.logger.Debug("Stage complete",
		logfields.Stage(name),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return nil
}
