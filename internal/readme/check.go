package readme

import (
	"context"
	"os"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

// CheckResult reports whether the output file matches a fresh render.
type CheckResult struct {
	UpToDate bool
	// Current is empty when the output file does not exist.
	Current  string
	Expected string
	Result   *Result
}

// Check renders the document and compares it with the existing output file.
// A missing output file is reported as stale, not as an error.
func (g *Generator) Check(ctx context.Context) (*CheckResult, error) {
	res, err := g.Render(ctx)
	if err != nil {
		g.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	check := &CheckResult{Expected: res.Fingerprint, Result: res}
	existing, err := os.ReadFile(g.cfg.Output)
	switch {
	case err == nil:
		check.Current = Fingerprint(existing)
		check.UpToDate = check.Current == check.Expected
	case os.IsNotExist(err):
	default:
		g.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return nil, ferrors.FileSystemError("failed to read output").
			WithContext(logfields.KeyPath, g.cfg.Output).
			WithCause(err).
			Build()
	}

	if check.UpToDate {
		g.recorder.IncRunOutcome(metrics.OutcomeUpToDate)
	} else {
		g.recorder.IncRunOutcome(metrics.OutcomeStale)
	}
	return check, nil
}
