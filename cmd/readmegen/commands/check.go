package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
)

// CheckCmd implements the 'check' command for CI pipelines.
type CheckCmd struct {
	out io.Writer `kong:"-"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	s, err := newSession(g, root)
	if err != nil {
		return err
	}
	defer s.flushMetrics()

	res, err := s.generator().Check(context.Background())
	if err != nil {
		return err
	}

	if res.UpToDate {
		_, _ = fmt.Fprintf(out, "%s is up to date\n", s.cfg.Output)
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s is out of date (expected %s, found %s)\n", s.cfg.Output, res.Expected, orNone(res.Current))
	return ferrors.ValidationError("README is out of date; run readmegen to regenerate it").
		WithContext(logfields.KeyPath, s.cfg.Output).
		Build()
}

func orNone(s string) string {
	if s == "" {
		return "no file"
	}
	return s
}
