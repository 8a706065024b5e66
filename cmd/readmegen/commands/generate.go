package commands

import (
	"context"
)

// GenerateCmd implements the default 'generate' command.
type GenerateCmd struct{}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(g, root)
	if err != nil {
		return err
	}
	defer s.flushMetrics()

	_, err = s.generator().Generate(context.Background())
	return err
}
