package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct{}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := newSession(g, root)
	if err != nil {
		return err
	}
	return runWatch(ctx, s)
}

func runWatch(ctx context.Context, s *session) error {
	regenerate := func(ctx context.Context) {
		if _, err := s.generator().Generate(ctx); err != nil {
			s.logger.Error("Regeneration failed", logfields.Error(err))
		}
		s.flushMetrics()
	}

	files := []string{s.cfg.Source}
	if s.cfg.Version.IsEnabled() {
		files = append(files, s.cfg.Version.BuildFile)
	}
	w, err := watch.New(files, s.cfg.Watch.Debounce, regenerate, s.logger)
	if err != nil {
		return err
	}

	regenerate(ctx)
	s.logger.Info("Watching for changes", logfields.Path(s.cfg.Source))
	if err := w.Run(ctx); err != nil {
		return err
	}
	s.logger.Info("Watch stopped")
	return nil
}
