package main

import (
	"context"
	"log/slog"

	"github.com/eringen/staticpress"
)

// BuildCmd exports the site.
type BuildCmd struct {
	Out    string `short:"o" help:"Output directory (default from config)" type:"path"`
	Strict bool   `help:"Abort without writing when any post is invalid"`
	Force  bool   `short:"f" help:"Rewrite every file even if unchanged"`
}

// Run exports the site. Invalid posts are skipped but still make the
// command fail once the valid ones are written.
func (b *BuildCmd) Run(ctx context.Context, g *Globals) error {
	app, err := g.app()
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Build(ctx, staticpress.BuildOptions{
		OutputDir: b.Out,
		Strict:    b.Strict,
		Force:     b.Force,
	})
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		g.logger.Warn("Site exported with skipped posts", slog.Int("invalid", len(report.Invalid)))
		return err
	}
	return nil
}
