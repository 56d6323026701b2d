package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eringen/staticpress"
	"github.com/eringen/staticpress/internal/metrics"
)

// ServeCmd runs the preview server.
type ServeCmd struct {
	Addr    string `short:"a" help:"Listen address (default from config)"`
	NoWatch bool   `name:"no-watch" help:"Do not rebuild when files change"`
}

func (s *ServeCmd) Run(ctx context.Context, g *Globals) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := g.app(
		staticpress.WithRecorder(metrics.NewPrometheusRecorder(reg)),
		staticpress.WithMetricsHandler(metrics.HTTPHandler(reg)),
	)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Serve(ctx, staticpress.ServeOptions{Addr: s.Addr, Watch: !s.NoWatch})
}
