package staticpress

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eringen/staticpress/internal/logfields"
	"github.com/eringen/staticpress/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions control the preview server.
type ServeOptions struct {
	// Addr overrides Config.Addr.
	Addr string
	// Watch rebuilds the site when content or static files change.
	Watch bool
}

// Handler returns the preview server's HTTP handler. Middleware and routes,
// custom routes included, are registered on first call.
func (a *App) Handler() http.Handler {
	a.routesOnce.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.Echo
}

// Refresh loads the site into the cache. On failure the previous build
// keeps being served and the error is recorded.
func (a *App) Refresh(ctx context.Context) error {
	start := a.now()
	build, err := a.Load(ctx)
	if err != nil {
		a.Cache.Fail(err, a.now())
		a.recorder.IncRebuild(outcomeFor(err))
		a.logger.Error("Rebuild failed, serving previous build", logfields.Error(err))
		return err
	}
	a.Cache.Store(build, a.now())

	outcome := metrics.OutcomeSuccess
	if len(build.Invalid) > 0 {
		outcome = metrics.OutcomeInvalid
	}
	a.logInvalid(slog.LevelWarn, build.Invalid)
	a.recorder.IncRebuild(outcome)
	a.logger.Info("Site loaded",
		logfields.Count(build.Site.Registry.Len()),
		logfields.DurationMS(float64(a.now().Sub(start).Microseconds())/1000))
	return nil
}

// Serve builds the site in memory and serves it until ctx is canceled. The
// first load must succeed; later rebuild failures leave the last good
// build in place.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	if err := a.Refresh(ctx); err != nil {
		return err
	}

	addr := opts.Addr
	if addr == "" {
		addr = a.Config.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	if opts.Watch {
		w, err := NewWatcher(a)
		if err != nil {
			return err
		}
		go func() { watchErr <- w.Run(ctx) }()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("Preview server listening", logfields.Addr(addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-watchErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("Watcher stopped", logfields.Error(err))
			_ = shutdown(srv)
			return err
		}
	case <-ctx.Done():
	}
	a.logger.Info("Shutting down preview server")
	return shutdown(srv)
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
