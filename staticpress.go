// Package staticpress builds a personal blog from a directory of Markdown
// posts with YAML front-matter. It exports the site as static HTML and can
// serve a live preview that rebuilds when content changes.
//
// Templates are supplied through ViewFuncs; anything left unset uses the
// stock components from the views package.
package staticpress

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/staticpress/content"
	"github.com/eringen/staticpress/internal/logfields"
	"github.com/eringen/staticpress/internal/metrics"
	"github.com/eringen/staticpress/markdown"
	"github.com/eringen/staticpress/views"
)

// ErrInvalidContent is reported when one or more posts fail validation.
var ErrInvalidContent = errors.New("invalid content")

// App is the central staticpress application. It wires together content
// loading, the registry, rendering, export and the preview server.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *SiteCache
	Views  ViewFuncs

	transformer  *content.Transformer
	logger       *slog.Logger
	recorder     metrics.Recorder
	contentFS    fs.FS
	staticFS     fs.FS
	customRoutes []func(*App)
	now          func() time.Time

	metricsHandler http.Handler
	routesOnce     sync.Once
}

// New creates an App. cfg gets defaults for anything left empty.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	v.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Cache:    &SiteCache{},
		Views:    v,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.contentFS == nil {
		a.contentFS = os.DirFS(cfg.ContentDir)
	}
	if a.staticFS == nil && cfg.StaticDir != "" {
		a.staticFS = os.DirFS(cfg.StaticDir)
	}

	compiler := markdown.NewCompiler(markdown.Options{
		Style:    cfg.CodeTheme,
		IconBase: cfg.IconBase,
	})
	a.transformer = content.NewTransformer(compiler, content.WithWordsPerMinute(cfg.WordsPerMinute))
	return a
}

// Build is one loaded site: the resolved pages, processed assets and the
// documents that failed validation.
type Build struct {
	Site    *Site
	Assets  *Assets
	CodeCSS string
	Invalid []error
	Started time.Time
}

// Load reads content and assets and assembles a Site. Invalid documents are
// collected in Build.Invalid; only I/O, cancellation and duplicate slugs
// fail the load.
func (a *App) Load(ctx context.Context) (*Build, error) {
	start := a.now()
	loader := content.NewLoader(a.contentFS, a.transformer,
		content.WithConcurrency(a.Config.Concurrency),
		content.WithLogger(a.logger),
		content.WithRecorder(a.recorder))
	res, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	reg, err := NewRegistry(res.Posts)
	if err != nil {
		return nil, err
	}

	assets, err := loadAssets(a.staticFS, a.Config.MaxImageWidth, a.logger)
	if err != nil {
		return nil, err
	}

	codeCSS, err := markdown.StyleCSS(a.Config.CodeTheme)
	if err != nil {
		return nil, err
	}

	a.recorder.SetPosts(reg.Len())
	return &Build{
		Site:    NewSite(reg, a.viewConfig(assets), a.Views, a.Config.HomePostLimit),
		Assets:  assets,
		CodeCSS: codeCSS,
		Invalid: res.Errors,
		Started: start,
	}, nil
}

func (a *App) viewConfig(assets *Assets) views.SiteConfig {
	c := a.Config
	profile := views.Image{Src: c.ProfileImage, Alt: "profile picture"}
	if f, ok := assets.Get(c.ProfileImage); ok {
		profile.Width, profile.Height = f.Width, f.Height
	}
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		AuthorURL:   c.AuthorURL,
		Language:    c.Language,
		Favicon:     c.Favicon,
		ThemeColor:  c.ThemeColor,
		Heading:     c.Heading,
		Subheading:  c.Subheading,
		BioIntro:    c.BioIntro,
		Bio:         c.Bio,
		Profile:     profile,
		Nav: []views.Link{
			{Label: "Home", URL: "/"},
			{Label: "Posts", URL: "/posts"},
			{Label: "Tags", URL: "/tags"},
		},
		Socials:     c.Socials,
		MadeWith:    c.MadeWith,
		Stylesheets: []string{"/" + stylesheetPath, "/" + codeStylesheetPath},
		FeedURL:     "/feed.xml",
		Year:        a.now().Year(),
	}
}

// BuildOptions control one export.
type BuildOptions struct {
	// OutputDir overrides Config.OutputDir.
	OutputDir string
	// Strict aborts before writing anything when a post is invalid.
	Strict bool
	// Force rewrites every file even when the manifest says it is current.
	Force bool
}

// BuildReport summarizes an export.
type BuildReport struct {
	Posts    int
	Pages    int
	Invalid  []error
	Stats    ExportStats
	Duration time.Duration
}

// Err reports the invalid documents, or nil when every post was valid.
func (r BuildReport) Err() error {
	if len(r.Invalid) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d document(s) skipped: %w", ErrInvalidContent, len(r.Invalid), errors.Join(r.Invalid...))
}

// Build loads the site and exports it. Without Strict, valid posts are
// exported and the invalid ones are listed in the report; callers decide
// how to surface BuildReport.Err.
func (a *App) Build(ctx context.Context, opts BuildOptions) (BuildReport, error) {
	var report BuildReport
	start := a.now()
	build, err := a.Load(ctx)
	if err != nil {
		a.recorder.ObserveBuild(outcomeFor(err), a.now().Sub(start))
		return report, err
	}
	report.Posts = build.Site.Registry.Len()
	report.Invalid = build.Invalid
	a.logInvalid(slog.LevelError, build.Invalid)
	if opts.Strict && len(build.Invalid) > 0 {
		a.recorder.ObserveBuild(metrics.OutcomeInvalid, a.now().Sub(build.Started))
		return report, report.Err()
	}

	files, err := a.Outputs(ctx, build)
	if err != nil {
		a.recorder.ObserveBuild(outcomeFor(err), a.now().Sub(build.Started))
		return report, err
	}
	for _, f := range files {
		if f.Route != "" {
			report.Pages++
		}
	}

	store, err := a.store()
	if err != nil {
		return report, err
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = a.Config.OutputDir
	}
	exporter := NewExporter(dir, store, opts.Force, a.logger, a.recorder)
	exporter.now = a.now
	report.Stats, err = exporter.Export(ctx, files)
	report.Duration = a.now().Sub(build.Started)
	if err != nil {
		a.recorder.ObserveBuild(outcomeFor(err), report.Duration)
		return report, fmt.Errorf("export: %w", err)
	}

	if store != nil {
		if _, err := store.RecordBuild(ctx, BuildRecord{
			Started:  build.Started,
			Duration: report.Duration,
			Posts:    report.Posts,
			Invalid:  len(report.Invalid),
			Written:  report.Stats.Written,
			Skipped:  report.Stats.Skipped,
			Removed:  report.Stats.Removed,
		}); err != nil {
			a.logger.Warn("Could not record build", logfields.Error(err))
		}
	}

	outcome := metrics.OutcomeSuccess
	if len(report.Invalid) > 0 {
		outcome = metrics.OutcomeInvalid
	}
	a.recorder.ObserveBuild(outcome, report.Duration)
	a.logger.Info("Site exported",
		logfields.Path(dir),
		slog.Int("posts", report.Posts),
		slog.Int("pages", report.Pages),
		slog.Int("written", report.Stats.Written),
		slog.Int("skipped", report.Stats.Skipped),
		slog.Int("removed", report.Stats.Removed),
		slog.Int("invalid", len(report.Invalid)),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

// logInvalid writes one line per validation problem, naming the file and
// the front-matter field.
func (a *App) logInvalid(level slog.Level, errs []error) {
	ctx := context.Background()
	for _, err := range errs {
		var verrs content.ValidationErrors
		if !errors.As(err, &verrs) {
			a.logger.LogAttrs(ctx, level, "Invalid post", logfields.Error(err))
			continue
		}
		for _, v := range verrs {
			a.logger.LogAttrs(ctx, level, "Invalid post",
				logfields.Path(v.Path),
				logfields.Field(v.Field),
				logfields.Error(v.Err))
		}
	}
}

func outcomeFor(err error) metrics.Outcome {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return metrics.OutcomeCanceled
	}
	return metrics.OutcomeError
}

// store opens the manifest on first use. An empty ManifestPath disables
// incremental export.
func (a *App) store() (*Store, error) {
	if a.Store != nil || a.Config.ManifestPath == "" {
		return a.Store, nil
	}
	s, err := NewStore(a.Config.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	a.Store = s
	return s, nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
