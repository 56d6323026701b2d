package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/staticpress/internal/logfields"
	"github.com/eringen/staticpress/internal/metrics"
)

// LoadResult is the outcome of loading a content tree.
type LoadResult struct {
	// Posts are ordered by source path.
	Posts []Post
	// Errors holds one entry per document that could not be transformed.
	Errors []error
}

// Err joins every document error, or returns nil when all succeeded.
func (r LoadResult) Err() error {
	return errors.Join(r.Errors...)
}

// Loader reads every Markdown document below its root.
type Loader struct {
	fsys        fs.FS
	transformer *Transformer
	concurrency int
	logger      *slog.Logger
	recorder    metrics.Recorder
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConcurrency bounds the number of documents transformed at once.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger for per-document diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRecorder sets where transform metrics go.
func WithRecorder(r metrics.Recorder) LoaderOption {
	return func(l *Loader) {
		if r != nil {
			l.recorder = r
		}
	}
}

// NewLoader creates a Loader over fsys.
func NewLoader(fsys fs.FS, t *Transformer, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:        fsys,
		transformer: t,
		concurrency: runtime.NumCPU(),
		logger:      slog.Default(),
		recorder:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsSource reports whether name is a Markdown document.
func IsSource(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_"))
}

// Sources lists the Markdown documents below the root in lexical order.
func (l *Loader) Sources() ([]string, error) {
	var files []string
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if IsSource(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

type loadOutcome struct {
	post Post
	err  error
}

// Load transforms every document. A document that fails is reported in
// LoadResult.Errors and the rest still load; only a walk failure or context
// cancellation returns an error.
func (l *Loader) Load(ctx context.Context) (LoadResult, error) {
	files, err := l.Sources()
	if err != nil {
		return LoadResult{}, err
	}

	outcomes := make([]loadOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = l.loadOne(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LoadResult{}, err
	}

	var res LoadResult
	for i, o := range outcomes {
		if o.err != nil {
			l.logger.Debug("Skipping invalid post",
				logfields.Path(files[i]),
				logfields.Error(o.err))
			res.Errors = append(res.Errors, o.err)
			continue
		}
		res.Posts = append(res.Posts, o.post)
	}
	l.logger.Debug("Content loaded",
		slog.Int("documents", len(files)),
		slog.Int("posts", len(res.Posts)),
		slog.Int("invalid", len(res.Errors)))
	return res, nil
}

func (l *Loader) loadOne(file string) loadOutcome {
	start := time.Now()
	raw, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		l.recorder.ObserveDocument(metrics.OutcomeError, time.Since(start))
		return loadOutcome{err: fmt.Errorf("read %s: %w", file, err)}
	}
	post, err := l.transformer.Transform(file, raw)
	if err != nil {
		l.recorder.ObserveDocument(metrics.OutcomeInvalid, time.Since(start))
		return loadOutcome{err: err}
	}
	l.recorder.ObserveDocument(metrics.OutcomeSuccess, time.Since(start))
	return loadOutcome{post: post}
}
