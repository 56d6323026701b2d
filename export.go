package staticpress

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/eringen/staticpress/internal/logfields"
	"github.com/eringen/staticpress/internal/metrics"
)

// OutputFile is one file of the exported site.
type OutputFile struct {
	// Path is slash-separated and relative to the output dir.
	Path  string
	Route string
	Data  []byte
}

// ExportStats counts what an export did.
type ExportStats struct {
	Written int
	Skipped int
	Removed int
}

// RoutePath maps an unescaped route to the file that serves it: "/" is
// index.html and "/posts/a" is posts/a/index.html. Routes with empty, "."
// or ".." segments are rejected rather than cleaned.
func RoutePath(route string) (string, error) {
	clean := strings.Trim(route, "/")
	if clean == "" {
		return "index.html", nil
	}
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("route %q has a %q segment", route, seg)
		}
	}
	p := clean + "/index.html"
	if !filepath.IsLocal(filepath.FromSlash(p)) {
		return "", fmt.Errorf("route %q escapes the output dir", route)
	}
	return p, nil
}

// Exporter writes output files atomically and keeps the manifest in step.
type Exporter struct {
	dir      string
	store    *Store
	force    bool
	now      func() time.Time
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewExporter writes into dir. store may be nil, in which case every file
// is written and nothing is removed.
func NewExporter(dir string, store *Store, force bool, logger *slog.Logger, recorder metrics.Recorder) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Exporter{
		dir:      dir,
		store:    store,
		force:    force,
		now:      time.Now,
		logger:   logger,
		recorder: recorder,
	}
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Export writes files whose content changed since the last export, removes
// files the last export wrote that are no longer produced, and records the
// new state. Files not in the manifest are never removed.
func (e *Exporter) Export(ctx context.Context, files []OutputFile) (ExportStats, error) {
	var stats ExportStats
	current, err := checkOutputs(files)
	if err != nil {
		return stats, err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	previous := map[string]ManifestEntry{}
	if e.store != nil {
		if previous, err = e.store.Entries(ctx); err != nil {
			return stats, fmt.Errorf("read manifest: %w", err)
		}
	}

	builtAt := e.now()
	var written []ManifestEntry
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		sum := checksum(f.Data)
		target := filepath.Join(e.dir, filepath.FromSlash(f.Path))
		if prev, ok := previous[f.Path]; ok && !e.force && prev.Checksum == sum && fileExists(target) {
			stats.Skipped++
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return stats, fmt.Errorf("create dir for %s: %w", f.Path, err)
		}
		if err := atomic.WriteFile(target, bytes.NewReader(f.Data)); err != nil {
			return stats, fmt.Errorf("write %s: %w", f.Path, err)
		}
		written = append(written, ManifestEntry{Path: f.Path, Checksum: sum, Route: f.Route, BuiltAt: builtAt})
		stats.Written++
	}

	var removed []string
	for p := range previous {
		if _, ok := current[p]; !ok {
			removed = append(removed, p)
		}
	}
	sort.Strings(removed)
	for _, p := range removed {
		target := filepath.Join(e.dir, filepath.FromSlash(p))
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("remove stale %s: %w", p, err)
		}
		e.logger.Debug("Removed stale output", logfields.Path(p))
		pruneEmptyDirs(e.dir, filepath.Dir(target))
		stats.Removed++
	}

	if e.store != nil {
		if err := e.store.Apply(ctx, written, removed); err != nil {
			return stats, fmt.Errorf("update manifest: %w", err)
		}
	}

	e.recorder.IncFilesWritten(stats.Written)
	e.recorder.IncFilesSkipped(stats.Skipped)
	e.recorder.IncFilesRemoved(stats.Removed)
	return stats, nil
}

// checkOutputs rejects the whole file set before anything is written when
// a path leaves the output dir or two files claim the same path.
func checkOutputs(files []OutputFile) (map[string]struct{}, error) {
	owners := make(map[string]string, len(files))
	for _, f := range files {
		owner := f.Route
		if owner == "" {
			owner = f.Path
		}
		if path.Clean(f.Path) != f.Path || !filepath.IsLocal(filepath.FromSlash(f.Path)) {
			return nil, fmt.Errorf("output path %q for %s escapes the output dir or is not clean", f.Path, owner)
		}
		if prev, dup := owners[f.Path]; dup {
			return nil, fmt.Errorf("output path %q produced twice, by %s and %s", f.Path, prev, owner)
		}
		owners[f.Path] = owner
	}
	current := make(map[string]struct{}, len(owners))
	for p := range owners {
		current[p] = struct{}{}
	}
	return current, nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// pruneEmptyDirs removes dir and its parents up to (not including) root
// while they are empty.
func pruneEmptyDirs(root, dir string) {
	root = filepath.Clean(root)
	for dir = filepath.Clean(dir); dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}

// Outputs renders every file of the site: one index.html per route,
// 404.html, the feeds, the stylesheets and the processed static dir.
// A static file may replace robots.txt but no other generated file.
func (a *App) Outputs(ctx context.Context, b *Build) ([]OutputFile, error) {
	pages, err := b.Site.Pages()
	if err != nil {
		return nil, err
	}

	var files []OutputFile
	for _, p := range pages {
		rel, err := RoutePath(p.Route)
		if err != nil {
			return nil, err
		}
		data, err := RenderBytes(ctx, p.Component)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Route, err)
		}
		files = append(files, OutputFile{Path: rel, Route: p.Route, Data: data})
	}

	notFound, err := RenderBytes(ctx, b.Site.NotFoundPage().Component)
	if err != nil {
		return nil, fmt.Errorf("404: %w", err)
	}
	files = append(files, OutputFile{Path: "404.html", Data: notFound})

	feed, err := b.Site.Feed()
	if err != nil {
		return nil, err
	}
	sitemap, err := b.Site.Sitemap()
	if err != nil {
		return nil, err
	}
	style, err := stylesheet()
	if err != nil {
		return nil, err
	}
	files = append(files,
		OutputFile{Path: "feed.xml", Data: feed},
		OutputFile{Path: "sitemap.xml", Data: sitemap},
		OutputFile{Path: stylesheetPath, Data: style},
		OutputFile{Path: codeStylesheetPath, Data: []byte(b.CodeCSS)},
	)
	if _, ok := b.Assets.Get("robots.txt"); !ok {
		files = append(files, OutputFile{Path: "robots.txt", Data: b.Site.Robots()})
	}

	for _, f := range b.Assets.Files() {
		files = append(files, OutputFile{Path: f.Path, Data: f.Data})
	}
	return files, nil
}
