package staticpress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/staticpress/content"
)

func postFile(title, date string, tags ...string) *fstest.MapFile {
	var b strings.Builder
	b.WriteString("---\ntitle: " + title + "\ndescription: About " + title + "\ndate: " + date + "\n")
	if len(tags) > 0 {
		b.WriteString("tags: [" + strings.Join(tags, ", ") + "]\n")
	}
	b.WriteString("---\n\n## Intro\n\nSome words.\n\n## More\n\n```go\nfmt.Println(1)\n```\n")
	return &fstest.MapFile{Data: []byte(b.String())}
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"first.md":  postFile("First", "2023-01-01", "rust", "go"),
		"second.md": postFile("Second", "2024-06-15", "go"),
	}
}

func newTestApp(t *testing.T, contentFS, staticFS fstest.MapFS) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := SiteConfig{
		Name:         "Test Blog",
		URL:          "https://example.com",
		Author:       "Ada",
		OutputDir:    filepath.Join(dir, "out"),
		ManifestPath: filepath.Join(dir, "data", "build.db"),
	}
	opts := []Option{
		WithContentFS(contentFS),
		WithLogger(quietLogger()),
		WithClock(fixedClock),
	}
	if staticFS != nil {
		opts = append(opts, WithStaticFS(staticFS))
	} else {
		opts = append(opts, WithStaticFS(fstest.MapFS{}))
	}
	a := New(cfg, ViewFuncs{}, opts...)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestLoad(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	b, err := a.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, b.Site.Registry.Len())
	assert.Empty(t, b.Invalid)
	assert.NotEmpty(t, b.CodeCSS)
	assert.Equal(t, 2024, b.Site.Config.Year)

	p, err := b.Site.Registry.BySlug("second")
	require.NoError(t, err)
	assert.Equal(t, "1 min read", p.ReadingTime.Text)
	assert.Len(t, p.TOC, 2)
}

func TestLoadDuplicateSlug(t *testing.T) {
	fsys := testContent()
	fsys["first.markdown"] = postFile("Again", "2024-01-01")

	_, err := newTestApp(t, fsys, nil).Load(context.Background())
	assert.True(t, errors.Is(err, ErrDuplicateSlug), "got %v", err)
}

func TestBuildExportsSite(t *testing.T) {
	ctx := context.Background()
	static := fstest.MapFS{"icons/go.svg": {Data: []byte("<svg/>")}}
	a := newTestApp(t, testContent(), static)

	report, err := a.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, 2, report.Posts)
	// home, posts, 2 posts, tags, 2 tags
	assert.Equal(t, 7, report.Pages)

	out := a.Config.OutputDir
	for _, rel := range []string{
		"index.html",
		"posts/index.html",
		"posts/first/index.html",
		"posts/second/index.html",
		"tags/index.html",
		"tags/go/index.html",
		"tags/rust/index.html",
		"404.html",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		"assets/style.css",
		"assets/code.css",
		"icons/go.svg",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}

	post, err := os.ReadFile(filepath.Join(out, "posts", "second", "index.html"))
	require.NoError(t, err)
	html := string(post)
	assert.Contains(t, html, "<title>Second | Test Blog</title>")
	assert.Contains(t, html, `id="intro"`)
	assert.Contains(t, html, "Related posts")
	assert.Contains(t, html, "© 2024 Ada")

	notFound, err := os.ReadFile(filepath.Join(out, "404.html"))
	require.NoError(t, err)
	assert.Contains(t, string(notFound), "Could not find requested resource")

	last, err := a.Store.LastBuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, last.Posts)
	assert.Equal(t, report.Stats.Written, last.Written)

	// Unchanged content rewrites nothing.
	again, err := a.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	assert.Zero(t, again.Stats.Written)
	assert.Equal(t, report.Stats.Written, again.Stats.Skipped)
}

func TestBuildRemovesDeletedPosts(t *testing.T) {
	ctx := context.Background()
	fsys := testContent()
	a := newTestApp(t, fsys, nil)

	_, err := a.Build(ctx, BuildOptions{})
	require.NoError(t, err)

	delete(fsys, "first.md")
	report, err := a.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	// The post page and the rust tag page disappear.
	assert.Equal(t, 2, report.Stats.Removed)
	assert.NoFileExists(t, filepath.Join(a.Config.OutputDir, "posts", "first", "index.html"))
	assert.NoDirExists(t, filepath.Join(a.Config.OutputDir, "tags", "rust"))
}

func TestBuildInvalidPost(t *testing.T) {
	ctx := context.Background()
	fsys := testContent()
	fsys["broken.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Broken\ndate: 2024-01-01\n---\nbody\n")}

	t.Run("skips and reports", func(t *testing.T) {
		a := newTestApp(t, fsys, nil)
		report, err := a.Build(ctx, BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Posts)
		require.Len(t, report.Invalid, 1)

		rerr := report.Err()
		assert.ErrorIs(t, rerr, ErrInvalidContent)
		assert.ErrorIs(t, rerr, content.ErrMissingDescription)
		assert.Contains(t, rerr.Error(), "broken.md")
		assert.FileExists(t, filepath.Join(a.Config.OutputDir, "index.html"))
	})

	t.Run("strict writes nothing", func(t *testing.T) {
		a := newTestApp(t, fsys, nil)
		_, err := a.Build(ctx, BuildOptions{Strict: true})
		assert.ErrorIs(t, err, ErrInvalidContent)
		assert.NoDirExists(t, a.Config.OutputDir)
	})
}

func TestBuildEscapesPostLinks(t *testing.T) {
	fsys := fstest.MapFS{"c# tips.md": postFile("Sharp", "2024-01-01", "go")}
	a := newTestApp(t, fsys, nil)

	report, err := a.Build(context.Background(), BuildOptions{})
	require.NoError(t, err)
	require.NoError(t, report.Err())

	out := a.Config.OutputDir
	assert.FileExists(t, filepath.Join(out, "posts", "c# tips", "index.html"))
	assert.Contains(t, readOut(t, out, "posts/index.html"), `<a href="/posts/c%23%20tips">Sharp</a>`)
	assert.Contains(t, readOut(t, out, "sitemap.xml"), "<loc>https://example.com/posts/c%23%20tips/</loc>")
	assert.Contains(t, readOut(t, out, "feed.xml"), "<link>https://example.com/posts/c%23%20tips/</link>")
}

func TestBuildSkipsDotSegmentTags(t *testing.T) {
	for _, tag := range []string{`".."`, `"."`, `"../posts"`, `"x/../y"`} {
		t.Run(tag, func(t *testing.T) {
			fsys := fstest.MapFS{
				"a.md": postFile("A", "2024-01-01", "go"),
				"b.md": postFile("B", "2024-01-02", tag),
			}
			a := newTestApp(t, fsys, nil)

			report, err := a.Build(context.Background(), BuildOptions{})
			require.NoError(t, err)
			assert.Equal(t, 1, report.Posts)

			rerr := report.Err()
			assert.ErrorIs(t, rerr, content.ErrInvalidTags)
			assert.Contains(t, rerr.Error(), "b.md: tags")

			out := a.Config.OutputDir
			assert.FileExists(t, filepath.Join(out, "index.html"))
			assert.FileExists(t, filepath.Join(out, "posts", "a", "index.html"))
			assert.FileExists(t, filepath.Join(out, "tags", "go", "index.html"))
			assert.NoDirExists(t, filepath.Join(out, "posts", "b"))
		})
	}
}

func TestBuildStaticRobotsWins(t *testing.T) {
	static := fstest.MapFS{"robots.txt": {Data: []byte("User-agent: *\nDisallow: /\n")}}
	a := newTestApp(t, testContent(), static)

	_, err := a.Build(context.Background(), BuildOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(a.Config.OutputDir, "robots.txt"))
	require.NoError(t, err)
	assert.Equal(t, "User-agent: *\nDisallow: /\n", string(data))
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestApp(t, testContent(), nil).Build(ctx, BuildOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
