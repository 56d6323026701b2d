package staticpress

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/eringen/staticpress/content"
	"github.com/eringen/staticpress/views"
)

func testPost(slug, date string, tags ...string) content.Post {
	published, err := content.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return content.Post{
		Title:       "Title " + slug,
		Description: "About " + slug,
		Date:        date,
		Published:   published,
		Tags:        tags,
		Slug:        slug,
		URL:         content.PostURL(slug),
		Body:        "<p>" + slug + "</p>",
		SourcePath:  slug + ".md",
	}
}

func testSite(t *testing.T, posts ...content.Post) *Site {
	t.Helper()
	reg, err := NewRegistry(posts)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	cfg := views.SiteConfig{
		Name:     "Test Blog",
		URL:      "https://example.com",
		Language: "en",
		Author:   "Ada",
	}
	return NewSite(reg, cfg, ViewFuncs{}, 3)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
}
