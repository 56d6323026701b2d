package staticpress

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"

	"github.com/eringen/staticpress/content"
	"github.com/eringen/staticpress/views"
)

func render(t *testing.T, p Page) string {
	t.Helper()
	data, err := RenderBytes(context.Background(), p.Component)
	if err != nil {
		t.Fatalf("render %s: %v", p.Route, err)
	}
	return string(data)
}

func TestPostListNewestFirst(t *testing.T) {
	var got []string
	site := testSite(t,
		testPost("older", "2023-01-01"),
		testPost("newer", "2024-06-15"),
	)
	site.Views.PostList = func(_ views.SiteConfig, posts []content.Post) templ.Component {
		got = slugs(posts)
		return templ.NopComponent
	}
	render(t, site.PostListPage())
	if diff := cmp.Diff([]string{"newer", "older"}, got); diff != "" {
		t.Errorf("post list order (-want +got):\n%s", diff)
	}

	html := render(t, testSite(t, testPost("older", "2023-01-01"), testPost("newer", "2024-06-15")).PostListPage())
	if strings.Index(html, "/posts/newer") > strings.Index(html, "/posts/older") {
		t.Error("rendered list shows the older post first")
	}
}

func TestHomePageLimitsRecentPosts(t *testing.T) {
	var got []string
	site := testSite(t,
		testPost("a", "2024-01-01"),
		testPost("b", "2024-02-01"),
		testPost("c", "2024-03-01"),
		testPost("d", "2024-04-01"),
	)
	site.Views.Home = func(_ views.SiteConfig, recent []content.Post) templ.Component {
		got = slugs(recent)
		return templ.NopComponent
	}
	render(t, site.HomePage())
	if diff := cmp.Diff([]string{"d", "c", "b"}, got); diff != "" {
		t.Errorf("recent posts (-want +got):\n%s", diff)
	}
}

func TestHomePageWithoutRecentPosts(t *testing.T) {
	reg, err := NewRegistry([]content.Post{testPost("a", "2024-01-01")})
	if err != nil {
		t.Fatal(err)
	}
	site := NewSite(reg, views.SiteConfig{Name: "Test Blog", URL: "https://example.com"}, ViewFuncs{}, -1)

	called := false
	site.Views.Home = func(_ views.SiteConfig, recent []content.Post) templ.Component {
		called = true
		if len(recent) != 0 {
			t.Errorf("recent posts = %v, want none", slugs(recent))
		}
		return templ.NopComponent
	}
	render(t, site.HomePage())
	if !called {
		t.Error("home view not rendered")
	}
}

func TestTagPage(t *testing.T) {
	site := testSite(t,
		testPost("rusty", "2024-01-01", "rust", "go"),
		testPost("gopher", "2024-02-01", "go"),
	)

	page, err := site.TagPage("go")
	if err != nil {
		t.Fatalf("TagPage(go): %v", err)
	}
	html := render(t, page)
	for _, want := range []string{"All posts about #go", "/posts/rusty", "/posts/gopher", "all tags"} {
		if !strings.Contains(html, want) {
			t.Errorf("tag page missing %q", want)
		}
	}

	if _, err := site.TagPage("python"); !errors.Is(err, ErrNotFound) {
		t.Errorf("TagPage(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestTagIndexSortedAndSeparated(t *testing.T) {
	site := testSite(t,
		testPost("a", "2024-01-01", "web", "go"),
		testPost("b", "2024-01-02", "rust"),
	)
	if diff := cmp.Diff([]string{"go", "rust", "web"}, site.SortedTags()); diff != "" {
		t.Errorf("SortedTags (-want +got):\n%s", diff)
	}
	html := render(t, site.TagIndexPage())
	if !strings.Contains(html, `<a href="/tags/go">go</a> • <a href="/tags/rust">rust</a>`) {
		t.Errorf("tag index not bullet separated:\n%s", html)
	}
}

func TestResolve(t *testing.T) {
	site := testSite(t,
		testPost("hello", "2024-01-01", "c++"),
		testPost("notes/deep", "2024-01-02"),
		testPost("c# tips", "2024-01-03"),
	)
	tests := []struct {
		path      string
		wantRoute string
		wantErr   bool
	}{
		{"/", "/", false},
		{"/posts", "/posts", false},
		{"/posts/", "/posts", false},
		{"/posts/hello", "/posts/hello", false},
		{"/posts/notes/deep", "/posts/notes/deep", false},
		{"/posts/c%23%20tips", "/posts/c# tips", false},
		{"/tags", "/tags", false},
		{"/tags/c%2B%2B", "/tags/c++", false},
		{"/posts/does-not-exist", "", true},
		{"/tags/nope", "", true},
		{"/about", "", true},
		{"/tags/%zz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			page, err := site.Resolve(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Resolve(%q) error = %v, want ErrNotFound", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.path, err)
			}
			if page.Route != tt.wantRoute || page.Status != http.StatusOK {
				t.Errorf("Resolve(%q) = %s/%d, want %s/200", tt.path, page.Route, page.Status, tt.wantRoute)
			}
		})
	}
}

func TestPagesCoverEveryRoute(t *testing.T) {
	site := testSite(t,
		testPost("a", "2024-01-01", "x"),
		testPost("b", "2024-02-01", "y", "x"),
	)
	pages, err := site.Pages()
	if err != nil {
		t.Fatal(err)
	}
	var routes []string
	for _, p := range pages {
		routes = append(routes, p.Route)
	}
	want := []string{"/", "/posts", "/posts/b", "/posts/a", "/tags", "/tags/x", "/tags/y"}
	if diff := cmp.Diff(want, routes); diff != "" {
		t.Errorf("routes (-want +got):\n%s", diff)
	}
}

func TestPostPageRelated(t *testing.T) {
	site := testSite(t,
		testPost("main", "2024-01-01", "go"),
		testPost("sibling", "2024-02-01", "go"),
		testPost("other", "2024-03-01", "rust"),
	)
	page, err := site.PostPage("main")
	if err != nil {
		t.Fatal(err)
	}
	html := render(t, page)
	if !strings.Contains(html, "Related posts") || !strings.Contains(html, "/posts/sibling") {
		t.Error("related section missing sibling post")
	}
	if strings.Contains(html, "/posts/other") {
		t.Error("post without a shared tag listed as related")
	}
}

func TestNotFoundPage(t *testing.T) {
	page := testSite(t).NotFoundPage()
	if page.Status != http.StatusNotFound {
		t.Errorf("status = %d", page.Status)
	}
	html := render(t, page)
	for _, want := range []string{"Not Found", "Could not find requested resource", "Return Home"} {
		if !strings.Contains(html, want) {
			t.Errorf("not-found page missing %q", want)
		}
	}
}
