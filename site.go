package staticpress

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/staticpress/content"
	"github.com/eringen/staticpress/views"
)

// ViewFuncs holds the templ components the site renders pages with. Any
// field left nil falls back to the stock component from the views package.
type ViewFuncs struct {
	Home     func(cfg views.SiteConfig, recent []content.Post) templ.Component
	PostList func(cfg views.SiteConfig, posts []content.Post) templ.Component
	Post     func(cfg views.SiteConfig, post content.Post, related []content.Post) templ.Component
	TagIndex func(cfg views.SiteConfig, tags []string) templ.Component
	Tag      func(cfg views.SiteConfig, tag string, posts []content.Post) templ.Component
	NotFound func(cfg views.SiteConfig) templ.Component
}

func (v *ViewFuncs) setDefaults() {
	if v.Home == nil {
		v.Home = views.Home
	}
	if v.PostList == nil {
		v.PostList = views.PostList
	}
	if v.Post == nil {
		v.Post = views.Post
	}
	if v.TagIndex == nil {
		v.TagIndex = views.TagIndex
	}
	if v.Tag == nil {
		v.Tag = views.TagDetail
	}
	if v.NotFound == nil {
		v.NotFound = views.NotFound
	}
}

// Page is one renderable route.
type Page struct {
	Route     string
	Status    int
	Component templ.Component
}

// Site resolves routes to pages against one Registry.
type Site struct {
	Registry *Registry
	Config   views.SiteConfig
	Views    ViewFuncs

	homeLimit int
}

// NewSite creates a Site. homeLimit bounds the posts listed on the home
// page; zero or less hides the list.
func NewSite(reg *Registry, cfg views.SiteConfig, v ViewFuncs, homeLimit int) *Site {
	v.setDefaults()
	if homeLimit < 0 {
		homeLimit = 0
	}
	return &Site{Registry: reg, Config: cfg, Views: v, homeLimit: homeLimit}
}

func newestFirst(posts []content.Post) []content.Post {
	content.SortNewestFirst(posts)
	return posts
}

// HomePage is the landing page with the most recent posts.
func (s *Site) HomePage() Page {
	recent := newestFirst(s.Registry.All())
	if len(recent) > s.homeLimit {
		recent = recent[:s.homeLimit]
	}
	return Page{Route: "/", Status: http.StatusOK, Component: s.Views.Home(s.Config, recent)}
}

// PostListPage lists every post, newest first.
func (s *Site) PostListPage() Page {
	posts := newestFirst(s.Registry.All())
	return Page{Route: "/posts", Status: http.StatusOK, Component: s.Views.PostList(s.Config, posts)}
}

// PostPage renders one post with the posts that share a tag with it.
func (s *Site) PostPage(slug string) (Page, error) {
	post, err := s.Registry.BySlug(slug)
	if err != nil {
		return Page{}, err
	}
	related := views.FilterRelatedPosts(post, newestFirst(s.Registry.All()))
	return Page{
		Route:     "/posts/" + post.Slug,
		Status:    http.StatusOK,
		Component: s.Views.Post(s.Config, post, related),
	}, nil
}

// SortedTags returns the unique tags in ascending order.
func (s *Site) SortedTags() []string {
	tags := s.Registry.UniqueTags()
	sort.Strings(tags)
	return tags
}

// TagIndexPage links every tag.
func (s *Site) TagIndexPage() Page {
	return Page{Route: "/tags", Status: http.StatusOK, Component: s.Views.TagIndex(s.Config, s.SortedTags())}
}

// TagPage lists the posts carrying tag. A tag no post carries is
// ErrNotFound.
func (s *Site) TagPage(tag string) (Page, error) {
	if !s.Registry.HasTag(tag) {
		return Page{}, fmt.Errorf("tag %q: %w", tag, ErrNotFound)
	}
	posts := newestFirst(s.Registry.ByTag(tag))
	return Page{
		Route:     "/tags/" + tag,
		Status:    http.StatusOK,
		Component: s.Views.Tag(s.Config, tag, posts),
	}, nil
}

// NotFoundPage is served for unknown routes and exported as 404.html.
func (s *Site) NotFoundPage() Page {
	return Page{Route: "/404", Status: http.StatusNotFound, Component: s.Views.NotFound(s.Config)}
}

// Routes lists every route the site publishes: home, post list, each post,
// tag index and each tag. Routes are unescaped; links use Post.URL and
// views.TagURL.
func (s *Site) Routes() []string {
	routes := []string{"/", "/posts"}
	for _, p := range newestFirst(s.Registry.All()) {
		routes = append(routes, "/posts/"+p.Slug)
	}
	routes = append(routes, "/tags")
	for _, tag := range s.SortedTags() {
		routes = append(routes, "/tags/"+tag)
	}
	return routes
}

// Resolve maps an escaped request path to its page. Unknown paths are
// ErrNotFound.
func (s *Site) Resolve(requestPath string) (Page, error) {
	route, err := url.PathUnescape(requestPath)
	if err != nil {
		return Page{}, fmt.Errorf("route %q: %w", requestPath, ErrNotFound)
	}
	return s.resolve(route)
}

func (s *Site) resolve(route string) (Page, error) {
	route = "/" + strings.Trim(route, "/")
	switch {
	case route == "/":
		return s.HomePage(), nil
	case route == "/posts":
		return s.PostListPage(), nil
	case strings.HasPrefix(route, "/posts/"):
		return s.PostPage(strings.TrimPrefix(route, "/posts/"))
	case route == "/tags":
		return s.TagIndexPage(), nil
	case strings.HasPrefix(route, "/tags/"):
		return s.TagPage(strings.TrimPrefix(route, "/tags/"))
	}
	return Page{}, fmt.Errorf("route %q: %w", route, ErrNotFound)
}

// Pages resolves every published route. Any route that fails to resolve
// aborts with its error.
func (s *Site) Pages() ([]Page, error) {
	routes := s.Routes()
	pages := make([]Page, 0, len(routes))
	for _, route := range routes {
		p, err := s.resolve(route)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", route, err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}
