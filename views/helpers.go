package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/staticpress/content"
)

// DateLayout is how post dates are shown to readers.
const DateLayout = "Jan 2, 2006"

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsURL resolves an escaped site-relative URL, such as Post.URL or
// TagURL, against the site URL.
func AbsURL(cfg SiteConfig, route string) string {
	if unescaped, err := url.PathUnescape(route); err == nil {
		route = unescaped
	}
	route = strings.Trim(route, "/")
	if route == "" {
		return buildURL(cfg.URL)
	}
	return buildURL(cfg.URL, strings.Split(route, "/")...)
}

// FileURL resolves a file name at the site root, without a trailing slash.
func FileURL(cfg SiteConfig, name string) string {
	return strings.TrimRight(cfg.URL, "/") + "/" + strings.TrimLeft(name, "/")
}

// TagURL is the site-relative URL of a tag page.
func TagURL(tag string) string {
	return "/tags/" + url.PathEscape(tag)
}

// FormatDate renders t the way post dates appear on the site.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PageTitle applies the "%s | site" title template. An empty title yields
// the bare site name.
func PageTitle(cfg SiteConfig, title string) string {
	if title == "" {
		return cfg.Name
	}
	if cfg.Name == "" {
		return title
	}
	return title + " | " + cfg.Name
}

// FilterRelatedPosts returns posts that share at least one tag with current.
// Tags match exactly.
func FilterRelatedPosts(current content.Post, posts []content.Post) []content.Post {
	tagSet := make(map[string]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		tagSet[t] = struct{}{}
	}
	var related []content.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[t]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = person(cfg)
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Post) string {
	postURL := AbsURL(cfg, post.URL)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.Published.Format(time.RFC3339),
		"url":           postURL,
		"wordCount":     post.ReadingTime.Words,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = person(cfg)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJsonLD(data)
}

func person(cfg SiteConfig) map[string]string {
	p := map[string]string{
		"@type": "Person",
		"name":  cfg.Author,
	}
	if cfg.AuthorURL != "" {
		p["url"] = cfg.AuthorURL
	}
	return p
}

func marshalJsonLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
