package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/staticpress/content"
	"github.com/eringen/staticpress/markdown"
)

// Home is the landing page: profile header, about list, social links and
// the most recent posts.
func Home(cfg SiteConfig, recent []content.Post) templ.Component {
	meta := PageMeta{
		URL:    AbsURL(cfg, "/"),
		OGType: "website",
		JSONLD: WebsiteJsonLD(cfg),
	}
	return Layout(cfg, meta, component(func(h *htmlWriter) {
		h.raw("<div class=\"home\">\n<div class=\"home-header\">")
		h.component(ProfileImage(cfg.Profile, profileLarge))
		h.raw("<div>")
		if cfg.Heading != "" {
			h.raw("<h1>")
			h.text(cfg.Heading)
			h.raw("</h1>")
		}
		if cfg.Subheading != "" {
			h.raw("<h2>")
			h.text(cfg.Subheading)
			h.raw("</h2>")
		}
		h.raw("</div>\n</div>\n")

		if len(cfg.Bio) > 0 {
			h.raw("<div class=\"bio\">\n")
			if cfg.BioIntro != "" {
				h.raw("<p>")
				h.text(cfg.BioIntro)
				h.raw("</p>\n")
			}
			h.raw("<ul>\n")
			for _, item := range cfg.Bio {
				h.raw("<li>")
				h.text(item)
				h.raw("</li>\n")
			}
			h.raw("</ul>\n</div>\n")
		}

		if len(cfg.Socials) > 0 {
			h.raw("<p>You can find me on ")
			for i, l := range cfg.Socials {
				switch {
				case i == 0:
				case i == len(cfg.Socials)-1:
					h.raw(" and ")
				default:
					h.raw(", ")
				}
				h.link(l.URL, l.Label)
			}
			h.raw("</p>\n")
		}

		if len(recent) > 0 {
			h.raw("<section class=\"recent\">\n<h2>Recent posts</h2>\n")
			h.component(summaries(cfg, recent))
			h.raw("<p><a href=\"/posts\">All posts</a></p>\n</section>\n")
		}
		h.raw("</div>\n")
	}))
}

// PostList lists every post as a summary.
func PostList(cfg SiteConfig, posts []content.Post) templ.Component {
	meta := PageMeta{
		Title:  "Posts",
		URL:    AbsURL(cfg, "/posts"),
		OGType: "website",
	}
	return Layout(cfg, meta, component(func(h *htmlWriter) {
		h.raw("<div class=\"posts\">\n")
		h.component(summaries(cfg, posts))
		h.raw("</div>\n")
	}))
}

// Post renders a single post with a table of contents and related posts.
func Post(cfg SiteConfig, post content.Post, related []content.Post) templ.Component {
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Description,
		URL:         AbsURL(cfg, post.URL),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(cfg, post),
	}
	return Layout(cfg, meta, component(func(h *htmlWriter) {
		if len(post.TOC) > 1 {
			h.raw("<nav class=\"toc\" aria-label=\"Table of contents\">")
			writeTOC(h, post.TOC)
			h.raw("</nav>\n")
		}
		h.component(Article(cfg, post))
		if len(related) > 0 {
			h.raw("<aside class=\"related\">\n<h2>Related posts</h2>\n<ul>\n")
			for _, p := range related {
				h.raw("<li>")
				h.link(p.URL, p.Title)
				h.raw("</li>\n")
			}
			h.raw("</ul>\n</aside>\n")
		}
	}))
}

func writeTOC(h *htmlWriter, entries []markdown.TOCEntry) {
	h.raw("<ol>")
	for _, e := range entries {
		h.raw("<li>")
		h.link("#"+e.ID, e.Text)
		if len(e.Children) > 0 {
			writeTOC(h, e.Children)
		}
		h.raw("</li>")
	}
	h.raw("</ol>")
}

// TagIndex links every tag, separated by bullets. tags must already be in
// display order.
func TagIndex(cfg SiteConfig, tags []string) templ.Component {
	meta := PageMeta{
		Title:  "Tags",
		URL:    AbsURL(cfg, "/tags"),
		OGType: "website",
	}
	return Layout(cfg, meta, component(func(h *htmlWriter) {
		h.raw("<div class=\"header\">\n<h1>All tags</h1>\n<p>")
		for i, tag := range tags {
			if i > 0 {
				h.raw(" • ")
			}
			h.link(TagURL(tag), tag)
		}
		h.raw("</p>\n</div>\n")
	}))
}

// TagDetail lists the posts carrying tag.
func TagDetail(cfg SiteConfig, tag string, posts []content.Post) templ.Component {
	meta := PageMeta{
		Title:  "#" + tag,
		URL:    AbsURL(cfg, TagURL(tag)),
		OGType: "website",
	}
	return Layout(cfg, meta, component(func(h *htmlWriter) {
		h.raw("<div class=\"header\">\n<h1>All posts about #")
		h.text(tag)
		h.raw("</h1>\n<h3>Looking for another tag? See <a href=\"/tags\">all tags</a>.</h3>\n</div>\n")
		h.raw("<div class=\"posts\">\n")
		h.component(summaries(cfg, posts))
		h.raw("</div>\n")
	}))
}

// NotFound is shown for any unknown route.
func NotFound(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "Not Found"}
	return Layout(cfg, meta, component(func(h *htmlWriter) {
		h.raw("<div class=\"not-found\">\n<h2>Not Found</h2>\n<p>Could not find requested resource</p>\n<a href=\"/\">Return Home</a>\n</div>\n")
	}))
}
