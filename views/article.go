package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/staticpress/content"
)

const (
	profileLarge = 64
	profileSmall = 24
)

// ProfileImage renders the round profile picture at the given display
// width. The height follows the intrinsic aspect ratio when it is known.
func ProfileImage(img Image, size int) templ.Component {
	return component(func(h *htmlWriter) {
		if img.Src == "" {
			return
		}
		height := size
		if img.Width > 0 && img.Height > 0 {
			height = size * img.Height / img.Width
		}
		alt := img.Alt
		if alt == "" {
			alt = "profile picture"
		}
		h.raw(`<img src="`)
		h.text(img.Src)
		h.raw(`" alt="`)
		h.text(alt)
		h.raw(`" width="`)
		h.int(size)
		h.raw(`" height="`)
		h.int(height)
		h.raw(`" loading="lazy" class="profile">`)
	})
}

// metadata is the row under a post title: date, reading time, tags and
// author, separated by bullets in CSS.
func metadata(cfg SiteConfig, post content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<div class=\"metadata\">")
		h.raw(`<time datetime="`)
		h.text(post.Date)
		h.raw(`">`)
		h.text(FormatDate(post.Published))
		h.raw("</time>")

		h.raw("<span>")
		h.text(post.ReadingTime.Text)
		h.raw("</span>")

		if len(post.Tags) > 0 {
			h.raw("<span>")
			for _, tag := range post.Tags {
				h.raw(`<a class="tag"`)
				h.href(TagURL(tag))
				h.raw(">#")
				h.text(tag)
				h.raw("</a>")
			}
			h.raw("</span>")
		}

		if cfg.Author != "" {
			h.raw("<span class=\"byline\">")
			h.component(ProfileImage(cfg.Profile, profileSmall))
			h.raw(" ")
			h.text(cfg.Author)
			h.raw("</span>")
		}
		h.raw("</div>")
	})
}

// ArticleSummary is a post in a listing: linked title, metadata row and
// description, without the body.
func ArticleSummary(cfg SiteConfig, post content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<article class=\"summary\">\n<div>\n<h2>")
		h.link(post.URL, post.Title)
		h.raw("</h2>\n")
		h.component(metadata(cfg, post))
		h.raw("\n<p class=\"description\">")
		h.text(post.Description)
		h.raw("</p>\n</div>\n</article>\n")
	})
}

// Article is a full post: title, metadata row and the compiled body.
func Article(cfg SiteConfig, post content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<article>\n<div>\n<h1>")
		h.text(post.Title)
		h.raw("</h1>\n")
		h.component(metadata(cfg, post))
		h.raw("\n</div>\n")
		h.raw(post.Body)
		h.raw("</article>\n")
	})
}

func summaries(cfg SiteConfig, posts []content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		for _, p := range posts {
			h.component(ArticleSummary(cfg, p))
		}
	})
}
