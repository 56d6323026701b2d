package views

import (
	"github.com/a-h/templ"
)

// FaviconHref draws an emoji into an inline SVG data URL.
func FaviconHref(emoji string) string {
	return "data:image/svg+xml,<svg xmlns=%22http://www.w3.org/2000/svg%22 viewBox=%220 0 100 100%22>" +
		"<text y=%22.9em%22 font-size=%2290%22>" + emoji + "</text></svg>"
}

// Layout is the page shell shared by every page: head metadata, navigation,
// the content column and the footer.
func Layout(cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		lang := cfg.Language
		if lang == "" {
			lang = "en"
		}
		h.raw("<!DOCTYPE html>\n<html lang=\"")
		h.text(lang)
		h.raw("\">\n<head>\n<meta charset=\"utf-8\">\n")
		h.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")

		h.raw("<title>")
		h.text(PageTitle(cfg, meta.Title))
		h.raw("</title>\n")

		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		if description != "" {
			h.raw(`<meta name="description" content="`)
			h.text(description)
			h.raw("\">\n")
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.text(meta.URL)
			h.raw("\">\n")
		}
		writeOpenGraph(h, cfg, meta, description)

		if cfg.Favicon != "" {
			h.raw(`<link rel="icon" href="`)
			h.text(FaviconHref(cfg.Favicon))
			h.raw("\">\n")
		}
		if cfg.ThemeColor != "" {
			h.raw(`<meta name="theme-color" content="`)
			h.text(cfg.ThemeColor)
			h.raw("\">\n")
		}
		for _, sheet := range cfg.Stylesheets {
			h.raw(`<link rel="stylesheet" href="`)
			h.text(sheet)
			h.raw("\">\n")
		}
		if cfg.FeedURL != "" {
			h.raw(`<link rel="alternate" type="application/rss+xml" title="`)
			h.text(cfg.Name)
			h.raw(`" href="`)
			h.text(cfg.FeedURL)
			h.raw("\">\n")
		}
		if meta.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`, meta.JSONLD, "</script>\n")
		}
		h.raw("</head>\n<body>\n")

		h.raw("<nav>")
		for _, l := range cfg.Nav {
			h.link(l.URL, l.Label)
		}
		h.raw("</nav>\n")

		h.raw("<div class=\"content\">\n")
		h.component(body)
		h.raw("</div>\n")

		h.component(footer(cfg))
		h.raw("</body>\n</html>\n")
	})
}

func writeOpenGraph(h *htmlWriter, cfg SiteConfig, meta PageMeta, description string) {
	ogType := meta.OGType
	if ogType == "" {
		ogType = "website"
	}
	props := [][2]string{
		{"og:site_name", cfg.Name},
		{"og:title", PageTitle(cfg, meta.Title)},
		{"og:description", description},
		{"og:url", meta.URL},
		{"og:type", ogType},
	}
	for _, p := range props {
		if p[1] == "" {
			continue
		}
		h.raw(`<meta property="`, p[0], `" content="`)
		h.text(p[1])
		h.raw("\">\n")
	}
}

func footer(cfg SiteConfig) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<footer>\n<div class=\"footer-content\">\n<div class=\"split-pane\">\n")
		footerPane(h, "Made with", cfg.MadeWith)
		footerPane(h, "Socials", cfg.Socials)
		h.raw("</div>\n<div class=\"copyright\">© ")
		h.int(cfg.Year)
		if cfg.Author != "" {
			h.raw(" ")
			if cfg.AuthorURL != "" {
				h.link(cfg.AuthorURL, cfg.Author)
			} else {
				h.text(cfg.Author)
			}
		}
		h.raw("</div>\n</div>\n</footer>\n")
	})
}

func footerPane(h *htmlWriter, heading string, links []Link) {
	if len(links) == 0 {
		return
	}
	h.raw("<div class=\"pane\">\n<p>")
	h.text(heading)
	h.raw("</p>\n")
	for _, l := range links {
		h.raw("<p>")
		h.link(l.URL, l.Label)
		h.raw("</p>\n")
	}
	h.raw("</div>\n")
}
