package staticpress

import (
	"encoding/xml"
	"fmt"

	"github.com/eringen/staticpress/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap lists the home page, the listings, every post with its date and
// every tag page.
func (s *Site) Sitemap() ([]byte, error) {
	cfg := s.Config
	posts := newestFirst(s.Registry.All())

	urls := []sitemapURL{{Loc: views.AbsURL(cfg, "/")}}
	listing := sitemapURL{Loc: views.AbsURL(cfg, "/posts")}
	if len(posts) > 0 {
		urls[0].LastMod = posts[0].Published.Format("2006-01-02")
		listing.LastMod = urls[0].LastMod
	}
	urls = append(urls, listing)
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     views.AbsURL(cfg, p.URL),
			LastMod: p.Published.Format("2006-01-02"),
		})
	}
	urls = append(urls, sitemapURL{Loc: views.AbsURL(cfg, "/tags")})
	for _, tag := range s.SortedTags() {
		urls = append(urls, sitemapURL{Loc: views.AbsURL(cfg, views.TagURL(tag))})
	}

	return encodeXML(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

// Robots allows everything and points crawlers at the sitemap.
func (s *Site) Robots() []byte {
	return []byte(fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", views.FileURL(s.Config, "sitemap.xml")))
}
