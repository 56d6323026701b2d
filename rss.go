package staticpress

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/eringen/staticpress/views"
)

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	AtomXMLNS string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        rssGUID  `xml:"guid"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// Feed renders the RSS 2.0 feed with every post, newest first.
func (s *Site) Feed() ([]byte, error) {
	cfg := s.Config
	posts := newestFirst(s.Registry.All())

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := views.AbsURL(cfg, p.URL)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			PubDate:     p.Published.Format(time.RFC1123Z),
			GUID:        rssGUID{Value: postURL, IsPermaLink: true},
			Categories:  p.Tags,
		})
	}

	channel := rssChannel{
		Title:       cfg.Name,
		Link:        views.AbsURL(cfg, "/"),
		Description: cfg.Description,
		Language:    cfg.Language,
		AtomLink: atomLink{
			Href: views.FileURL(cfg, "feed.xml"),
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Items: items,
	}
	if len(posts) > 0 {
		channel.LastBuildDate = posts[0].Published.Format(time.RFC1123Z)
	}

	feed := rssXML{
		Version:   "2.0",
		AtomXMLNS: "http://www.w3.org/2005/Atom",
		Channel:   channel,
	}
	return encodeXML(feed)
}

func encodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
