package staticpress

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFeed(t *testing.T) {
	site := testSite(t,
		testPost("older", "2023-01-01", "go"),
		testPost("newer", "2024-06-15", "rust", "go"),
	)
	site.Config.Description = "Notes & essays"

	data, err := site.Feed()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), xml.Header) {
		t.Error("feed missing XML header")
	}

	var feed rssXML
	if err := xml.Unmarshal(data, &feed); err != nil {
		t.Fatalf("feed is not valid XML: %v", err)
	}
	ch := feed.Channel
	if feed.Version != "2.0" || ch.Title != "Test Blog" || ch.Description != "Notes & essays" {
		t.Errorf("channel = %+v", ch)
	}
	if len(ch.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(ch.Items))
	}
	first := ch.Items[0]
	if first.Link != "https://example.com/posts/newer/" || !first.GUID.IsPermaLink {
		t.Errorf("first item = %+v", first)
	}
	if diff := cmp.Diff([]string{"rust", "go"}, first.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
	if first.PubDate != "Sat, 15 Jun 2024 00:00:00 +0000" {
		t.Errorf("pubDate = %q", first.PubDate)
	}
	if ch.LastBuildDate != first.PubDate {
		t.Errorf("lastBuildDate = %q, want newest post date", ch.LastBuildDate)
	}
	if !strings.Contains(string(data), `href="https://example.com/feed.xml"`) {
		t.Error("feed missing atom self link")
	}
}

func TestFeedWithoutPosts(t *testing.T) {
	data, err := testSite(t).Feed()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "<item>") || strings.Contains(string(data), "lastBuildDate") {
		t.Errorf("empty feed has items:\n%s", data)
	}
}

func TestSitemap(t *testing.T) {
	site := testSite(t,
		testPost("a", "2024-01-01", "x"),
		testPost("b", "2024-03-02", "y"),
	)
	data, err := site.Sitemap()
	if err != nil {
		t.Fatal(err)
	}
	var set sitemapURLSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	var locs []string
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	want := []string{
		"https://example.com",
		"https://example.com/posts/",
		"https://example.com/posts/b/",
		"https://example.com/posts/a/",
		"https://example.com/tags/",
		"https://example.com/tags/x/",
		"https://example.com/tags/y/",
	}
	if diff := cmp.Diff(want, locs); diff != "" {
		t.Errorf("sitemap locations (-want +got):\n%s", diff)
	}
	if set.URLs[0].LastMod != "2024-03-02" || set.URLs[3].LastMod != "2024-01-01" {
		t.Errorf("lastmod = %q / %q", set.URLs[0].LastMod, set.URLs[3].LastMod)
	}
}

func TestRobots(t *testing.T) {
	got := string(testSite(t).Robots())
	if !strings.Contains(got, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt = %q", got)
	}
}
