// Package content turns Markdown sources with YAML front-matter into
// validated, rendered posts.
package content

import (
	"sort"
	"time"

	"github.com/eringen/staticpress/markdown"
)

// ReadingTime is the estimated time to read a post body.
type ReadingTime struct {
	Text    string
	Minutes float64
	Time    time.Duration
	Words   int
}

// Post is a single published article.
type Post struct {
	Title       string
	Description string
	// Date is the front-matter value as written.
	Date      string
	Published time.Time
	Tags      []string
	// Slug is the source path relative to the content root, without
	// extension, always using forward slashes.
	Slug string
	// URL is "/posts/" plus the slug with each segment path-escaped.
	URL  string
	Body string
	TOC  []markdown.TOCEntry

	ReadingTime ReadingTime

	SourcePath string
	Checksum   string
}

// HasTag reports whether the post carries tag exactly.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SortNewestFirst orders posts by publication time, newest first. Posts
// published at the same instant are ordered by slug.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.Published.Equal(b.Published) {
			return a.Published.After(b.Published)
		}
		return a.Slug < b.Slug
	})
}
