package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/eringen/staticpress/markdown"
)

// Compiler renders a Markdown body.
type Compiler interface {
	Compile(src []byte) (markdown.Result, error)
}

// TransformOption configures a Transformer.
type TransformOption func(*Transformer)

// WithWordsPerMinute sets the reading speed for reading-time estimates.
func WithWordsPerMinute(wpm int) TransformOption {
	return func(t *Transformer) {
		if wpm > 0 {
			t.wpm = wpm
		}
	}
}

// Transformer validates front-matter and derives post fields. It holds no
// mutable state and is safe for concurrent use when its Compiler is.
type Transformer struct {
	compiler Compiler
	wpm      int
}

// NewTransformer returns a Transformer that compiles bodies with c.
func NewTransformer(c Compiler, opts ...TransformOption) *Transformer {
	t := &Transformer{compiler: c, wpm: DefaultWordsPerMinute}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform turns one source document into a Post. rel is the path relative
// to the content root. Invalid documents return ValidationErrors listing
// every problem found.
func (t *Transformer) Transform(rel string, raw []byte) (Post, error) {
	rel = filepath.ToSlash(rel)

	fm, body, errs := parseFrontMatter(rel, raw)
	if len(errs) == 1 && errs[0].Field == "" {
		return Post{}, errs
	}

	skip := make(map[string]bool, len(errs))
	for _, e := range errs {
		skip[e.Field] = true
	}
	errs = append(errs, fm.validate(rel, skip)...)

	slug := SlugFromPath(rel)
	switch {
	case slug == "":
		errs = append(errs, &ValidationError{Path: rel, Field: "slug", Err: ErrEmptySlug})
	case hasDotSegment(slug):
		errs = append(errs, &ValidationError{Path: rel, Field: "slug", Err: ErrInvalidSlug})
	}
	if len(errs) > 0 {
		return Post{}, errs
	}

	res, err := t.compiler.Compile(body)
	if err != nil {
		return Post{}, fmt.Errorf("compile %s: %w", rel, err)
	}

	sum := sha256.Sum256(raw)
	return Post{
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		Published:   fm.published,
		Tags:        fm.Tags,
		Slug:        slug,
		URL:         PostURL(slug),
		Body:        res.HTML,
		TOC:         res.TOC,
		ReadingTime: EstimateReadingTime(string(body), t.wpm),
		SourcePath:  rel,
		Checksum:    hex.EncodeToString(sum[:]),
	}, nil
}

// SlugFromPath strips the extension from a content-relative path.
func SlugFromPath(rel string) string {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// PostURL is the site-relative URL of the post with slug. Each path
// segment is escaped, so "c# tips" links as "/posts/c%23%20tips".
func PostURL(slug string) string {
	segs := strings.Split(slug, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return "/posts/" + strings.Join(segs, "/")
}

// hasDotSegment reports whether any slash-separated segment of s is empty,
// "." or "..".
func hasDotSegment(s string) bool {
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return true
		}
	}
	return false
}
