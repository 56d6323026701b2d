package staticpress

import (
	"errors"
	"fmt"

	"github.com/eringen/staticpress/content"
)

var (
	// ErrNotFound is returned when a requested post, tag or route does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSlug is returned when two documents map to the same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// Registry is the immutable set of posts for one build, indexed by slug and
// tag. All accessors return copies so callers may sort or trim freely.
type Registry struct {
	posts  []content.Post
	bySlug map[string]int
	byTag  map[string][]int
	tags   []string
}

// NewRegistry indexes posts in the order given.
func NewRegistry(posts []content.Post) (*Registry, error) {
	r := &Registry{
		posts:  make([]content.Post, len(posts)),
		bySlug: make(map[string]int, len(posts)),
		byTag:  make(map[string][]int),
	}
	copy(r.posts, posts)

	for i, p := range r.posts {
		if prev, ok := r.bySlug[p.Slug]; ok {
			return nil, fmt.Errorf("%w: %q from %s and %s",
				ErrDuplicateSlug, p.Slug, r.posts[prev].SourcePath, p.SourcePath)
		}
		r.bySlug[p.Slug] = i

		seen := make(map[string]struct{}, len(p.Tags))
		for _, tag := range p.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if _, known := r.byTag[tag]; !known {
				r.tags = append(r.tags, tag)
			}
			r.byTag[tag] = append(r.byTag[tag], i)
		}
	}
	return r, nil
}

// All returns every post in registry order.
func (r *Registry) All() []content.Post {
	out := make([]content.Post, len(r.posts))
	copy(out, r.posts)
	return out
}

// Len returns the number of posts.
func (r *Registry) Len() int {
	return len(r.posts)
}

// ByTag returns the posts carrying tag, in registry order. An unknown tag
// yields an empty slice.
func (r *Registry) ByTag(tag string) []content.Post {
	idx := r.byTag[tag]
	out := make([]content.Post, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.posts[i])
	}
	return out
}

// HasTag reports whether any post carries tag.
func (r *Registry) HasTag(tag string) bool {
	_, ok := r.byTag[tag]
	return ok
}

// UniqueTags returns each tag once, in the order it was first seen.
func (r *Registry) UniqueTags() []string {
	out := make([]string, len(r.tags))
	copy(out, r.tags)
	return out
}

// BySlug returns the post with slug or ErrNotFound.
func (r *Registry) BySlug(slug string) (content.Post, error) {
	i, ok := r.bySlug[slug]
	if !ok {
		return content.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	return r.posts[i], nil
}
