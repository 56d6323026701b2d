package content

import (
	"errors"
	"fmt"
	"strings"
)

// Front-matter problems. Every required field has its own kind so callers
// can tell a missing title from a missing date.
var (
	ErrMissingTitle         = errors.New("title is required")
	ErrMissingDescription   = errors.New("description is required")
	ErrMissingDate          = errors.New("date is required")
	ErrInvalidDate          = errors.New("date is not a valid calendar date")
	ErrInvalidTags          = errors.New("tags must be a non-empty list of non-empty strings")
	ErrInvalidField         = errors.New("field has the wrong type")
	ErrMalformedFrontMatter = errors.New("front-matter is not valid YAML")
	ErrEmptySlug            = errors.New("slug derived from path is empty")
	ErrInvalidSlug          = errors.New("slug derived from path has a '.' or '..' segment")
)

// ValidationError ties one problem to the file and field it came from.
type ValidationError struct {
	Path  string
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is every problem found in one document.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (es ValidationErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
