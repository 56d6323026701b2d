package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// dateLayouts are tried in order when parsing the date field.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDate parses the date formats accepted in front-matter.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// frontMatter is the typed view of a post header. The json tags name the
// keys ozzo-validation reports errors under.
type frontMatter struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`

	hasTags   bool
	published time.Time
}

// parseFrontMatter splits raw into header and body and checks the header
// field types. Documents without a header yield an empty frontMatter.
func parseFrontMatter(path string, raw []byte) (frontMatter, []byte, ValidationErrors) {
	var fields map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fields)
	if err != nil {
		return frontMatter{}, nil, ValidationErrors{{
			Path: path,
			Err:  fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err),
		}}
	}

	var (
		fm   frontMatter
		errs ValidationErrors
	)
	typeErr := func(field string, v any) {
		errs = append(errs, &ValidationError{
			Path:  path,
			Field: field,
			Err:   fmt.Errorf("%w: got %T", ErrInvalidField, v),
		})
	}

	for _, key := range []string{"title", "description"} {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		s, isString := v.(string)
		if !isString {
			typeErr(key, v)
			continue
		}
		if key == "title" {
			fm.Title = strings.TrimSpace(s)
		} else {
			fm.Description = strings.TrimSpace(s)
		}
	}

	switch v := fields["date"].(type) {
	case nil:
	case string:
		fm.Date = strings.TrimSpace(v)
	case time.Time:
		fm.Date = v.Format(time.RFC3339)
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			fm.Date = v.Format("2006-01-02")
		}
	default:
		typeErr("date", v)
	}

	if v, ok := fields["tags"]; ok {
		fm.hasTags = true
		switch list := v.(type) {
		case []any:
			for _, item := range list {
				s, isString := item.(string)
				if !isString {
					errs = append(errs, &ValidationError{
						Path:  path,
						Field: "tags",
						Err:   fmt.Errorf("%w: element of type %T", ErrInvalidTags, item),
					})
					fm.Tags = nil
					break
				}
				fm.Tags = append(fm.Tags, strings.TrimSpace(s))
			}
		case nil:
			// "tags:" with no value; caught as an empty list below.
		default:
			errs = append(errs, &ValidationError{
				Path:  path,
				Field: "tags",
				Err:   fmt.Errorf("%w: got %T", ErrInvalidTags, v),
			})
			fm.hasTags = false
		}
	}
	return fm, body, errs
}

// validate applies the required-field and format rules.
func (fm *frontMatter) validate(path string, skip map[string]bool) ValidationErrors {
	err := validation.ValidateStruct(fm,
		validation.Field(&fm.Title, validation.When(!skip["title"], validation.Required)),
		validation.Field(&fm.Description, validation.When(!skip["description"], validation.Required)),
		validation.Field(&fm.Date,
			validation.When(!skip["date"], validation.Required),
			validation.By(func(value any) error {
				s, _ := value.(string)
				if s == "" {
					return nil
				}
				t, err := ParseDate(s)
				if err != nil {
					return validation.NewError("content_invalid_date", "must be a valid date")
				}
				fm.published = t
				return nil
			}),
		),
		validation.Field(&fm.Tags,
			validation.When(fm.hasTags && !skip["tags"],
				validation.Required,
				validation.Each(validation.Required, validation.By(pathSafeTag)),
			),
		),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Path: path, Err: err}}
	}

	var out ValidationErrors
	for _, field := range []string{"title", "description", "date", "tags"} {
		fe, ok := fieldErrs[field]
		if !ok {
			continue
		}
		out = append(out, &ValidationError{Path: path, Field: field, Err: kindFor(field, fe)})
	}
	return out
}

// pathSafeTag rejects tags that would leave /tags/{tag} when used as a
// path: anything holding a slash and the dot segments.
func pathSafeTag(value any) error {
	s, _ := value.(string)
	if strings.Contains(s, "/") || s == "." || s == ".." {
		return validation.NewError("content_invalid_tag", "must not contain '/' or be '.' or '..'")
	}
	return nil
}

// kindFor maps an ozzo rule failure onto the package's named errors.
func kindFor(field string, err error) error {
	required := false
	var ve validation.Error
	if errors.As(err, &ve) && ve.Code() == validation.ErrRequired.Code() {
		required = true
	}
	switch field {
	case "title":
		return ErrMissingTitle
	case "description":
		return ErrMissingDescription
	case "date":
		if required {
			return ErrMissingDate
		}
		return ErrInvalidDate
	case "tags":
		return fmt.Errorf("%w: %v", ErrInvalidTags, err)
	}
	return err
}
