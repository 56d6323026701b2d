// Package scaffold creates a new staticpress site from the embedded starter
// templates.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

const root = "templates"

// ErrExists is returned when the target directory is already present.
var ErrExists = errors.New("directory already exists")

// Data holds the template variables passed to every scaffold template.
type Data struct {
	ProjectName string
	SiteName    string
	Date        string
}

// NewData derives template data from a project name such as "my-blog".
func NewData(name string, now time.Time) Data {
	return Data{
		ProjectName: name,
		SiteName:    Title(name),
		Date:        now.Format("2006-01-02"),
	}
}

// Generate renders every template into dir, which must not exist yet. It
// returns the created files relative to dir, in walk order.
func Generate(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%q: %w", dir, ErrExists)
	}

	var created []string
	err := fs.WalkDir(Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		out := filepath.Join(dir, filepath.FromSlash(outputName(rel)))
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}

		src, err := Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		rendered, err := render(p, src, data)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, rendered, 0o644); err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		created = append(created, filepath.ToSlash(strings.TrimPrefix(out, dir+string(filepath.Separator))))
		return nil
	})
	return created, err
}

// outputName strips .tmpl and maps "dotenv" to ".env.example" so the
// embedded tree carries no dotfiles.
func outputName(rel string) string {
	rel = strings.TrimSuffix(rel, ".tmpl")
	if path.Base(rel) == "dotenv" {
		return path.Join(path.Dir(rel), ".env.example")
	}
	return rel
}

func render(name string, src []byte, data Data) ([]byte, error) {
	if !strings.HasSuffix(name, ".tmpl") {
		return src, nil
	}
	tmpl, err := template.New(path.Base(name)).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Title converts a hyphenated or lowercase name to a title-case string,
// e.g. "my-blog" becomes "My Blog".
func Title(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
