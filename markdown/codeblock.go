package markdown

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/util"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// defaultIcons maps a fence language (lowercased) to an icon file name.
var defaultIcons = map[string]string{
	"go":         "go.svg",
	"golang":     "go.svg",
	"rust":       "rust.svg",
	"rs":         "rust.svg",
	"ts":         "typescript.svg",
	"typescript": "typescript.svg",
	"tsx":        "react.svg",
	"jsx":        "react.svg",
	"js":         "javascript.svg",
	"javascript": "javascript.svg",
	"json":       "json.svg",
	"sh":         "bash.svg",
	"bash":       "bash.svg",
	"shell":      "bash.svg",
	"zsh":        "bash.svg",
	"yaml":       "yaml.svg",
	"yml":        "yaml.svg",
	"toml":       "toml.svg",
	"html":       "html.svg",
	"css":        "css.svg",
	"scss":       "sass.svg",
	"py":         "python.svg",
	"python":     "python.svg",
	"docker":     "docker.svg",
	"dockerfile": "docker.svg",
	"sql":        "database.svg",
	"md":         "markdown.svg",
	"markdown":   "markdown.svg",
}

type iconSet struct {
	base  string
	files map[string]string
}

func newIconSet(base string, overrides map[string]string) iconSet {
	files := make(map[string]string, len(defaultIcons)+len(overrides))
	for k, v := range defaultIcons {
		files[k] = v
	}
	for k, v := range overrides {
		files[strings.ToLower(k)] = v
	}
	return iconSet{base: strings.TrimRight(base, "/"), files: files}
}

// lookup returns the icon URL for lang, or false when none is known.
func (s iconSet) lookup(lang string) (string, bool) {
	file, ok := s.files[strings.ToLower(strings.TrimSpace(lang))]
	if !ok || file == "" {
		return "", false
	}
	return s.base + "/" + file, true
}

// LangIcon reports the icon URL for a fence language using the default
// mapping under base.
func LangIcon(base, lang string) (string, bool) {
	return newIconSet(base, nil).lookup(lang)
}

// wrapCodeBlock surrounds every fenced block with a figure and, when the
// block names a language or carries a title attribute, a title bar. The
// icon is only emitted for languages with a known icon.
func (c *Compiler) wrapCodeBlock(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	lang := ""
	if l, ok := ctx.Language(); ok {
		lang = string(l)
	}

	if !entering {
		if !ctx.Highlighted() {
			_, _ = w.WriteString("</code></pre>\n")
		}
		_, _ = w.WriteString("</figure>\n")
		return
	}

	_, _ = w.WriteString("<figure data-code-fragment")
	if lang != "" {
		_, _ = w.WriteString(` data-language="` + html.EscapeString(lang) + `"`)
	}
	_, _ = w.WriteString(">")

	title := codeTitle(ctx.Attributes())
	icon, hasIcon := c.icons.lookup(lang)
	if title != "" || lang != "" {
		label := title
		if label == "" {
			label = lang
		}
		_, _ = w.WriteString(`<div data-code-title`)
		if lang != "" {
			_, _ = w.WriteString(` data-language="` + html.EscapeString(lang) + `"`)
		}
		_, _ = w.WriteString(">")
		if hasIcon {
			_, _ = w.WriteString(`<img src="` + html.EscapeString(icon) + `" data-code-title-icon="" width="18px" height="18px" alt=""/>`)
		}
		_, _ = w.WriteString(html.EscapeString(label))
		_, _ = w.WriteString("</div>")
	}

	if !ctx.Highlighted() {
		_, _ = w.WriteString("<pre><code")
		if lang != "" {
			_, _ = w.WriteString(` class="language-` + html.EscapeString(lang) + `"`)
		}
		_, _ = w.WriteString(">")
	}
}

func codeTitle(attrs highlighting.ImmutableAttributes) string {
	if attrs == nil {
		return ""
	}
	v, ok := attrs.Get([]byte("title"))
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	}
	return ""
}
