// Package markdown compiles post bodies to HTML with GitHub-flavored
// extensions, class-based syntax highlighting, heading anchors and a
// table of contents.
package markdown

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

const (
	// DefaultStyle is the chroma style used for code blocks.
	DefaultStyle = "github"
	// DefaultAnchorClass is set on the link wrapping each heading.
	DefaultAnchorClass = "anchor"
	// DefaultIconBase is the URL prefix for language icons.
	DefaultIconBase = "/icons"
)

// Options configures a Compiler. Zero values fall back to the defaults.
type Options struct {
	Style       string
	AnchorClass string
	IconBase    string
	// Icons overrides or extends the language -> icon file mapping.
	Icons map[string]string
}

// Result is the compiled form of one Markdown body.
type Result struct {
	HTML string
	TOC  []TOCEntry
}

// Compiler turns Markdown into HTML. A Compiler holds no per-document
// state and may be shared between goroutines.
type Compiler struct {
	md    goldmark.Markdown
	icons iconSet
}

// NewCompiler builds a Compiler from opts.
func NewCompiler(opts Options) *Compiler {
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}
	if opts.AnchorClass == "" {
		opts.AnchorClass = DefaultAnchorClass
	}
	if opts.IconBase == "" {
		opts.IconBase = DefaultIconBase
	}

	c := &Compiler{icons: newIconSet(opts.IconBase, opts.Icons)}
	c.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.Style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				highlighting.WithWrapperRenderer(c.wrapCodeBlock),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
			parser.WithASTTransformers(
				util.Prioritized(&headingTransformer{class: opts.AnchorClass}, 100),
			),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return c
}

// Compile renders src to HTML and extracts its table of contents.
func (c *Compiler) Compile(src []byte) (Result, error) {
	pc := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	doc := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
		return Result{}, fmt.Errorf("markdown render: %w", err)
	}
	return Result{
		HTML: buf.String(),
		TOC:  extractTOC(doc, src),
	}, nil
}

// StyleCSS returns the stylesheet matching the classes emitted for the
// named chroma style. Unknown names use chroma's fallback style.
func StyleCSS(name string) (string, error) {
	if name == "" {
		name = DefaultStyle
	}
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(name)); err != nil {
		return "", fmt.Errorf("write %s css: %w", name, err)
	}
	return buf.String(), nil
}
