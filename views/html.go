package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/staticpress/markdown"
)

// htmlWriter writes markup and remembers the first error so components can
// be written as straight-line code.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes escaped text. It is also safe inside quoted attributes.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) int(n int) {
	h.raw(strconv.Itoa(n))
}

// href writes a quoted href attribute. Unsafe URLs become "#".
func (h *htmlWriter) href(u string) {
	safe := markdown.SafeURL(u)
	if safe == "" {
		safe = "#"
	}
	h.raw(` href="`, safe, `"`)
}

func (h *htmlWriter) link(u, label string) {
	h.raw("<a")
	h.href(u)
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// component adapts a write function into a templ.Component.
func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		fn(h)
		return h.err
	})
}
