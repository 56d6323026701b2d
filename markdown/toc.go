package markdown

import (
	"github.com/yuin/goldmark/ast"
)

// TOCEntry is one heading in the table of contents. Headings of a deeper
// level that follow it are nested under Children.
type TOCEntry struct {
	Level    int
	ID       string
	Text     string
	Children []TOCEntry
}

type tocHeading struct {
	level int
	id    string
	text  string
}

func extractTOC(doc ast.Node, source []byte) []TOCEntry {
	var flat []tocHeading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		flat = append(flat, tocHeading{level: h.Level, id: id, text: plainText(h, source)})
		return ast.WalkSkipChildren, nil
	})
	return nestTOC(flat)
}

func nestTOC(hs []tocHeading) []TOCEntry {
	var out []TOCEntry
	for i := 0; i < len(hs); {
		h := hs[i]
		j := i + 1
		for j < len(hs) && hs[j].level > h.level {
			j++
		}
		out = append(out, TOCEntry{
			Level:    h.level,
			ID:       h.id,
			Text:     h.text,
			Children: nestTOC(hs[i+1 : j]),
		})
		i = j
	}
	return out
}
