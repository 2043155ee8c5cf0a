package markdown

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// md renders CommonMark. Raw HTML in the source is dropped.
var md = goldmark.New()

// Render converts a project description to HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Excerpt returns the text of the first paragraph or heading of source with
// markup removed, cut to at most limit runes.
func Excerpt(source string, limit int) string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var excerpt string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Paragraph, *ast.Heading:
			excerpt = strings.TrimSpace(collectText(n, src))
			if excerpt != "" {
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	if limit > 0 && utf8.RuneCountInString(excerpt) > limit {
		runes := []rune(excerpt)
		excerpt = strings.TrimSpace(string(runes[:limit])) + "…"
	}
	return excerpt
}

func collectText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
