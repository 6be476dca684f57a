package deck

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown splits a document into slides at thematic breaks.
// A "---" line directly under a paragraph is a setext heading, not a break;
// separate it with a blank line.
func parseMarkdown(src []byte) *Deck {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	d := &Deck{}
	var blocks []string
	flush := func() {
		d.Slides = append(d.Slides, Slide{Text: strings.Join(blocks, "\n"), Blocks: blocks})
		blocks = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == ast.KindThematicBreak {
			// a leading break opens nothing; later ones close the current slide
			if len(blocks) > 0 || len(d.Slides) > 0 {
				flush()
			}
			continue
		}

		if h, ok := n.(*ast.Heading); ok && d.Title == "" {
			d.Title = headingText(h, src)
		}
		if s := blockText(n, src); s != "" {
			blocks = append(blocks, s)
		}
	}
	if len(blocks) > 0 {
		flush()
	}
	return d
}

func headingText(h *ast.Heading, src []byte) string {
	var sb strings.Builder
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimSpace(sb.String())
}

// blockText returns the source of a top-level block, from the start of its
// first line through the end of its last line, so list markers and quote
// prefixes survive.
func blockText(n ast.Node, src []byte) string {
	if h, ok := n.(*ast.Heading); ok {
		return headingText(h, src)
	}

	start, stop := -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := c.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if start < 0 || seg.Start < start {
				start = seg.Start
			}
			if seg.Stop > stop {
				stop = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if start < 0 {
		return ""
	}
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	return strings.TrimSpace(string(src[start:stop]))
}
