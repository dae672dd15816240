package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings map to
// sections, inline code to command elements, links to hyperlinks, and
// fenced code to preformatted display blocks, so the section and list
// queries work on markdown documentation as well.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*mdoc.Doc, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	b := newTreeBuilder(baseName(filename))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.Heading(node.Level, string(node.Text(src)))
		case *ast.FencedCodeBlock:
			b.Code(blockLines(node, src))
		case *ast.CodeBlock:
			b.Code(blockLines(node, src))
		case *ast.List:
			b.Append(convertList(node, src))
			b.Break()
		case *ast.Paragraph:
			appendInlines(b, node, src)
			b.Break()
		case *ast.ThematicBreak:
			b.Break()
		default:
			if t := nodeText(node, src); t != "" {
				b.Text(t)
				b.Break()
			}
		}
	}

	return b.Doc(), nil
}

// appendInlines converts a paragraph's inline children into a run of
// text and element nodes in the current body.
func appendInlines(b *treeBuilder, n ast.Node, src []byte) {
	var buf strings.Builder
	flush := func() {
		b.Text(buf.String())
		buf.Reset()
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch inline := c.(type) {
		case *ast.Text:
			buf.Write(inline.Value(src))
			if inline.SoftLineBreak() || inline.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.CodeSpan:
			flush()
			b.Append(newInline(mdoc.Ic, nodeText(inline, src)))
		case *ast.Link:
			flush()
			b.Append(newLink(string(inline.Destination), nodeText(inline, src)))
		case *ast.AutoLink:
			flush()
			b.Append(newLink(string(inline.URL(src)), ""))
		case *ast.Emphasis:
			flush()
			tag := mdoc.Em
			if inline.Level > 1 {
				tag = mdoc.Sy
			}
			b.Append(newInline(tag, nodeText(inline, src)))
		default:
			buf.WriteString(nodeText(c, src))
		}
	}
	flush()
}

// convertList turns a markdown list into a Bl block. An item led by
// inline code becomes a labelled entry (the code span is the head); an
// item led by a link keeps the link as the first body element.
func convertList(list ast.Node, src []byte) *mdoc.Node {
	bl := mdoc.NewBlock(mdoc.Bl)
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		it := mdoc.NewBlock(mdoc.It)
		first := true
		for block := li.FirstChild(); block != nil; block = block.NextSibling() {
			if !first {
				it.Body.AppendChild(mdoc.NewElem(mdoc.Pp))
			}
			convertItemBlock(it, block, src, first)
			first = false
		}
		bl.Body.AppendChild(it)
	}
	return bl
}

func convertItemBlock(it *mdoc.Node, block ast.Node, src []byte, lead bool) {
	var buf strings.Builder
	flush := func() {
		t := strings.TrimSpace(buf.String())
		buf.Reset()
		if t == "" {
			return
		}
		n := mdoc.NewText(t)
		n.Flags |= mdoc.FlagLineStart
		it.Body.AppendChild(n)
	}

	for c := block.FirstChild(); c != nil; c = c.NextSibling() {
		switch inline := c.(type) {
		case *ast.CodeSpan:
			flush()
			el := newInline(mdoc.Ic, nodeText(inline, src))
			if lead && c.PreviousSibling() == nil && it.Head.Child == nil {
				it.Head.AppendChild(el)
			} else {
				it.Body.AppendChild(el)
			}
		case *ast.Link:
			flush()
			it.Body.AppendChild(newLink(string(inline.Destination), nodeText(inline, src)))
		case *ast.AutoLink:
			flush()
			it.Body.AppendChild(newLink(string(inline.URL(src)), ""))
		case *ast.Text:
			buf.Write(inline.Value(src))
			if inline.SoftLineBreak() || inline.HardLineBreak() {
				buf.WriteByte(' ')
			}
		default:
			buf.WriteString(nodeText(c, src))
		}
	}
	flush()
}

// blockLines returns the raw source lines of a code block.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}

// nodeText gets the text content of a goldmark AST node.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
