package parser

import (
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
)

// treeBuilder assembles an mdoc document tree from heading and content
// events. The non-mdoc frontends share it so they agree on how sections
// nest and where paragraph breaks land.
type treeBuilder struct {
	doc   *mdoc.Doc
	curSh *mdoc.Node
	curSs *mdoc.Node
	sep   bool // pending paragraph break before the next content
}

func newTreeBuilder(title string) *treeBuilder {
	return &treeBuilder{
		doc: &mdoc.Doc{Title: title, Root: &mdoc.Node{Type: mdoc.TypeBody}},
	}
}

func (b *treeBuilder) Doc() *mdoc.Doc { return b.doc }

// body is where flowing content currently lands.
func (b *treeBuilder) body() *mdoc.Node {
	if b.curSs != nil {
		return b.curSs.Body
	}
	if b.curSh != nil {
		return b.curSh.Body
	}
	return b.doc.Root
}

// Heading opens a new section. Top-level headings become sections;
// deeper ones become subsections of the current section.
func (b *treeBuilder) Heading(level int, title string) {
	title = strings.TrimSpace(title)
	if level <= 1 || b.curSh == nil {
		blk := mdoc.NewBlock(mdoc.Sh)
		blk.Head.AppendChild(mdoc.NewText(title))
		b.doc.Root.AppendChild(blk)
		b.curSh, b.curSs = blk, nil
	} else {
		blk := mdoc.NewBlock(mdoc.Ss)
		blk.Head.AppendChild(mdoc.NewText(title))
		b.curSh.Body.AppendChild(blk)
		b.curSs = blk
	}
	b.sep = false
}

// Append adds a node to the current body, inserting a paragraph break
// first when one is pending.
func (b *treeBuilder) Append(n *mdoc.Node) {
	body := b.body()
	if b.sep {
		body.AppendChild(mdoc.NewElem(mdoc.Pp))
		b.sep = false
	}
	body.AppendChild(n)
}

// Text appends a run of flowing text.
func (b *treeBuilder) Text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	n := mdoc.NewText(s)
	n.Flags |= mdoc.FlagLineStart
	b.Append(n)
}

// Code appends a preformatted display block, one text node per line
// with whitespace kept verbatim.
func (b *treeBuilder) Code(text string) {
	blk := mdoc.NewBlock(mdoc.Bd)
	blk.Flags |= mdoc.FlagNoFill
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		n := mdoc.NewText(line)
		n.Flags |= mdoc.FlagNoFill | mdoc.FlagLineStart
		blk.Body.AppendChild(n)
	}
	b.Append(blk)
	b.sep = false
}

// Break records a paragraph boundary; the break node is only emitted
// if more content follows.
func (b *treeBuilder) Break() {
	b.sep = true
}

// newLink builds a hyperlink element. The description, when present,
// is a single text node following the target.
func newLink(url, desc string) *mdoc.Node {
	el := mdoc.NewElem(mdoc.Lk)
	el.Flags |= mdoc.FlagLineStart
	el.AppendChild(mdoc.NewText(url))
	desc = strings.TrimSpace(desc)
	if desc != "" && desc != url {
		el.AppendChild(mdoc.NewText(desc))
	}
	return el
}

// newInline builds an inline element holding a single text payload.
func newInline(tag mdoc.Tag, text string) *mdoc.Node {
	el := mdoc.NewElem(tag)
	el.Flags |= mdoc.FlagLineStart
	el.AppendChild(mdoc.NewText(strings.TrimSpace(text)))
	return el
}
