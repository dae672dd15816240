package mdoc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotMdoc is returned for input that lacks an mdoc prologue.
var ErrNotMdoc = errors.New("not an mdoc document")

var macroTags = map[string]Tag{
	"Nd": Nd, "Lk": Lk, "Mt": Mt, "An": An, "Ic": Ic, "Dv": Dv,
	"Ev": Ev, "Va": Va, "Nm": Nm, "Pa": Pa, "Fl": Fl, "Em": Em,
	"Sy": Sy, "Xr": Xr, "Pq": Pq, "No": No,
}

type blockKind int

const (
	blockSh blockKind = iota
	blockSs
	blockBl
	blockIt
	blockBd
)

type openBlock struct {
	kind blockKind
	node *Node
}

type parser struct {
	doc    *Doc
	stack  []openBlock
	line   int
	sawDt  bool
	noFill bool
}

// Parse reads mdoc source and builds the document tree. It understands
// the macro subset the query engine consumes; unknown macros are dropped
// with their arguments. A document without a .Dt prologue line is
// rejected with ErrNotMdoc.
func Parse(r io.Reader) (*Doc, error) {
	p := &parser{
		doc: &Doc{Root: &Node{Type: TypeBody}},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if !p.sawDt {
		return nil, ErrNotMdoc
	}
	return p.doc, nil
}

func (p *parser) parseLine(line string) error {
	if strings.HasPrefix(line, ".\\\"") || strings.HasPrefix(line, "'\\\"") {
		return nil // comment
	}
	if strings.HasPrefix(line, ".") || strings.HasPrefix(line, "'") {
		return p.parseMacroLine(line)
	}
	p.parseTextLine(line)
	return nil
}

func (p *parser) parseTextLine(line string) {
	cur := p.target()
	if strings.TrimSpace(line) == "" {
		if p.noFill {
			n := p.newText("", 1)
			cur.AppendChild(n)
		} else {
			cur.AppendChild(p.newElem(Pp, 1))
		}
		return
	}
	n := p.newText(line, 1)
	n.Flags |= FlagLineStart
	cur.AppendChild(n)
}

func (p *parser) parseMacroLine(line string) error {
	args := splitArgs(line[1:], 2)
	if len(args) == 0 {
		return nil
	}
	name := args[0].text
	rest := args[1:]

	switch name {
	case "Dd":
		p.doc.Date = joinArgs(rest)
	case "Dt":
		p.sawDt = true
		if len(rest) > 0 {
			p.doc.Title = rest[0].text
		}
		if len(rest) > 1 {
			p.doc.Section = rest[1].text
		}
	case "Os":
		p.doc.Os = joinArgs(rest)
	case "Sh":
		p.closeTo()
		p.openSection(Sh, blockSh, rest)
	case "Ss":
		p.closeTo(blockSh)
		p.openSection(Ss, blockSs, rest)
	case "Bl":
		b := p.newBlock(Bl, 1)
		p.target().AppendChild(b)
		p.push(blockBl, b)
	case "El":
		p.closeOne(blockIt)
		p.closeOne(blockBl)
	case "It":
		p.closeOne(blockIt)
		it := p.newBlock(It, 1)
		p.appendInline(it.Head, rest, true)
		p.target().AppendChild(it)
		p.push(blockIt, it)
	case "Bd":
		b := p.newBlock(Bd, 1)
		for _, a := range rest {
			if a.text == "-literal" || a.text == "-unfilled" {
				b.Flags |= FlagNoFill
			}
		}
		p.target().AppendChild(b)
		p.push(blockBd, b)
		if b.Flags&FlagNoFill != 0 {
			p.noFill = true
		}
	case "Ed":
		p.closeOne(blockBd)
	case "Pp", "Lp":
		n := p.newElem(Pp, 1)
		n.Flags |= FlagLineStart
		p.target().AppendChild(n)
	default:
		if tag, ok := macroTags[name]; ok {
			p.appendMacro(p.target(), tag, rest)
			return nil
		}
		// Unknown macro: dropped, arguments and all.
	}
	return nil
}

// openSection starts a new Sh/Ss block with the line's arguments as the
// head text and an empty body that subsequent lines flow into. The
// caller has already closed enclosing blocks, so the current target is
// the root for .Sh and the enclosing section body for .Ss.
func (p *parser) openSection(tag Tag, kind blockKind, args []arg) {
	b := p.newBlock(tag, 1)
	for _, a := range args {
		b.Head.AppendChild(p.newText(a.text, a.pos))
	}
	p.target().AppendChild(b)
	p.push(kind, b)
}

// appendMacro builds the element chain for an in-line macro and its
// arguments and appends it to parent.
func (p *parser) appendMacro(parent *Node, tag Tag, args []arg) {
	first := p.newElem(tag, 1)
	first.Flags |= FlagLineStart
	parent.AppendChild(first)
	p.fillElem(first, tag, args, parent)
}

// appendInline parses a macro-or-text argument sequence (an .It head).
func (p *parser) appendInline(parent *Node, args []arg, lineStart bool) {
	if len(args) == 0 {
		return
	}
	if tag, ok := macroTags[args[0].text]; ok {
		el := p.newElem(tag, args[0].pos)
		if lineStart {
			el.Flags |= FlagLineStart
		}
		parent.AppendChild(el)
		p.fillElem(el, tag, args[1:], parent)
		return
	}
	for _, a := range args {
		parent.AppendChild(p.newText(a.text, a.pos))
	}
}

// fillElem distributes args into el, splitting off sibling elements when
// a callable macro name appears mid-line. Lk keeps its description as a
// single text node so the renderer can parenthesize it whole.
func (p *parser) fillElem(el *Node, tag Tag, args []arg, parent *Node) {
	if tag == Lk {
		if len(args) > 0 {
			el.AppendChild(p.newText(args[0].text, args[0].pos))
		}
		if len(args) > 1 {
			el.AppendChild(p.newText(joinArgs(args[1:]), args[1].pos))
		}
		return
	}
	for i, a := range args {
		if t, ok := macroTags[a.text]; ok {
			sib := p.newElem(t, a.pos)
			parent.AppendChild(sib)
			p.fillElem(sib, t, args[i+1:], parent)
			return
		}
		el.AppendChild(p.newText(a.text, a.pos))
	}
}

func (p *parser) newText(s string, pos int) *Node {
	n := NewText(s)
	n.Line, n.Pos = p.line, pos
	if p.noFill {
		n.Flags |= FlagNoFill
	}
	return n
}

func (p *parser) newElem(tag Tag, pos int) *Node {
	n := NewElem(tag)
	n.Line, n.Pos = p.line, pos
	return n
}

func (p *parser) newBlock(tag Tag, pos int) *Node {
	b := NewBlock(tag)
	b.Line, b.Pos = p.line, pos
	b.Head.Line, b.Head.Pos = p.line, pos
	b.Body.Line, b.Body.Pos = p.line, pos
	return b
}

// target is the body content flows into: the innermost open block, or
// the document root.
func (p *parser) target() *Node {
	if len(p.stack) == 0 {
		return p.doc.Root
	}
	return p.stack[len(p.stack)-1].node.Body
}

func (p *parser) push(kind blockKind, n *Node) {
	p.stack = append(p.stack, openBlock{kind: kind, node: n})
}

// closeTo pops open blocks until the top is one of keep (or the stack
// is empty).
func (p *parser) closeTo(keep ...blockKind) {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		for _, k := range keep {
			if top.kind == k {
				return
			}
		}
		p.pop()
	}
}

// closeOne pops the top block if it has the given kind.
func (p *parser) closeOne(kind blockKind) {
	if len(p.stack) > 0 && p.stack[len(p.stack)-1].kind == kind {
		p.pop()
	}
}

func (p *parser) pop() {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if top.kind == blockBd {
		p.noFill = false
	}
}

type arg struct {
	text string
	pos  int // 1-based column in the source line
}

// splitArgs splits a macro line into arguments, honoring double-quoted
// grouping. startCol is the column of the first byte of s in the source
// line (macro lines pass the text after the control character).
func splitArgs(s string, startCol int) []arg {
	var out []arg
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			break
		}
		start := i
		if s[i] == '"' {
			i++
			wordStart := i
			for i < len(s) && s[i] != '"' {
				i++
			}
			out = append(out, arg{text: s[wordStart:i], pos: start + startCol})
			if i < len(s) {
				i++ // closing quote
			}
			continue
		}
		for i < len(s) && s[i] != ' ' {
			i++
		}
		out = append(out, arg{text: s[start:i], pos: start + startCol})
	}
	return out
}

func joinArgs(args []arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.text
	}
	return strings.Join(parts, " ")
}
