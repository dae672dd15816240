package query

import (
	"io"
	"log/slog"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
)

// EscapeFunc reports the length of the escape sequence at the start of
// its argument (which begins with a backslash) and whether it is well
// formed. Injected so the renderer can be tested with a stub decoder.
type EscapeFunc func(s string) (n int, ok bool)

// Printer renders document subtrees as plain text. Output is written
// incrementally in traversal order; once emitted, text is final.
type Printer struct {
	Out io.Writer
	Esc EscapeFunc
	Log *slog.Logger
}

// NewPrinter returns a Printer writing to out, using the standard
// escape decoder and logging diagnostics through log.
func NewPrinter(out io.Writer, log *slog.Logger) *Printer {
	return &Printer{Out: out, Esc: mdoc.Escape, Log: log}
}

// Deroff converts the subtree rooted at n into plain text, applying the
// per-tag enclosure rules and escape stripping. Rendering the same
// immutable subtree twice produces byte-identical output.
func (p *Printer) Deroff(n *mdoc.Node) error {
	if n.Flags&mdoc.FlagNoPrint != 0 {
		return nil
	}

	if n.Type != mdoc.TypeText {
		before, after := enclosure(n)
		if err := p.write(before, n); err != nil {
			return err
		}
		for c := n.Child; c != nil; c = c.Next {
			if err := p.Deroff(c); err != nil {
				return err
			}
		}
		return p.write(after, n)
	}

	prefix, suffix := "", " "
	// No trailing space before a forced blank line.
	if n.Next == nil && n.Parent != nil && n.Parent.Next != nil &&
		n.Parent.Next.Tok == mdoc.Pp {
		suffix = ""
	}
	if n.Parent != nil {
		switch n.Parent.Tok {
		case mdoc.Mt:
			// The parent already bracketed us.
			prefix, suffix = "", ""
		case mdoc.Lk:
			// A link's second and later children are its description.
			if n.Prev != nil {
				prefix, suffix = " (", ")"
			}
		}
	}
	if n.Flags&mdoc.FlagNoFill != 0 {
		suffix = "\n"
	}

	if err := p.write(prefix, n); err != nil {
		return err
	}
	if err := p.pstring(n); err != nil {
		return err
	}
	return p.write(suffix, n)
}

// enclosure returns the (before, after) pair wrapped around a rendered
// Elem or Block node.
func enclosure(n *mdoc.Node) (before, after string) {
	// Nested inside an address: the Mt enclosure already brackets us.
	if n.Parent != nil && n.Parent.Tok == mdoc.Mt {
		return "", ""
	}

	switch n.Tok {
	case mdoc.Pp:
		return "\n", "\n"
	case mdoc.An:
		// Suppress default spacing between consecutive authors.
		return "", ""
	case mdoc.Mt:
		// One address per line.
		return "<", ">\n"
	case mdoc.Pq:
		return " (", ") "
	case mdoc.Bd:
		return "\n\n@CODE\n", "@CODE\n"
	case mdoc.Nd, mdoc.Nm, mdoc.Pa, mdoc.Ic, mdoc.Dv, mdoc.Ev,
		mdoc.Va, mdoc.Fl, mdoc.Lk:
		// Name- and path-like tags keep the default spacing their
		// text children already carry.
		return "", ""
	}

	if n.Type != mdoc.TypeElem {
		// Containers (blocks, heads, bodies) contribute no text of
		// their own.
		return "", ""
	}

	before = " "
	if n.Flags&mdoc.FlagLineStart != 0 || inItemHead(n) {
		before = ""
	}
	return before, " "
}

// inItemHead reports whether n sits inside a list item's head subtree.
func inItemHead(n *mdoc.Node) bool {
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Type == mdoc.TypeHead && a.Parent != nil && a.Parent.Tok == mdoc.It {
			return true
		}
	}
	return false
}

// pstring emits the payload of a text node: leading spaces stripped
// (kept verbatim in preformatted regions), escape sequences removed,
// one trailing space dropped, and interior space runs collapsed unless
// the region is preformatted.
func (p *Printer) pstring(n *mdoc.Node) error {
	s := n.Text
	noFill := n.Flags&mdoc.FlagNoFill != 0
	esc := p.Esc
	if esc == nil {
		esc = mdoc.Escape
	}

	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	var b strings.Builder
	if noFill {
		b.WriteString(s[:i])
	}

	lastSpace := false
	for i < len(s) {
		c := s[i]
		if c == '\\' {
			skip, ok := esc(s[i:])
			if !ok {
				break
			}
			i += skip
			continue
		}
		if c == ' ' && !noFill {
			if lastSpace {
				i++
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteByte(c)
		i++
	}

	return p.write(strings.TrimSuffix(b.String(), " "), n)
}

func (p *Printer) write(s string, n *mdoc.Node) error {
	if s == "" {
		return nil
	}
	if _, err := io.WriteString(p.Out, s); err != nil {
		return &SystemError{Line: n.Line, Pos: n.Pos, Err: err}
	}
	return nil
}
