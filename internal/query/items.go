package query

import (
	"github.com/CyberTailor/eclassdoc/internal/mdoc"
)

// PrintItemHeads renders the head of every immediate list item whose
// head starts with an element of the target tag, one per line. It scans
// a list's body and does not recurse into nested lists. Items with an
// empty head are logged and skipped. With required set, matching
// nothing is a NotFoundError.
func (p *Printer) PrintItemHeads(list *mdoc.Node, tag mdoc.Tag, required bool) error {
	found := false
	for n := list.Child; n != nil; n = n.Next {
		if n.Tok != mdoc.It {
			continue
		}
		if n.Head == nil {
			return &MalformedError{Line: n.Line, Pos: n.Pos, What: "list item without head"}
		}

		element := n.Head.Child
		if element == nil {
			p.warn(n, "empty item header")
			continue
		}
		if element.Tok != tag {
			continue
		}

		found = true
		if err := p.Deroff(element); err != nil {
			return err
		}
		if err := p.write("\n", element); err != nil {
			return err
		}
	}

	if !found && required {
		return &NotFoundError{What: "no matching items found"}
	}
	return nil
}

// PrintItemBodies renders the body of every immediate list item whose
// body starts with an element of the target tag, one per line, emitting
// prepend once before the first match. Links without a visible
// description are skipped silently. With required set, matching nothing
// is a NotFoundError.
func (p *Printer) PrintItemBodies(list *mdoc.Node, tag mdoc.Tag, prepend string, required bool) error {
	found := false
	for n := list.Child; n != nil; n = n.Next {
		if n.Tok != mdoc.It {
			continue
		}
		if n.Body == nil {
			return &MalformedError{Line: n.Line, Pos: n.Pos, What: "list item without body"}
		}

		element := n.Body.Child
		if element == nil {
			p.warn(n, "empty item body")
			continue
		}
		if element.Tok != tag {
			continue
		}
		// Links with only a target contribute nothing to a
		// references list.
		if element.Tok == mdoc.Lk &&
			(element.Child == nil || element.Child.Next == nil) {
			continue
		}

		if !found {
			if err := p.write(prepend, element); err != nil {
				return err
			}
			found = true
		}
		if err := p.Deroff(element); err != nil {
			return err
		}
		if err := p.write("\n", element); err != nil {
			return err
		}
	}

	if !found && required {
		return &NotFoundError{What: "no matching items found"}
	}
	return nil
}

func (p *Printer) warn(n *mdoc.Node, msg string) {
	if p.Log == nil {
		return
	}
	p.Log.Warn(msg, "line", n.Line, "pos", n.Pos)
}
