package query

import (
	"fmt"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
)

// firstMatch finds the first node satisfying pred. The traversal order
// is deliberate and load-bearing: for each node in the chain starting at
// n, test the node itself, then search the subtree hanging off its next
// sibling, and only then step into the node's own children. A match
// reached through a sibling's subtree therefore wins over one nested
// under the current node. Both search entry points share this walker so
// they cannot drift apart.
func firstMatch(n *mdoc.Node, pred func(*mdoc.Node) bool) *mdoc.Node {
	for ; n != nil; n = n.Child {
		if pred(n) {
			return n
		}
		if found := firstMatch(n.Next, pred); found != nil {
			return found
		}
	}
	return nil
}

// FirstByTag returns the first node with the given tag. With required
// set, a miss is a NotFoundError naming the tag.
func FirstByTag(n *mdoc.Node, tag mdoc.Tag, required bool) (*mdoc.Node, error) {
	found := firstMatch(n, func(n *mdoc.Node) bool {
		return n.Tok == tag
	})
	if found == nil && required {
		return nil, &NotFoundError{What: fmt.Sprintf("macro %s not found", tag)}
	}
	return found, nil
}

// FirstSection returns the first node whose head renders to the given
// text, compared case-insensitively after escape stripping and
// trimming. With required set, a miss is a NotFoundError naming the
// section.
func FirstSection(n *mdoc.Node, name string, required bool) (*mdoc.Node, error) {
	found := firstMatch(n, func(n *mdoc.Node) bool {
		if n.Head == nil {
			return false
		}
		return strings.EqualFold(headText(n.Head), name)
	})
	if found == nil && required {
		return nil, &NotFoundError{What: "section not found: " + name}
	}
	return found, nil
}

// headText concatenates the escape-stripped literal text of a head
// subtree, space-separated and trimmed. Only raw text is needed for
// header comparison; enclosure rules do not apply.
func headText(n *mdoc.Node) string {
	var b strings.Builder
	collectText(n, &b)
	return strings.TrimSpace(b.String())
}

func collectText(n *mdoc.Node, b *strings.Builder) {
	for ; n != nil; n = n.Next {
		if n.Type == mdoc.TypeText {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(stripEscapes(n.Text))
			continue
		}
		collectText(n.Child, b)
	}
}

// stripEscapes removes roff escape sequences from s, stopping at a
// malformed escape.
func stripEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '\\' {
			skip, ok := mdoc.Escape(s[i:])
			if !ok {
				break
			}
			i += skip
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
