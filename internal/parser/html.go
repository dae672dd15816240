package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files, typically man pages rendered to HTML.
// Heading tags delimit sections, definition lists map to labelled list
// items, and anchors become hyperlink elements.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*mdoc.Doc, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := baseName(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}
	b := newTreeBuilder(title)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				b.Heading(level, textContent(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "pre":
				b.Code(rawText(n))
				return
			case "p", "blockquote", "td":
				appendHTMLInlines(b, n)
				b.Break()
				return
			case "ul", "ol":
				b.Append(convertHTMLList(n))
				b.Break()
				return
			case "dl":
				b.Append(convertHTMLDefList(n))
				b.Break()
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return b.Doc(), nil
}

// appendHTMLInlines converts the inline content of a flow element into
// text, link, and command nodes in the current body.
func appendHTMLInlines(b *treeBuilder, n *html.Node) {
	var buf strings.Builder
	flush := func() {
		b.Text(buf.String())
		buf.Reset()
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
			return
		case n.Type != html.ElementNode:
			return
		}
		switch n.Data {
		case "a":
			flush()
			b.Append(newLink(attr(n, "href"), textContent(n)))
			return
		case "code", "tt", "kbd":
			flush()
			b.Append(newInline(mdoc.Ic, textContent(n)))
			return
		case "em", "i":
			flush()
			b.Append(newInline(mdoc.Em, textContent(n)))
			return
		case "strong", "b":
			flush()
			b.Append(newInline(mdoc.Sy, textContent(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	flush()
}

// convertHTMLList turns ul/ol into a Bl block. Items led by a code
// element get it as their head; items led by an anchor keep the link as
// the first body element.
func convertHTMLList(list *html.Node) *mdoc.Node {
	bl := mdoc.NewBlock(mdoc.Bl)
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		it := mdoc.NewBlock(mdoc.It)
		fillHTMLItem(it, li)
		bl.Body.AppendChild(it)
	}
	return bl
}

func fillHTMLItem(it *mdoc.Node, li *html.Node) {
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
	first := true
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			first = first && strings.TrimSpace(n.Data) == ""
			return
		}
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "code", "tt", "kbd":
			flush()
			el := newInline(mdoc.Ic, textContent(n))
			if first && it.Head.Child == nil {
				it.Head.AppendChild(el)
			} else {
				it.Body.AppendChild(el)
			}
			first = false
			return
		case "a":
			flush()
			it.Body.AppendChild(newLink(attr(n, "href"), textContent(n)))
			first = false
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	flush()
}

// convertHTMLDefList turns a dl into a Bl block: each dt becomes an
// item head, the following dd its body.
func convertHTMLDefList(dl *html.Node) *mdoc.Node {
	bl := mdoc.NewBlock(mdoc.Bl)
	var it *mdoc.Node
	for c := dl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			it = mdoc.NewBlock(mdoc.It)
			fillHTMLHead(it.Head, c)
			bl.Body.AppendChild(it)
		case "dd":
			if it == nil {
				it = mdoc.NewBlock(mdoc.It)
				bl.Body.AppendChild(it)
			}
			fillHTMLBody(it.Body, c)
			it = nil
		}
	}
	return bl
}

func fillHTMLHead(head *mdoc.Node, dt *html.Node) {
	for c := dt.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "code", "tt", "kbd", "var":
				tag := mdoc.Ic
				if c.Data == "var" {
					tag = mdoc.Va
				}
				head.AppendChild(newInline(tag, textContent(c)))
				continue
			}
		}
		if t := strings.TrimSpace(textContent(c)); t != "" {
			n := mdoc.NewText(t)
			n.Flags |= mdoc.FlagLineStart
			head.AppendChild(n)
		}
	}
}

func fillHTMLBody(body *mdoc.Node, dd *html.Node) {
	for c := dd.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" {
			body.AppendChild(newLink(attr(c, "href"), textContent(c)))
			continue
		}
		if t := strings.TrimSpace(textContent(c)); t != "" {
			n := mdoc.NewText(t)
			n.Flags |= mdoc.FlagLineStart
			body.AppendChild(n)
		}
	}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// rawText is textContent without trimming, for preformatted regions.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
