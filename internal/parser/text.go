package parser

import (
	"io"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
)

// TextParser handles plain text, typically man-page output saved to a
// file. Short all-caps lines delimit sections; everything else flows
// into paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*mdoc.Doc, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b := newTreeBuilder(baseName(filename))
	buildPlainText(b, string(src))
	return b.Doc(), nil
}

// buildPlainText feeds heading and paragraph events from rendered text
// into the builder. The PDF frontend shares it, one call per extracted
// page.
func buildPlainText(b *treeBuilder, text string) {
	var para strings.Builder
	flush := func() {
		b.Text(para.String())
		para.Reset()
		b.Break()
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case isTextHeading(trimmed):
			flush()
			b.Heading(1, trimmed)
		default:
			if para.Len() > 0 {
				para.WriteByte(' ')
			}
			para.WriteString(trimmed)
		}
	}
	flush()
}

// isTextHeading reports whether a line looks like a man-page section
// heading: short, all caps, no trailing punctuation.
func isTextHeading(line string) bool {
	if len(line) > 60 || strings.HasSuffix(line, ".") {
		return false
	}
	hasLetter := false
	for _, r := range line {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	return hasLetter
}
