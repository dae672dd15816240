package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files, typically man pages printed to PDF. It
// tries the Go library first, then falls back to pdftotext if
// available. Short all-caps lines are taken as section headings, which
// matches how man-page output looks in print.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*mdoc.Doc, error) {
	path, _, err := spoolTemp(r, "eclassdoc-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	text, err := extractPDFText(path)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(path)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	b := newTreeBuilder(baseName(filename))
	for _, page := range strings.Split(text, "\f") {
		buildPlainText(b, page)
	}
	return b.Doc(), nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
