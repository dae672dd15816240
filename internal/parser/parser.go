package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
)

// Parser converts raw document bytes into an mdoc document tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*mdoc.Doc, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".mdoc":     true,
	".5":        true,
	".7":        true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mdoc", ".5", ".7":
		return &MdocParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// MdocParser handles native mdoc source.
type MdocParser struct{}

func (p *MdocParser) Parse(r io.Reader, filename string) (*mdoc.Doc, error) {
	doc, err := mdoc.Parse(r)
	if err != nil {
		return nil, err
	}
	if doc.Title == "" {
		doc.Title = baseName(filename)
	}
	return doc, nil
}

func baseName(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// spoolTemp copies r to a temp file for readers that need a ReadSeeker
// and a total size rather than a stream. The caller removes the file.
func spoolTemp(r io.Reader, pattern string) (path string, size int64, err error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	size, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write temp file: %w", err)
	}
	return tmp.Name(), size, nil
}
