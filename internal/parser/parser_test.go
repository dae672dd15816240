package parser

import (
	"fmt"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"foo.eclass.5", "*parser.MdocParser"},
		{"foo.mdoc", "*parser.MdocParser"},
		{"notes.txt", "*parser.TextParser"},
		{"README.md", "*parser.MarkdownParser"},
		{"manual.HTML", "*parser.HTMLParser"},
		{"manual.pdf", "*parser.PDFParser"},
		{"manual.docx", "*parser.DOCXParser"},
	}
	for _, tc := range tests {
		p, err := ForFile(tc.filename)
		if err != nil {
			t.Errorf("ForFile(%q): %v", tc.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tc.want {
			t.Errorf("ForFile(%q) = %s, want %s", tc.filename, got, tc.want)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	for _, name := range []string{"foo.rst", "foo", "archive.tar.gz"} {
		if _, err := ForFile(name); err == nil {
			t.Errorf("ForFile(%q) succeeded, want error", name)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	for _, name := range []string{"a.mdoc", "a.5", "a.7", "a.txt", "a.md", "a.markdown", "a.html", "a.htm", "a.pdf", "a.docx"} {
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}
	for _, name := range []string{"a.rst", "a.exe", "a"} {
		if IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = true", name)
		}
	}
}

func TestMdocParser_TitleFallback(t *testing.T) {
	p := &MdocParser{}
	doc, err := p.Parse(strings.NewReader(".Dd d\n.Dt\n.Os\n.Sh NAME\n.Nd x\n"), "/man/foo.eclass.5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Title != "foo.eclass" {
		t.Errorf("title = %q, want %q", doc.Title, "foo.eclass")
	}
}

func TestMdocParser_TitleFromPrologue(t *testing.T) {
	p := &MdocParser{}
	doc, err := p.Parse(strings.NewReader(".Dd d\n.Dt BAR.ECLASS 5\n.Os\n"), "foo.5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Title != "BAR.ECLASS" {
		t.Errorf("title = %q, want %q", doc.Title, "BAR.ECLASS")
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/docs/foo.eclass.md", "foo.eclass"},
		{"foo.5", "foo"},
		{"noext", "noext"},
	}
	for _, tc := range tests {
		if got := baseName(tc.in); got != tc.want {
			t.Errorf("baseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
