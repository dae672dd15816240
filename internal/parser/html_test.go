package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
	"github.com/CyberTailor/eclassdoc/internal/query"
)

const htmlDoc = `<html>
<head><title>foo.eclass</title></head>
<body>
<h1>NAME</h1>
<p>foo.eclass - do a thing</p>
<h1>DESCRIPTION</h1>
<p>Does the thing properly.</p>
<h1>FUNCTIONS</h1>
<dl>
<dt><code>foo_setup</code></dt>
<dd>Sets things up.</dd>
<dt><code>foo_install</code></dt>
<dd>Installs files.</dd>
</dl>
<h1>EXAMPLES</h1>
<pre>inherit foo
</pre>
<h1>SEE ALSO</h1>
<ul>
<li><a href="https://example.org/">the project</a></li>
</ul>
</body>
</html>
`

func parseHTML(t *testing.T, src, filename string) *mdoc.Doc {
	t.Helper()
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(src), filename)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestHTMLParser_TitleFromTitleTag(t *testing.T) {
	doc := parseHTML(t, htmlDoc, "manual.html")
	if doc.Title != "foo.eclass" {
		t.Errorf("title = %q, want %q", doc.Title, "foo.eclass")
	}
}

func TestHTMLParser_DefinitionListHeads(t *testing.T) {
	doc := parseHTML(t, htmlDoc, "manual.html")
	var out bytes.Buffer
	p := query.NewPrinter(&out, nil)
	if err := p.Run(doc.Root, query.OptFunctions); err != nil {
		t.Fatalf("functions query: %v", err)
	}
	want := "foo_setup \nfoo_install \n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHTMLParser_AnchorListItems(t *testing.T) {
	doc := parseHTML(t, htmlDoc, "manual.html")
	var out bytes.Buffer
	p := query.NewPrinter(&out, nil)
	if err := p.Run(doc.Root, query.OptDescription); err != nil {
		t.Fatalf("description query: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Does the thing properly.") {
		t.Errorf("missing body text: %q", got)
	}
	if !strings.Contains(got, "\n\nReferences:\nhttps://example.org/  (the project)\n") {
		t.Errorf("missing references block: %q", got)
	}
}

func TestHTMLParser_PreIsPreformatted(t *testing.T) {
	doc := parseHTML(t, htmlDoc, "manual.html")
	var out bytes.Buffer
	p := query.NewPrinter(&out, nil)
	if err := p.Run(doc.Root, query.OptExamples); err != nil {
		t.Fatalf("examples query: %v", err)
	}
	want := "\n\n@CODE\ninherit foo\n@CODE\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHTMLParser_SkipsScriptAndNav(t *testing.T) {
	doc := parseHTML(t, `<html><body>
<nav><p>site menu</p></nav>
<h1>DESCRIPTION</h1>
<p>Real content.</p>
<script>var x = "noise";</script>
</body></html>
`, "page.html")
	var out bytes.Buffer
	p := query.NewPrinter(&out, nil)
	if err := p.Run(doc.Root, query.OptDescription); err != nil {
		t.Fatalf("description query: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "menu") || strings.Contains(got, "noise") {
		t.Errorf("chrome leaked into content: %q", got)
	}
	if !strings.Contains(got, "Real content.") {
		t.Errorf("missing content: %q", got)
	}
}
