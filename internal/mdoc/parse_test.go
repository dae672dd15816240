package mdoc

import (
	"strings"
	"testing"
)

const sampleDoc = `.\" comment line
.Dd January 1, 2024
.Dt FOO.ECLASS 5
.Os Gentoo Linux
.Sh NAME
.Nm foo.eclass
.Nd do a thing
.Sh DESCRIPTION
Does the thing.
.Sh FUNCTIONS
.Bl -tag -width indent
.It Ic foo_setup
Sets things up.
.It Ic foo_install
Installs the thing.
.El
.Sh EXAMPLES
.Bd -literal
inherit foo
foo_setup --fast
.Ed
`

func TestParse_Prologue(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "FOO.ECLASS" {
		t.Errorf("title = %q, want %q", doc.Title, "FOO.ECLASS")
	}
	if doc.Section != "5" {
		t.Errorf("section = %q, want %q", doc.Section, "5")
	}
	if doc.Date != "January 1, 2024" {
		t.Errorf("date = %q, want %q", doc.Date, "January 1, 2024")
	}
	if doc.Os != "Gentoo Linux" {
		t.Errorf("os = %q, want %q", doc.Os, "Gentoo Linux")
	}
}

func TestParse_NotMdoc(t *testing.T) {
	_, err := Parse(strings.NewReader("just some text\nwith no prologue\n"))
	if err != ErrNotMdoc {
		t.Fatalf("expected ErrNotMdoc, got %v", err)
	}
}

func TestParse_SectionStructure(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sections []string
	for n := doc.Root.Child; n != nil; n = n.Next {
		if n.Tok != Sh {
			t.Fatalf("top-level node is %v, want Sh", n.Tok)
		}
		if n.Head == nil || n.Body == nil {
			t.Fatalf("section without head/body")
		}
		sections = append(sections, n.Head.Child.Text)
	}
	want := []string{"NAME", "DESCRIPTION", "FUNCTIONS", "EXAMPLES"}
	if len(sections) != len(want) {
		t.Fatalf("got %d sections %v, want %d", len(sections), sections, len(want))
	}
	for i := range want {
		if sections[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, sections[i], want[i])
		}
	}
}

func TestParse_ListItems(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// FUNCTIONS is the third section; its body holds the list.
	functions := doc.Root.Child.Next.Next
	bl := functions.Body.Child
	if bl == nil || bl.Tok != Bl {
		t.Fatalf("expected Bl in FUNCTIONS body")
	}

	var names []string
	for it := bl.Body.Child; it != nil; it = it.Next {
		if it.Tok != It {
			t.Fatalf("list child is %v, want It", it.Tok)
		}
		head := it.Head.Child
		if head == nil || head.Tok != Ic {
			t.Fatalf("item head is not Ic")
		}
		names = append(names, head.Child.Text)
		if it.Body.Child == nil {
			t.Errorf("item %q has empty body", head.Child.Text)
		}
	}
	if len(names) != 2 || names[0] != "foo_setup" || names[1] != "foo_install" {
		t.Errorf("item heads = %v, want [foo_setup foo_install]", names)
	}
}

func TestParse_DisplayBlockNoFill(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	examples := doc.Root.Child.Next.Next.Next
	bd := examples.Body.Child
	if bd == nil || bd.Tok != Bd {
		t.Fatalf("expected Bd in EXAMPLES body")
	}
	if bd.Flags&FlagNoFill == 0 {
		t.Errorf("-literal display should carry FlagNoFill")
	}
	line := bd.Body.Child
	if line == nil || line.Text != "inherit foo" {
		t.Fatalf("first display line = %+v, want %q", line, "inherit foo")
	}
	if line.Flags&FlagNoFill == 0 {
		t.Errorf("display text should carry FlagNoFill")
	}
}

func TestParse_ChildLinks(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := doc.Root.Child
	body := name.Body
	for c := body.Child; c != nil; c = c.Next {
		if c.Parent != body {
			t.Errorf("child %v has wrong parent", c.Tok)
		}
		if c.Next != nil && c.Next.Prev != c {
			t.Errorf("broken prev link after %v", c.Tok)
		}
	}
	// The NAME body holds Nm then Nd.
	if body.Child == nil || body.Child.Tok != Nm {
		t.Fatalf("first NAME child is not Nm")
	}
	if body.Child.Next == nil || body.Child.Next.Tok != Nd {
		t.Fatalf("second NAME child is not Nd")
	}
}

func TestParse_QuotedArgs(t *testing.T) {
	src := ".Dd today\n.Dt T 5\n.Os\n.Sh SEE ALSO\n.Lk https://example.org/ \"project home page\"\n"
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lk := doc.Root.Child.Body.Child
	if lk == nil || lk.Tok != Lk {
		t.Fatalf("expected Lk, got %+v", lk)
	}
	if lk.Child == nil || lk.Child.Text != "https://example.org/" {
		t.Fatalf("link target wrong: %+v", lk.Child)
	}
	desc := lk.Child.Next
	if desc == nil || desc.Text != "project home page" {
		t.Fatalf("link description = %+v, want %q", desc, "project home page")
	}
}
