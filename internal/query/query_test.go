package query

import (
	"bytes"
	"errors"
	"testing"
)

// A document exercising every section the dispatcher knows about.
const queryDoc = `.Dd August 2026
.Dt FOO.ECLASS 5
.Os Gentoo
.Sh NAME
.Nm foo.eclass
.Nd do a thing
.Sh DESCRIPTION
Does the thing.
.Sh FUNCTIONS
.Bl -tag -width x
.It Ic foo_setup
Runs setup.
.It Ic foo_install
Installs.
.El
.Sh ECLASS VARIABLES
.Ss Required variables
.Bl -tag -width x
.It Va FOO_TARGET
Target name.
.El
.Ss Optional variables
.Bl -tag -width x
.It Ev FOO_OPTS
Extra options.
.El
.Sh EXAMPLES
.Bd -literal
inherit foo
.Ed
.Sh AUTHORS
.An Jane Doe
.Mt jane@example.org
.Sh MAINTAINERS
Larry the cow
.Sh REPORTING BUGS
Please report bugs via
.Lk https://bugs.example.org/ "the bug tracker"
.Sh SEE ALSO
.Bl -bullet
.It
.Lk https://example.org/ "the project"
.El
`

func runQuery(t *testing.T, src string, opt Option) (string, error) {
	t.Helper()
	doc := parseDoc(t, src)
	var out bytes.Buffer
	p := NewPrinter(&out, nil)
	err := p.Run(doc.Root, opt)
	return out.String(), err
}

func TestRun_Outputs(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want string
	}{
		{"summary", OptSummary, "do a thing "},
		{"description", OptDescription,
			"Does the thing. \n\nReferences:\nhttps://example.org/  (the project)\n"},
		{"functions", OptFunctions, "foo_setup \nfoo_install \n"},
		{"variables", OptVariables, "FOO_TARGET \nFOO_OPTS \n"},
		{"examples", OptExamples, "\n\n@CODE\ninherit foo\n@CODE\n"},
		{"authors", OptAuthors, "Jane Doe <jane@example.org>\n"},
		{"maintainers", OptMaintainers, "Larry the cow "},
		{"bugs", OptBugs, "https://bugs.example.org/ "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runQuery(t, queryDoc, tc.opt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRun_DescriptionWithoutSeeAlso(t *testing.T) {
	got, err := runQuery(t, `.Dd d
.Dt T 5
.Os
.Sh DESCRIPTION
Just the body.
`, OptDescription)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Just the body. " {
		t.Errorf("got %q", got)
	}
}

func TestRun_MissingSection(t *testing.T) {
	_, err := runQuery(t, queryDoc, OptDeprecated)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if ErrLevel(err) != LevelNotFound {
		t.Errorf("level = %d, want %d", ErrLevel(err), LevelNotFound)
	}
}

func TestRun_UnknownOption(t *testing.T) {
	_, err := runQuery(t, queryDoc, Option('z'))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if ErrLevel(err) != LevelUnsupp {
		t.Errorf("level = %d, want %d", ErrLevel(err), LevelUnsupp)
	}
}

func TestRun_BugsLinkOnlyTarget(t *testing.T) {
	// The description never leaks into the bug-report address.
	got, err := runQuery(t, queryDoc, OptBugs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains([]byte(got), []byte("tracker")) {
		t.Errorf("description leaked into output: %q", got)
	}
}

func TestParseOption(t *testing.T) {
	tests := []struct {
		in   string
		want Option
	}{
		{"B", OptSummary},
		{"summary", OptSummary},
		{"blurb", OptSummary},
		{"D", OptDescription},
		{"functions", OptFunctions},
		{"V", OptVariables},
		{"m", OptMaintainers},
	}
	for _, tc := range tests {
		got, err := ParseOption(tc.in)
		if err != nil {
			t.Fatalf("ParseOption(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseOption(%q) = %c, want %c", tc.in, got, tc.want)
		}
	}
	for _, in := range []string{"x", "Z", "nope", ""} {
		if _, err := ParseOption(in); err == nil {
			t.Errorf("ParseOption(%q) succeeded, want error", in)
		}
	}
}
