package mdoc

import "testing"

func TestEscape_Lengths(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`\fB`, 3},
		{`\fI`, 3},
		{`\fP`, 3},
		{`\f(CW`, 5},
		{`\f[CB]`, 6},
		{`\(aq`, 4},
		{`\[bu]`, 5},
		{`\*a`, 3},
		{`\*(ab`, 5},
		{`\*[name]`, 8},
		{`\e`, 2},
		{`\&`, 2},
		{`\-`, 2},
		{`\~`, 2},
		{`\C'foo'`, 7},
		{`\N'34'`, 6},
	}
	for _, c := range cases {
		n, ok := Escape(c.in)
		if !ok {
			t.Errorf("Escape(%q): unexpected malformed", c.in)
			continue
		}
		if n != c.want {
			t.Errorf("Escape(%q) = %d, want %d", c.in, n, c.want)
		}
	}
}

func TestEscape_Malformed(t *testing.T) {
	cases := []string{
		`\`,
		`\f`,
		`\f(C`,
		`\f[CB`,
		`\(a`,
		`\[bu`,
		`\C'foo`,
		`\N'34`,
	}
	for _, c := range cases {
		if n, ok := Escape(c); ok {
			t.Errorf("Escape(%q) = (%d, true), want malformed", c, n)
		}
	}
}
