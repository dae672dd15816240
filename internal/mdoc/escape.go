package mdoc

// Escape decodes the roff escape sequence at the start of s, which must
// begin with a backslash. It returns the byte length of the sequence and
// whether it was well formed. Unterminated bracketed or quoted forms are
// reported as malformed so callers can stop scanning early.
//
// Only the length matters to the renderer: escapes are stripped from
// plain-text output, never substituted.
func Escape(s string) (n int, ok bool) {
	if len(s) < 2 || s[0] != '\\' {
		return 0, false
	}

	switch s[1] {
	case 'f', 'F', 'g', 'k', 'm', 'n', 'V', 'Y', '*':
		// One-character argument by default, or a delimited name.
		if len(s) < 3 {
			return 0, false
		}
		switch s[2] {
		case '(':
			if len(s) < 5 {
				return 0, false
			}
			return 5, true
		case '[':
			return scanTo(s, 3, ']')
		default:
			return 3, true
		}
	case '(':
		// Two-character special character name.
		if len(s) < 4 {
			return 0, false
		}
		return 4, true
	case '[':
		// Bracketed special character name.
		return scanTo(s, 2, ']')
	case 'C':
		// \C'name'
		if len(s) < 3 || s[2] != '\'' {
			return 0, false
		}
		return scanTo(s, 3, '\'')
	case 'A', 'B', 'b', 'D', 'h', 'H', 'l', 'L', 'N', 'o', 'R',
		's', 'S', 'v', 'w', 'x', 'X', 'Z':
		// Numeric or text argument delimited by a repeated character.
		if len(s) < 4 {
			return 0, false
		}
		return scanTo(s, 3, s[2])
	default:
		// Single-character escape: \e \& \- \~ \% \| \^ \0 \  etc.
		return 2, true
	}
}

func scanTo(s string, start int, delim byte) (int, bool) {
	for i := start; i < len(s); i++ {
		if s[i] == delim {
			return i + 1, true
		}
	}
	return 0, false
}
