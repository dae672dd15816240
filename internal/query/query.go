// Package query extracts named sections, list items, and inline
// elements from a parsed mdoc document tree and renders them as plain
// text. Each query is a pure read-only walk over an immutable tree.
package query

import (
	"fmt"
	"strings"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
)

// Option selects a single query. The values are the original
// single-letter invocation flags.
type Option byte

const (
	OptSummary     Option = 'B'
	OptDescription Option = 'D'
	OptFunctions   Option = 'F'
	OptVariables   Option = 'V'
	OptAuthors     Option = 'a'
	OptBugs        Option = 'b'
	OptDeprecated  Option = 'd'
	OptExamples    Option = 'e'
	OptMaintainers Option = 'm'
)

var optionNames = map[string]Option{
	"summary":     OptSummary,
	"blurb":       OptSummary,
	"description": OptDescription,
	"functions":   OptFunctions,
	"variables":   OptVariables,
	"authors":     OptAuthors,
	"bugs":        OptBugs,
	"deprecated":  OptDeprecated,
	"examples":    OptExamples,
	"maintainers": OptMaintainers,
}

// OptionLetters are the recognized single-letter flags.
const OptionLetters = "BDFVabdem"

// ParseOption resolves an option given as its single-letter flag or its
// long name.
func ParseOption(s string) (Option, error) {
	if len(s) == 1 && strings.ContainsAny(s, OptionLetters) {
		return Option(s[0]), nil
	}
	if o, ok := optionNames[s]; ok {
		return o, nil
	}
	return 0, fmt.Errorf("unknown query option: %s", s)
}

// The fixed subsection names scanned by the variable-list query.
var varSubsections = [...]string{
	"Required variables",
	"Optional variables",
	"Output variables",
	"User variables",
}

// Run executes a single query against the document content root,
// writing the result through the Printer. Exactly one option is active
// per invocation; options do not combine.
func (p *Printer) Run(root *mdoc.Node, opt Option) error {
	switch opt {
	case OptSummary:
		sec, err := FirstSection(root, "NAME", true)
		if err != nil {
			return err
		}
		nd, err := FirstByTag(sec.Body, mdoc.Nd, true)
		if err != nil {
			return err
		}
		return p.Deroff(nd)

	case OptDescription:
		sec, err := FirstSection(root, "DESCRIPTION", true)
		if err != nil {
			return err
		}
		if err := p.Deroff(sec.Body); err != nil {
			return err
		}
		seeAlso, _ := FirstSection(root, "SEE ALSO", false)
		if seeAlso == nil {
			return nil
		}
		list, err := FirstByTag(seeAlso.Body, mdoc.Bl, true)
		if err != nil {
			return err
		}
		return p.PrintItemBodies(list.Body, mdoc.Lk, "\n\nReferences:\n", false)

	case OptFunctions:
		sec, err := FirstSection(root, "FUNCTIONS", true)
		if err != nil {
			return err
		}
		list, err := FirstByTag(sec.Body, mdoc.Bl, true)
		if err != nil {
			return err
		}
		return p.PrintItemHeads(list.Body, mdoc.Ic, true)

	case OptVariables:
		if _, err := FirstSection(root, "ECLASS VARIABLES", true); err != nil {
			return err
		}
		for _, name := range varSubsections {
			sub, _ := FirstSection(root, name, false)
			if sub == nil {
				continue
			}
			list, err := FirstByTag(sub.Body, mdoc.Bl, true)
			if err != nil {
				return err
			}
			for _, tag := range []mdoc.Tag{mdoc.Dv, mdoc.Ev, mdoc.Va} {
				if err := p.PrintItemHeads(list.Body, tag, false); err != nil {
					return err
				}
			}
		}
		return nil

	case OptAuthors:
		return p.renderSection(root, "AUTHORS")
	case OptMaintainers:
		return p.renderSection(root, "MAINTAINERS")
	case OptDeprecated:
		return p.renderSection(root, "DEPRECATED")
	case OptExamples:
		return p.renderSection(root, "EXAMPLES")

	case OptBugs:
		sec, err := FirstSection(root, "REPORTING BUGS", true)
		if err != nil {
			return err
		}
		lk, err := FirstByTag(sec.Body, mdoc.Lk, true)
		if err != nil {
			return err
		}
		if lk.Child == nil {
			return &MalformedError{Line: lk.Line, Pos: lk.Pos, What: "link without target"}
		}
		// Only the target, never the description.
		return p.Deroff(lk.Child)

	default:
		return ErrUnsupported
	}
}

func (p *Printer) renderSection(root *mdoc.Node, name string) error {
	sec, err := FirstSection(root, name, true)
	if err != nil {
		return err
	}
	return p.Deroff(sec.Body)
}
