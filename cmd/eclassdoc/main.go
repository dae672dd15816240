package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
	"github.com/CyberTailor/eclassdoc/internal/parser"
	"github.com/CyberTailor/eclassdoc/internal/query"
	"github.com/spf13/cobra"
)

// exitError carries an explicit exit level for failures that happen
// before a query runs (bad invocation, unreadable or invalid input).
type exitError struct {
	level query.Level
	err   error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// queryFlags maps each long flag to its original single-letter option.
var queryFlags = []struct {
	name  string
	short string
	opt   query.Option
}{
	{"summary", "B", query.OptSummary},
	{"description", "D", query.OptDescription},
	{"functions", "F", query.OptFunctions},
	{"variables", "V", query.OptVariables},
	{"authors", "a", query.OptAuthors},
	{"bugs", "b", query.OptBugs},
	{"deprecated", "d", query.OptDeprecated},
	{"examples", "e", query.OptExamples},
	{"maintainers", "m", query.OptMaintainers},
}

func main() {
	os.Exit(run())
}

func run() int {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	selected := make([]bool, len(queryFlags))

	rootCmd := &cobra.Command{
		Use:           "eclassdoc -B|-D|-F|-V|-a|-b|-d|-e|-m file",
		Short:         "Query eclass documentation for machine-readable excerpts",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opt query.Option
			count := 0
			for i, f := range queryFlags {
				if selected[i] {
					opt = f.opt
					count++
				}
			}
			if count != 1 {
				return &exitError{
					level: query.LevelBadArg,
					err:   errors.New("exactly one query option must be given"),
				}
			}
			return runQuery(args[0], opt, log)
		},
	}
	for i, f := range queryFlags {
		rootCmd.Flags().BoolVarP(&selected[i], f.name, f.short, false, f.name+" query")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "eclassdoc: %v\n", err)
		return int(exitLevel(err))
	}
	return 0
}

func runQuery(path string, opt query.Option, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return &exitError{level: query.LevelBadArg, err: err}
	}
	defer f.Close()

	var p parser.Parser = &parser.MdocParser{}
	if parser.IsSupportedExtension(path) {
		p, err = parser.ForFile(path)
		if err != nil {
			return &exitError{level: query.LevelBadArg, err: err}
		}
	}
	doc, err := p.Parse(f, path)
	if err != nil {
		return &exitError{
			level: query.LevelError,
			err:   fmt.Errorf("could not parse %s: %w", path, err),
		}
	}

	printer := query.NewPrinter(os.Stdout, log)
	return printer.Run(doc.Root, opt)
}

// exitLevel maps an error to the process exit status. Query errors
// carry their own level; anything else is an invocation problem.
func exitLevel(err error) query.Level {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.level
	}
	var (
		notFound  *query.NotFoundError
		malformed *query.MalformedError
		system    *query.SystemError
	)
	if errors.As(err, &notFound) || errors.As(err, &malformed) ||
		errors.As(err, &system) || errors.Is(err, query.ErrUnsupported) ||
		errors.Is(err, mdoc.ErrNotMdoc) {
		return query.ErrLevel(err)
	}
	return query.LevelBadArg
}
