package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/CyberTailor/eclassdoc/internal/mdoc"
	"github.com/CyberTailor/eclassdoc/internal/parser"
	"github.com/CyberTailor/eclassdoc/internal/query"
)

// Worker processes a single batch query job.
type Worker struct {
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process parses the job's document and runs each requested query,
// capturing rendered output per option. Queries are independent: one
// option failing with a not-found status does not fail the others.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetTitle(doc.Title)

	// Phase 2: Queries
	job.SetStatus(StatusQuerying, "querying")
	succeeded, failed := 0, 0
	for _, name := range job.Options {
		if ctx.Err() != nil {
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "querying")
			return
		}
		result := w.runQuery(doc.Root, name, log)
		job.AddResult(result)
		if result.Status == int(query.LevelOK) {
			succeeded++
		} else {
			failed++
		}
	}

	switch {
	case failed == 0:
		job.SetStatus(StatusCompleted, "done")
	case succeeded > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "querying")
	}
	log.Info("job finished", "succeeded", succeeded, "failed", failed)
}

func (w *Worker) runQuery(root *mdoc.Node, name string, log *slog.Logger) QueryResult {
	opt, err := query.ParseOption(name)
	if err != nil {
		return QueryResult{
			Option: name,
			Status: int(query.LevelBadArg),
			Error:  err.Error(),
		}
	}

	var out bytes.Buffer
	p := query.NewPrinter(&out, log)
	err = p.Run(root, opt)
	result := QueryResult{
		Option: name,
		Status: int(query.ErrLevel(err)),
		Output: out.String(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
