package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

const workerDoc = `.Dd August 2026
.Dt FOO.ECLASS 5
.Os
.Sh NAME
.Nm foo.eclass
.Nd do a thing
.Sh FUNCTIONS
.Bl -tag -width x
.It Ic foo_setup
Sets up.
.El
`

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestJob(filename string, data []byte, options []string) *Job {
	job := &Job{
		ID:       NewJobID(),
		DocID:    ContentHashHex(data),
		Status:   StatusQueued,
		Filename: filename,
		Options:  options,
	}
	job.SetFileData(data)
	return job
}

func TestWorker_ProcessCompleted(t *testing.T) {
	job := newTestJob("foo.eclass.5", []byte(workerDoc), []string{"B", "F"})
	w := NewWorker(discardLog(), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s (errors: %v)", snap.Status, StatusCompleted, snap.Errors)
	}
	if snap.Title != "FOO.ECLASS" {
		t.Errorf("title = %q", snap.Title)
	}
	if len(snap.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(snap.Results))
	}
	if snap.Results[0].Output != "do a thing " {
		t.Errorf("summary output = %q", snap.Results[0].Output)
	}
	if snap.Results[1].Output != "foo_setup \n" {
		t.Errorf("functions output = %q", snap.Results[1].Output)
	}
}

func TestWorker_ProcessPartial(t *testing.T) {
	// The deprecated query misses its section; the others succeed.
	job := newTestJob("foo.eclass.5", []byte(workerDoc), []string{"B", "d"})
	w := NewWorker(discardLog(), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("status = %s, want %s", snap.Status, StatusPartial)
	}
	if snap.Results[1].Status != 1 {
		t.Errorf("deprecated status = %d, want 1", snap.Results[1].Status)
	}
	if snap.Results[1].Error == "" {
		t.Error("missing error message for failed query")
	}
}

func TestWorker_ProcessParseFailure(t *testing.T) {
	job := newTestJob("foo.eclass.5", []byte("plain text, no prologue\n"), []string{"B"})
	w := NewWorker(discardLog(), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", snap.Status, StatusFailed)
	}
	if len(snap.Errors) == 0 {
		t.Error("missing parse error")
	}
}

func TestWorker_ProcessUnknownOption(t *testing.T) {
	job := newTestJob("foo.eclass.5", []byte(workerDoc), []string{"Z"})
	w := NewWorker(discardLog(), false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", snap.Status, StatusFailed)
	}
	if snap.Results[0].Status != 4 {
		t.Errorf("status = %d, want 4", snap.Results[0].Status)
	}
}
