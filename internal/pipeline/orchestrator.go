package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/CyberTailor/eclassdoc/internal/config"
)

// How often expired jobs are swept out of the store.
const cleanupInterval = 5 * time.Minute

// Orchestrator runs the batch query worker pool: a bounded queue of
// jobs fanned out to a fixed number of workers, plus a TTL sweeper for
// finished job state.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches the worker goroutines and the cleanup sweeper.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go o.runWorker(ctx, i)
	}

	o.wg.Add(1)
	go o.runCleanup(ctx)

	o.log.Info("pipeline started",
		"workers", o.cfg.WorkerCount,
		"queue_size", o.cfg.MaxQueueSize)
}

func (o *Orchestrator) runWorker(ctx context.Context, id int) {
	defer o.wg.Done()
	w := NewWorker(o.log.With("worker", id), o.cfg.PDFFallbackPdftotext)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-o.queue:
			if !ok {
				return
			}
			w.Process(ctx, job)
		}
	}
}

func (o *Orchestrator) runCleanup(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := o.jobs.Cleanup(); evicted > 0 {
				o.log.Info("evicted expired jobs", "count", evicted)
			}
		}
	}
}

// Stop shuts the pipeline down and waits for the workers to exit.
// Jobs still queued at shutdown are abandoned, not drained.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit registers and enqueues a job. A full queue fails the job
// immediately rather than blocking the upload handler.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil if unknown or expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of jobs currently retained in the store.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}
