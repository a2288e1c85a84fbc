package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/voicepack/internal/model"
)

// JobIDPrefix prefixes every generated job ID
const JobIDPrefix = "convert-"

// Queue drives conversion batches one job at a time
type Queue struct {
	encoder  Encoder
	store    Store
	prompter Prompter
	logger   *slog.Logger

	jobs     []*model.ConversionJob
	active   bool
	jobsMu   sync.RWMutex
	onUpdate func(model.ConversionJob) // callback for UI updates
}

// Option configures a Queue
type Option func(*Queue)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) { q.logger = logger }
}

// New creates a conversion queue
func New(encoder Encoder, store Store, prompter Prompter, opts ...Option) *Queue {
	q := &Queue{
		encoder:  encoder,
		store:    store,
		prompter: prompter,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetUpdateCallback sets the function called with a snapshot of a job on every state change
func (q *Queue) SetUpdateCallback(callback func(model.ConversionJob)) {
	q.jobsMu.Lock()
	defer q.jobsMu.Unlock()
	q.onUpdate = callback
}

// Active reports whether a batch is running
func (q *Queue) Active() bool {
	q.jobsMu.RLock()
	defer q.jobsMu.RUnlock()
	return q.active
}

// Jobs returns snapshots of the current or last batch in submission order
func (q *Queue) Jobs() []model.ConversionJob {
	q.jobsMu.RLock()
	defer q.jobsMu.RUnlock()

	jobs := make([]model.ConversionJob, 0, len(q.jobs))
	for _, job := range q.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// Run processes paths and returns the batch summary. A busy queue yields an
// empty summary; use RunBatch to observe ErrBusy.
func (q *Queue) Run(ctx context.Context, paths []string) model.BatchSummary {
	summary, err := q.RunBatch(ctx, paths)
	if err != nil {
		q.logger.Warn("batch rejected", "paths", len(paths), "error", err)
	}
	return summary
}

// RunBatch processes paths strictly sequentially. Cancelling ctx skips jobs
// that have not been dispatched yet; an encode already in flight is awaited.
func (q *Queue) RunBatch(ctx context.Context, paths []string) (model.BatchSummary, error) {
	q.jobsMu.Lock()
	if q.active {
		q.jobsMu.Unlock()
		return model.BatchSummary{}, ErrBusy
	}
	q.active = true
	q.jobs = make([]*model.ConversionJob, 0, len(paths))
	for _, path := range paths {
		q.jobs = append(q.jobs, model.NewConversionJob(generateJobID(), path))
	}
	jobs := append([]*model.ConversionJob(nil), q.jobs...)
	q.jobsMu.Unlock()

	defer func() {
		q.jobsMu.Lock()
		q.active = false
		q.jobsMu.Unlock()
	}()

	summary := model.BatchSummary{Total: len(jobs), Jobs: jobs}
	q.logger.Info("batch started", "jobs", len(jobs))

	for _, job := range jobs {
		q.notifyUpdate(job)
		q.process(ctx, job)
		summary.Add(job)
	}

	q.logger.Info("batch complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return summary, nil
}

// process walks one job through naming, collision handling and encoding
func (q *Queue) process(ctx context.Context, job *model.ConversionJob) {
	if ctx.Err() != nil {
		q.finish(job, model.JobStatusSkipped, nil)
		return
	}

	q.setStatus(job, model.JobStatusAwaitingName)
	name, ok := q.prompter.AskName(ctx, q.snapshot(job))
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		q.finish(job, model.JobStatusSkipped, nil)
		return
	}

	q.jobsMu.Lock()
	job.Name = name
	job.Status = model.JobStatusNameConfirmed
	q.jobsMu.Unlock()
	q.notifyUpdate(job)

	if q.store.Has(name) {
		q.setStatus(job, model.JobStatusAwaitingOverwrite)
		if !q.prompter.ConfirmOverwrite(ctx, q.snapshot(job)) {
			q.finish(job, model.JobStatusSkipped, nil)
			return
		}

		q.jobsMu.Lock()
		job.Overwrite = true
		job.Status = model.JobStatusNameConfirmed
		q.jobsMu.Unlock()
		q.notifyUpdate(job)
	}

	if ctx.Err() != nil {
		q.finish(job, model.JobStatusSkipped, nil)
		return
	}

	q.jobsMu.Lock()
	job.Status = model.JobStatusInProgress
	job.StartedAt = time.Now()
	q.jobsMu.Unlock()
	q.notifyUpdate(job)

	// A dispatched encode has no cancellation; detach it from ctx.
	result, received := <-q.encoder.EncodeFromMediaAsync(context.WithoutCancel(ctx), job.SourcePath)
	if !received {
		result.Err = errNoResult
	}

	if result.Err != nil {
		jobErr := &JobError{JobID: job.ID, Name: name, SourcePath: job.SourcePath, Err: result.Err}
		q.logger.Warn("conversion failed", "job", job.ID, "source", job.SourcePath, "name", name, "error", result.Err)
		q.finish(job, model.JobStatusFailed, jobErr)
		return
	}

	q.store.Put(name, result.Payload)

	q.jobsMu.Lock()
	job.Payload = result.Payload
	q.jobsMu.Unlock()
	q.logger.Debug("conversion succeeded", "job", job.ID, "name", name, "bytes", len(result.Payload))
	q.finish(job, model.JobStatusSucceeded, nil)
}

func (q *Queue) setStatus(job *model.ConversionJob, status model.JobStatus) {
	q.jobsMu.Lock()
	job.Status = status
	q.jobsMu.Unlock()
	q.notifyUpdate(job)
}

// finish moves job into a terminal state
func (q *Queue) finish(job *model.ConversionJob, status model.JobStatus, err error) {
	q.jobsMu.Lock()
	job.Status = status
	job.FinishedAt = time.Now()
	if err != nil {
		job.Err = err
		job.LastError = err.Error()
	}
	q.jobsMu.Unlock()
	q.notifyUpdate(job)
}

func (q *Queue) snapshot(job *model.ConversionJob) model.ConversionJob {
	q.jobsMu.RLock()
	defer q.jobsMu.RUnlock()
	return *job
}

// notifyUpdate calls the update callback if set
func (q *Queue) notifyUpdate(job *model.ConversionJob) {
	q.jobsMu.RLock()
	callback := q.onUpdate
	snapshot := *job
	q.jobsMu.RUnlock()

	if callback != nil {
		callback(snapshot)
	}
}

// generateJobID generates a time-ordered job ID
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
