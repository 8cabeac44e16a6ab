// Package worker defines worker contracts for asynchronous profile extraction.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/classmatch/internal/adapters/mq/queue"
	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/pkg/logger"
	"github.com/okian/classmatch/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Extractor turns raw document text into a structured profile.
type Extractor interface {
	ExtractTeacher(ctx context.Context, name, text string) (*model.TeacherProfile, error)
	ExtractStudent(ctx context.Context, name, text string) (*model.StudentProfile, error)
}

// Store persists extracted profiles keyed by their document digest.
type Store interface {
	SaveTeacher(ctx context.Context, digest string, p model.TeacherProfile) error
	SaveStudent(ctx context.Context, digest string, p model.StudentProfile) error
}

// Unrecorder releases a digest reservation so a failed document can be
// submitted again.
type Unrecorder interface {
	Unrecord(ctx context.Context, digest string)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes extraction jobs and stores the resulting profiles.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining jobs before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing extraction jobs.
type InMemoryWorker struct {
	queue      Queue
	extractor  Extractor
	store      Store
	unrecorder Unrecorder
	name       string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, extractor Extractor, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		extractor: extractor,
		store:     store,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob handles a single extraction job. The job's reply channel
// receives exactly one Result; on failure the digest reservation is released
// so the document can be resubmitted.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	var result queue.Result
	switch job.Kind {
	case queue.KindTeacher:
		profile, err := w.extractor.ExtractTeacher(ctx, job.Name, job.Text)
		if err == nil {
			err = w.store.SaveTeacher(ctx, job.Digest, *profile)
		}
		result = queue.Result{Teacher: profile, Err: err}
	case queue.KindStudent:
		profile, err := w.extractor.ExtractStudent(ctx, job.Name, job.Text)
		if err == nil {
			err = w.store.SaveStudent(ctx, job.Digest, *profile)
		}
		result = queue.Result{Student: profile, Err: err}
	default:
		result = queue.Result{Err: fmt.Errorf("unknown job kind %q", job.Kind)}
	}

	if result.Err != nil {
		metrics.RecordExtractionError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "extraction_error")
		if w.unrecorder != nil {
			w.unrecorder.Unrecord(ctx, job.Digest)
		}
		w.logger.Error(ctx, "extraction failed for job",
			logger.String("jobID", job.ID),
			logger.String("kind", string(job.Kind)),
			logger.Error(result.Err),
		)
	} else {
		metrics.RecordExtractionLatency(float64(time.Since(start).Milliseconds()))
	}

	if job.Reply != nil {
		select {
		case job.Reply <- result:
		default:
			// Caller is gone; the profile is stored either way.
			w.logger.Debug(ctx, "reply channel full, dropping result",
				logger.String("jobID", job.ID),
			)
		}
	}

	if result.Err != nil {
		return fmt.Errorf("failed to process job %s: %w", job.ID, result.Err)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	extractor Extractor
	store     Store

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, extractor Extractor, store Store, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     q,
		extractor: extractor,
		store:     store,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			extractor,
			store,
			append(opts, WithName("worker-"+strconv.Itoa(i)))...,
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)

	return nil
}
