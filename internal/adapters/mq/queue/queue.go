// Package queue defines the contract for enqueuing and consuming profile
// extraction jobs.
//
// Implementations may use channels or more advanced structures. The service
// starts with an in-memory bounded queue fed by the upload handlers and
// drained by the extraction worker pool.
package queue

import (
	"context"
	"sync"

	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
	defaultBufferSize    = 1024
)

// Kind distinguishes which profile shape a job should produce.
type Kind string

// Job kinds accepted by the extraction pipeline.
const (
	KindTeacher Kind = "teacher"
	KindStudent Kind = "student"
)

// Job is a single document waiting for profile extraction.
type Job struct {
	// ID is a unique identifier for tracing the job through logs.
	ID string

	// Kind selects the extraction prompt and the resulting profile shape.
	Kind Kind

	// Name is the display name inferred from the upload, used when the
	// document itself does not state one.
	Name string

	// Text is the normalized document body.
	Text string

	// Digest is the content digest of Text, used for idempotency.
	Digest string

	// Reply receives exactly one Result once the job has been processed.
	// It must be buffered so a departed caller never blocks a worker.
	Reply chan Result
}

// Result is the outcome of one extraction job. Exactly one of Teacher or
// Student is set on success, matching the job's Kind.
type Result struct {
	Teacher *model.TeacherProfile
	Student *model.StudentProfile
	Err     error
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job to the queue.
	// Returns false if the queue is full and the job was not enqueued.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel that will receive jobs as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new jobs can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs       chan Job
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	// The channel buffer is what actually bounds the queue, so it must be
	// at least as large as the advertised capacity.
	if q.bufferSize < q.capacity {
		q.bufferSize = q.capacity
	}
	q.jobs = make(chan Job, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if len(q.jobs) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		currentSize := len(q.jobs)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	// Wrap the channel to track dequeue metrics.
	dequeueChan := make(chan Job)
	go func() {
		defer close(dequeueChan)
		for job := range q.jobs {
			select {
			case dequeueChan <- job:
				metrics.RecordQueueDequeue()
				currentSize := len(q.jobs)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.jobs)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
