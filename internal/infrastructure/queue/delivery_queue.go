package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by the queue
var (
	ErrQueueNotRunning = fmt.Errorf("delivery queue is not running")
	ErrQueueFull       = fmt.Errorf("delivery queue buffer is full")
)

// Job is one WhatsApp delivery unit of work. Retries happen inside a
// single job execution; jobs never re-enter the queue.
type Job struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	EventType string
	Data      any
	CreatedAt time.Time
}

// NewJob creates a delivery job for a user and event
func NewJob(userID uuid.UUID, eventType string, data any) *Job {
	return &Job{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		Data:      data,
		CreatedAt: time.Now(),
	}
}

// Processor executes a delivery job. Process owns the whole attempt
// loop including retries and records its own outcome; OnTerminalFailure
// is the last resort invoked when Process panics, so a failed log row
// exists even then.
type Processor interface {
	Process(ctx context.Context, job *Job) error
	OnTerminalFailure(ctx context.Context, job *Job, cause error)
}

// Config holds queue settings
type Config struct {
	Workers    int
	BufferSize int
}

// DeliveryQueue is a bounded in-process worker pool. Workers pull jobs
// off a channel and run them to completion; Stop drains in-flight jobs
// within the context deadline.
type DeliveryQueue struct {
	config    Config
	processor Processor
	logger    *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewDeliveryQueue creates a new delivery queue
func NewDeliveryQueue(config Config, processor Processor, logger *zap.Logger) *DeliveryQueue {
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 256
	}
	return &DeliveryQueue{
		config:    config,
		processor: processor,
		logger:    logger,
		jobs:      make(chan *Job, config.BufferSize),
	}
}

// Start launches the worker pool
func (q *DeliveryQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.isRunning {
		q.mu.Unlock()
		return nil
	}
	q.isRunning = true
	q.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}

	q.logger.Info("delivery queue started", zap.Int("workers", q.config.Workers))
	return nil
}

// Stop stops the queue, waiting for in-flight jobs until ctx expires
func (q *DeliveryQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return nil
	}
	q.isRunning = false
	q.mu.Unlock()

	close(q.jobs)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.logger.Info("delivery queue stopped")
		return nil
	case <-ctx.Done():
		if q.cancel != nil {
			q.cancel()
		}
		q.logger.Warn("delivery queue stop timed out")
		return ctx.Err()
	}
}

// Enqueue submits a job. Returns ErrQueueFull when the buffer has no
// room; callers log and move on, delivery is best effort.
func (q *DeliveryQueue) Enqueue(job *Job) error {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return ErrQueueNotRunning
	}
	q.mu.Unlock()

	select {
	case q.jobs <- job:
		q.logger.Debug("delivery job enqueued",
			zap.String("job_id", job.ID.String()),
			zap.String("event_type", job.EventType),
		)
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of buffered jobs
func (q *DeliveryQueue) Pending() int {
	return len(q.jobs)
}

func (q *DeliveryQueue) worker(ctx context.Context, workerID int) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			q.runJob(ctx, job, workerID)
		}
	}
}

// runJob executes one job with panic isolation. Whatever happens, a
// terminally failed job goes through OnTerminalFailure exactly once.
func (q *DeliveryQueue) runJob(ctx context.Context, job *Job, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("delivery job panicked",
				zap.Int("worker_id", workerID),
				zap.String("job_id", job.ID.String()),
				zap.Any("panic", r),
			)
			q.processor.OnTerminalFailure(ctx, job, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := q.processor.Process(ctx, job); err != nil {
		q.logger.Error("delivery job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("event_type", job.EventType),
			zap.Error(err),
		)
	}
}
