package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-triage-service/internal/observability"
)

var (
	// ErrQueueFull is returned by Submit when every queue slot is taken.
	ErrQueueFull = errors.New("worker queue full")
	// ErrPoolClosed is returned by Submit after Shutdown.
	ErrPoolClosed = errors.New("worker pool closed")
)

// Job is one unit of background work.
type Job struct {
	Name string
	Key  string
	Run  func(ctx context.Context) error
}

// Pool runs jobs on a fixed number of goroutines fed by a bounded queue.
// Jobs run on a background context and cannot be cancelled once started.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewPool starts size workers sharing a queue of queueSize slots.
func NewPool(size, queueSize int, logger *zap.Logger, metrics *observability.Metrics) *Pool {
	if size <= 0 {
		size = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		jobs:    make(chan Job, queueSize),
		logger:  logger.Named("worker"),
		metrics: metrics,
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.loop()
	}
	return p
}

// Submit enqueues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.RecordJob(job.Name, observability.OutcomeRejected)
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		p.metrics.RecordJob(job.Name, observability.OutcomeRejected)
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish or ctx
// to expire, whichever comes first.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool drain: %w", ctx.Err())
	}
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job Job) {
	start := time.Now()
	fields := []zap.Field{zap.String("job", job.Name), zap.String("key", job.Key)}
	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordJob(job.Name, observability.OutcomePanic)
			p.logger.Error("job panicked", append(fields,
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))...)
		}
	}()

	err := job.Run(context.Background())
	fields = append(fields, zap.Duration("duration", time.Since(start)))
	if err != nil {
		p.metrics.RecordJob(job.Name, observability.OutcomeFailure)
		p.logger.Warn("job failed", append(fields, zap.Error(err))...)
		return
	}
	p.metrics.RecordJob(job.Name, observability.OutcomeSuccess)
	p.logger.Info("job completed", fields...)
}
