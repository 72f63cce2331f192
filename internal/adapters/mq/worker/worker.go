// Package worker runs indicator jobs pulled off the queue and publishes the
// assembled per-indicator reports.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/ppgmetrics/engiv/internal/adapters/mq/queue"
	"github.com/ppgmetrics/engiv/internal/domain/indicator"
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/types"
	"github.com/ppgmetrics/engiv/internal/domain/window"
	"github.com/ppgmetrics/engiv/pkg/logger"
	"github.com/ppgmetrics/engiv/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Evaluator runs one calculator across the snapshot's period.
type Evaluator interface {
	Evaluate(ctx context.Context, s *model.Snapshot, c indicator.Calculator) (window.Evaluation, error)
}

// Publisher receives finished indicator reports.
type Publisher interface {
	Publish(ctx context.Context, r types.IndicatorReport) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes indicator jobs until its queue drains.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing indicator jobs.
type InMemoryWorker struct {
	queue     Queue
	evaluator Evaluator
	publisher Publisher
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, evaluator Evaluator, publisher Publisher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		evaluator: evaluator,
		publisher: publisher,
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

// processJob evaluates a single calculator and publishes its report.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	if !job.Submitted.IsZero() {
		metrics.RecordJobLatency(float64(time.Since(job.Submitted).Milliseconds()))
	}

	evalStart := time.Now()
	ev, err := w.evaluator.Evaluate(ctx, job.Snapshot, job.Calc)
	metrics.RecordIndicatorDuration(float64(time.Since(evalStart).Milliseconds()))
	if err != nil {
		metrics.RecordIndicatorError(job.Calc.Name)
		w.logger.Error(ctx, "evaluation failed",
			logger.String("jobID", job.ID),
			logger.String("indicator", job.Calc.Name),
			logger.Error(err),
		)
		return fmt.Errorf("failed to evaluate %s: %w", job.Calc.Name, err)
	}

	for _, p := range ev.Series {
		switch {
		case p.Value.Unwrap() != nil:
			metrics.RecordIndicatorError(job.Calc.Name)
		case p.Value.IsNoData():
			metrics.RecordIndicatorNoData(job.Calc.Name)
		}
	}

	report := types.IndicatorReport{
		Name:     job.Calc.Name,
		Family:   job.Calc.Family,
		Kind:     string(job.Calc.Kind),
		Version:  job.Calc.Version,
		Series:   ev.Series,
		Summary:  ev.Summary,
		Complete: ev.Complete,
	}
	if err := w.publisher.Publish(ctx, report); err != nil {
		w.logger.Error(ctx, "publish failed",
			logger.String("jobID", job.ID),
			logger.String("indicator", job.Calc.Name),
			logger.Error(err),
		)
		return fmt.Errorf("failed to publish %s: %w", job.Calc.Name, err)
	}

	return nil
}

// Pool manages multiple workers draining one computation pass.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	evaluator Evaluator
	publisher Publisher

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, evaluator Evaluator, publisher Publisher) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     queue,
		evaluator: evaluator,
		publisher: publisher,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			evaluator,
			publisher,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Wait blocks until every worker has drained the queue and exited, or the
// context is canceled. The queue must be closed before calling Wait.
func (p *Pool) Wait(ctx context.Context) error {
	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "wait canceled", logger.Int("worker_id", i))
			return fmt.Errorf("pool wait canceled: %w", ctx.Err())
		}
	}
	return nil
}

// Stop stops all workers without waiting for the queue to drain.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		close(worker.shutdown)
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
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

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
