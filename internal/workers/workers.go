package workers

import (
	"context"
	"time"

	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/service"
)

type Workers struct {
	workers []Worker

	logger *logger.Logger
}

// New builds an aggregate over the given workers. Start order follows the
// argument order; Stop runs in reverse.
func New(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

// Start launches every worker. On the first failure the already started
// workers are stopped and the error is returned.
func (w *Workers) Start(ctx context.Context) error {
	for i, worker := range w.workers {
		if err := worker.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = w.workers[j].Stop()
			}
			return err
		}
	}
	return nil
}

// Stop halts every worker in reverse start order and blocks until all have
// wound down.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		if err := w.workers[i].Stop(); err != nil {
			w.logger.Warn().
				Str("func", "Workers.Stop").
				Err(err).
				Msg("worker stop failed")
		}
	}
}

// syncJobWorker adapts a service.SyncJob to the Worker interface, binding
// its drain interval.
type syncJobWorker struct {
	job      service.SyncJob
	interval time.Duration
}

// NewSyncJobWorker wraps the sync job as a Worker running at interval.
func NewSyncJobWorker(job service.SyncJob, interval time.Duration) Worker {
	return &syncJobWorker{job: job, interval: interval}
}

func (w *syncJobWorker) Start(ctx context.Context) error {
	w.job.Start(ctx, w.interval)
	return nil
}

func (w *syncJobWorker) Stop() error {
	w.job.Stop()
	return nil
}
