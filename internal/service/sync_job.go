package service

import (
	"context"
	"sync"
	"time"

	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/netwatch"
)

const defaultSyncInterval = 30 * time.Second

type syncJob struct {
	engine   SyncEngine
	detector netwatch.Detector

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncJob creates a syncJob that runs a drain cycle on a ticker and
// immediately on every transition to online. The job is idle until Start is
// called.
func NewSyncJob(engine SyncEngine, detector netwatch.Detector, logger *logger.Logger) SyncJob {
	return &syncJob{engine: engine, detector: detector, logger: logger}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a background goroutine that runs a cycle every interval and on
// each online transition reported by the detector. If interval is zero or
// negative it defaults to 30 seconds. The goroutine exits when ctx is
// cancelled or Stop is called; an in-flight cycle runs to completion.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	transitions := j.detector.Subscribe()

	go func() {
		defer j.wg.Done()
		defer j.detector.Unsubscribe(transitions)

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runCycle(jobCtx)
			case online, ok := <-transitions:
				if !ok {
					return
				}
				if online {
					j.logger.Info().
						Str("func", "syncJob").
						Msg("online transition, draining now")
					j.runCycle(jobCtx)
				}
			}
		}
	}()
}

func (j *syncJob) runCycle(ctx context.Context) {
	if err := j.engine.RunCycle(ctx); err != nil {
		j.logger.Warn().
			Str("func", "syncJob.runCycle").
			Err(err).
			Msg("drain cycle failed")
	}
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is
// not running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	j.wg.Wait()
}
