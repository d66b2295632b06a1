package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/netwatch"
	"github.com/avelarde/comandero/internal/store"
	"github.com/avelarde/comandero/models"
)

// PendingCountFunc receives the refreshed pending count at the end of every
// drain cycle. Wired to the UI's "N changes not yet synced" badge.
type PendingCountFunc func(count int)

// Invalidator is the slice of the reactive cache the engine needs: marking
// scopes stale after a successful replay.
type Invalidator interface {
	Invalidate(key cache.Key)
}

type syncEngine struct {
	operationLog store.OperationLogRepository
	dispatcher   DispatchService
	detector     netwatch.Detector
	invalidator  Invalidator

	maxRetries      int
	retentionWindow time.Duration
	onPendingCount  PendingCountFunc

	draining atomic.Bool

	mu         sync.Mutex
	lastSyncAt time.Time

	now func() time.Time

	logger *logger.Logger
}

// NewSyncEngine builds the drain-cycle engine. onPendingCount may be nil.
func NewSyncEngine(
	operationLog store.OperationLogRepository,
	dispatcher DispatchService,
	detector netwatch.Detector,
	invalidator Invalidator,
	maxRetries int,
	retentionWindow time.Duration,
	onPendingCount PendingCountFunc,
	logger *logger.Logger,
) SyncEngine {
	return &syncEngine{
		operationLog:    operationLog,
		dispatcher:      dispatcher,
		detector:        detector,
		invalidator:     invalidator,
		maxRetries:      maxRetries,
		retentionWindow: retentionWindow,
		onPendingCount:  onPendingCount,
		now:             time.Now,
		logger:          logger,
	}
}

// RunCycle implements SyncEngine.
//
// Exactly one cycle runs at a time: the draining flag is claimed with a
// compare-and-swap, so a trigger that arrives mid-cycle is dropped and the
// next idle tick picks up anything newly enqueued. A started cycle always
// runs its snapshot to completion; ctx bounds the individual calls, not the
// cycle itself.
func (e *syncEngine) RunCycle(ctx context.Context) error {
	if !e.detector.Online() {
		return nil
	}
	if !e.draining.CompareAndSwap(false, true) {
		return nil
	}
	defer e.draining.Store(false)
	defer e.refreshPendingCount(ctx)

	snapshot, err := e.operationLog.ListPending(ctx, e.maxRetries)
	if err != nil {
		return fmt.Errorf("listing pending operations: %w", err)
	}

	if len(snapshot) > 0 {
		e.logger.Info().
			Str("func", "syncEngine.RunCycle").
			Int("entries", len(snapshot)).
			Msg("draining operation log")

		for _, op := range snapshot {
			e.replayOne(ctx, op)
		}
	}

	if purged, err := e.operationLog.PurgeSynced(ctx, e.now().Add(-e.retentionWindow)); err != nil {
		e.logger.Warn().
			Str("func", "syncEngine.RunCycle").
			Err(err).
			Msg("failed to purge synced operations")
	} else if purged > 0 {
		e.logger.Debug().
			Str("func", "syncEngine.RunCycle").
			Int64("purged", purged).
			Msg("purged synced operations past retention")
	}

	e.mu.Lock()
	e.lastSyncAt = e.now()
	e.mu.Unlock()

	return nil
}

// replayOne drives a single entry through its lifecycle. Every failure ends
// in MarkError; nothing here may abort the remaining entries.
func (e *syncEngine) replayOne(ctx context.Context, op models.PendingOperation) {
	if err := e.operationLog.MarkSyncing(ctx, op.ID); err != nil {
		e.logger.Warn().
			Str("func", "syncEngine.replayOne").
			Int64("id", op.ID).
			Err(err).
			Msg("failed to mark operation syncing, skipping")
		return
	}

	result := e.replay(ctx, op)
	if result.Err != nil {
		e.logger.Warn().
			Str("func", "syncEngine.replayOne").
			Int64("id", op.ID).
			Str("operation_type", string(op.Type)).
			Int("retry_count", op.RetryCount).
			Err(result.Err).
			Msg("operation replay failed")

		if err := e.operationLog.MarkError(ctx, op.ID, result.Err.Error()); err != nil {
			e.logger.Error().
				Str("func", "syncEngine.replayOne").
				Int64("id", op.ID).
				Err(err).
				Msg("failed to record replay failure")
		}
		return
	}

	if err := e.operationLog.MarkSynced(ctx, op.ID); err != nil {
		e.logger.Error().
			Str("func", "syncEngine.replayOne").
			Int64("id", op.ID).
			Err(err).
			Msg("failed to mark operation synced")
		return
	}

	payload, err := models.DecodePayload(op.Type, op.Payload)
	if err == nil && e.invalidator != nil {
		for _, key := range e.dispatcher.AffectedScopes(op.Type, payload) {
			e.invalidator.Invalidate(key)
		}
	}
}

// replay converts a dispatch panic into a recorded failure. The dispatcher
// contract says it never panics; this is the engine holding the line anyway
// because one bad entry must not kill the cycle.
func (e *syncEngine) replay(ctx context.Context, op models.PendingOperation) (result models.DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.DispatchResult{Err: fmt.Errorf("dispatch panic: %v", r)}
		}
	}()
	return e.dispatcher.Replay(ctx, op)
}

func (e *syncEngine) refreshPendingCount(ctx context.Context) {
	if e.onPendingCount == nil {
		return
	}

	count, err := e.operationLog.CountPending(ctx)
	if err != nil {
		e.logger.Warn().
			Str("func", "syncEngine.refreshPendingCount").
			Err(err).
			Msg("failed to refresh pending count")
		return
	}
	e.onPendingCount(count)
}

// Status implements SyncEngine.
func (e *syncEngine) Status(ctx context.Context) (models.SyncStatusSnapshot, error) {
	pending, err := e.operationLog.CountPending(ctx)
	if err != nil {
		return models.SyncStatusSnapshot{}, fmt.Errorf("counting pending operations: %w", err)
	}
	frozen, err := e.operationLog.CountFrozen(ctx, e.maxRetries)
	if err != nil {
		return models.SyncStatusSnapshot{}, fmt.Errorf("counting frozen operations: %w", err)
	}

	e.mu.Lock()
	lastSyncAt := e.lastSyncAt
	e.mu.Unlock()

	return models.SyncStatusSnapshot{
		PendingCount: pending,
		FrozenCount:  frozen,
		LastSyncAt:   lastSyncAt,
		Draining:     e.draining.Load(),
	}, nil
}

// FrozenOperations implements SyncEngine.
func (e *syncEngine) FrozenOperations(ctx context.Context) ([]models.PendingOperation, error) {
	return e.operationLog.ListFrozen(ctx, e.maxRetries)
}

// RetryFrozen implements SyncEngine. The entry re-enters the pending set and
// is picked up by the next cycle.
func (e *syncEngine) RetryFrozen(ctx context.Context, id int64) error {
	if err := e.operationLog.ResetFrozen(ctx, id); err != nil {
		return fmt.Errorf("resetting frozen operation %d: %w", id, err)
	}

	e.logger.Info().
		Str("func", "syncEngine.RetryFrozen").
		Int64("id", id).
		Msg("frozen operation requeued")
	return nil
}
