package service

import (
	"context"
	"time"

	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// DispatchService is the single entry point for terminal mutations. It maps
// each operation type to its remote procedure and decides, per call, between
// immediate execution and durable queueing.
type DispatchService interface {
	// Execute dispatches the operation against the server right away and
	// returns the outcome as a value. It never panics out: transport
	// failures, server rejections and payload errors all come back inside
	// the DispatchResult so callers (the sync engine in particular) can
	// record them without aborting.
	Execute(ctx context.Context, opType models.OperationType, payload models.OperationPayload) models.DispatchResult

	// ExecuteOrQueue behaves as Execute while online. Offline, it validates
	// and appends the operation to the durable log and returns a synthetic
	// result with PendingSync set and a placeholder ID, so the caller can
	// render a provisional row until the drain cycle confirms it.
	ExecuteOrQueue(ctx context.Context, opType models.OperationType, payload models.OperationPayload) models.DispatchResult

	// Replay dispatches one previously queued log entry: it decodes the
	// stored payload and executes it as the original call would have.
	Replay(ctx context.Context, op models.PendingOperation) models.DispatchResult

	// AffectedScopes reports which cache keys a successful operation of the
	// given type invalidates.
	AffectedScopes(opType models.OperationType, payload models.OperationPayload) []cache.Key
}

// SyncEngine drains the durable operation log against the server.
type SyncEngine interface {
	// RunCycle executes one drain cycle: snapshot the pending entries,
	// replay them strictly in creation order, purge expired synced entries
	// and refresh the status snapshot. A cycle while offline or while
	// another cycle is already draining is a no-op. The returned error
	// reports cycle-level failures only; per-entry failures are recorded on
	// the entries themselves.
	RunCycle(ctx context.Context) error

	// Status returns the current queue counters for the UI.
	Status(ctx context.Context) (models.SyncStatusSnapshot, error)

	// FrozenOperations lists entries that exhausted their retries and await
	// manual resolution.
	FrozenOperations(ctx context.Context) ([]models.PendingOperation, error)

	// RetryFrozen puts one frozen entry back into the pending set with a
	// reset retry budget.
	RetryFrozen(ctx context.Context, id int64) error
}

// SyncJob schedules RunCycle on a ticker and on transitions to online. The
// job is idle until Start is called.
type SyncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
