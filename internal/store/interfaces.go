package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avelarde/comandero/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// OperationLogRepository is the durable, append-only log of mutations that
// have not yet been confirmed by the server. Entries are keyed by a
// monotonically increasing id and ordered by creation time; the payload is
// opaque at this layer.
type OperationLogRepository interface {
	// Enqueue appends a new entry with status pending and zero retries and
	// returns its id. Returns [ErrStorageUnavailable] (wrapped) if the
	// durable medium cannot be written; the mutation is lost in that case
	// and the caller must surface the failure.
	Enqueue(ctx context.Context, correlationID string, opType models.OperationType, payload json.RawMessage) (int64, error)

	// ListPending returns a snapshot of entries with status pending or error
	// and retry_count below maxRetries, ascending by created_at. It does not
	// mutate state.
	ListPending(ctx context.Context, maxRetries int) ([]models.PendingOperation, error)

	// CountPending counts entries with status pending, syncing or error, for
	// UI feedback.
	CountPending(ctx context.Context) (int, error)

	// MarkSyncing transitions the entry to syncing. Legal only from pending
	// or error; returns [ErrOperationNotFound] otherwise.
	MarkSyncing(ctx context.Context, id int64) error

	// MarkSynced transitions the entry from syncing to synced.
	MarkSynced(ctx context.Context, id int64) error

	// MarkError transitions the entry from syncing to error, increments its
	// retry count and records message as the most recent failure.
	MarkError(ctx context.Context, id int64, message string) error

	// PurgeSynced deletes synced entries created before olderThan and returns
	// the number of rows removed.
	PurgeSynced(ctx context.Context, olderThan time.Time) (int64, error)

	// ListFrozen returns entries that exhausted their retries (status error,
	// retry_count >= maxRetries). Frozen entries are excluded from drain
	// cycles but never deleted automatically.
	ListFrozen(ctx context.Context, maxRetries int) ([]models.PendingOperation, error)

	// CountFrozen counts entries excluded from drain cycles by retry
	// exhaustion.
	CountFrozen(ctx context.Context, maxRetries int) (int, error)

	// ResetFrozen returns a frozen entry to status pending with zero retries,
	// re-admitting it to drain cycles. This is the manual-resolution hook.
	ResetFrozen(ctx context.Context, id int64) error
}
