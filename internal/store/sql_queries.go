package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/avelarde/comandero/models"
)

const (
	enqueueOperation = `
		INSERT INTO pending_operations (
			correlation_id,
			operation_type,
			payload,
			created_at,
			sync_status,
			retry_count,
			error_message
		) VALUES ($1, $2, $3, $4, 'pending', 0, '');`

	countPendingOperations = `
		SELECT COUNT(*)
		FROM pending_operations
		WHERE sync_status IN ('pending', 'syncing', 'error');`

	countFrozenOperations = `
		SELECT COUNT(*)
		FROM pending_operations
		WHERE sync_status = 'error' AND retry_count >= $1;`

	markOperationSyncing = `
		UPDATE pending_operations
		SET sync_status = 'syncing'
		WHERE id = $1
		  AND sync_status IN ('pending', 'error');`

	markOperationSynced = `
		UPDATE pending_operations
		SET sync_status = 'synced'
		WHERE id = $1
		  AND sync_status = 'syncing';`

	markOperationError = `
		UPDATE pending_operations
		SET sync_status   = 'error',
		    retry_count   = retry_count + 1,
		    error_message = $1
		WHERE id = $2
		  AND sync_status = 'syncing';`

	purgeSyncedOperations = `
		DELETE FROM pending_operations
		WHERE sync_status = 'synced'
		  AND created_at < $1;`

	resetFrozenOperation = `
		UPDATE pending_operations
		SET sync_status   = 'pending',
		    retry_count   = 0,
		    error_message = ''
		WHERE id = $1
		  AND sync_status = 'error';`
)

var operationColumns = []string{
	"id",
	"correlation_id",
	"operation_type",
	"payload",
	"created_at",
	"sync_status",
	"retry_count",
	"error_message",
}

// buildListPendingQuery builds the drain-cycle snapshot query: entries still
// awaiting replay (pending or error) that have retries left, in strict
// creation order. The id tiebreak keeps ordering deterministic for entries
// enqueued within the same clock tick.
func buildListPendingQuery(maxRetries int) (string, []any, error) {
	query, args, err := sq.
		Select(operationColumns...).
		From("pending_operations").
		Where(sq.Eq{"sync_status": []models.SyncStatus{models.SyncStatusPending, models.SyncStatusError}}).
		Where(sq.Lt{"retry_count": maxRetries}).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: list pending: %v", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListFrozenQuery builds the administrative query for entries that
// exhausted their retries and are excluded from drain cycles.
func buildListFrozenQuery(maxRetries int) (string, []any, error) {
	query, args, err := sq.
		Select(operationColumns...).
		From("pending_operations").
		Where(sq.Eq{"sync_status": models.SyncStatusError}).
		Where(sq.GtOrEq{"retry_count": maxRetries}).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: list frozen: %v", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
