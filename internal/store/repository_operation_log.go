package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/models"
)

type operationLogRepository struct {
	*DB
	logger *logger.Logger

	now func() time.Time
}

func NewOperationLogRepository(db *DB, logger *logger.Logger) OperationLogRepository {
	return &operationLogRepository{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *operationLogRepository) Enqueue(ctx context.Context, correlationID string, opType models.OperationType, payload json.RawMessage) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, enqueueOperation,
		correlationID,
		string(opType),
		string(payload),
		r.now().UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.Enqueue").
			Str("operation_type", string(opType)).
			Msg("failed to append operation to the log")
		return 0, fmt.Errorf("%w: enqueue %s: %v", ErrStorageUnavailable, opType, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.Enqueue").
			Str("operation_type", string(opType)).
			Msg("failed to read id of appended operation")
		return 0, fmt.Errorf("%w: enqueue %s: read id: %v", ErrStorageUnavailable, opType, err)
	}

	return id, nil
}

func (r *operationLogRepository) ListPending(ctx context.Context, maxRetries int) ([]models.PendingOperation, error) {
	query, args, err := buildListPendingQuery(maxRetries)
	if err != nil {
		return nil, err
	}

	return r.queryOperations(ctx, "operationLogRepository.ListPending", query, args...)
}

func (r *operationLogRepository) ListFrozen(ctx context.Context, maxRetries int) ([]models.PendingOperation, error) {
	query, args, err := buildListFrozenQuery(maxRetries)
	if err != nil {
		return nil, err
	}

	return r.queryOperations(ctx, "operationLogRepository.ListFrozen", query, args...)
}

func (r *operationLogRepository) queryOperations(ctx context.Context, caller, query string, args ...any) ([]models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Msg("failed to execute query for operation log entries")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ops []models.PendingOperation

	for rows.Next() {
		var (
			op      models.PendingOperation
			opType  string
			status  string
			payload string
		)

		scanErr := rows.Scan(
			&op.ID,
			&op.CorrelationID,
			&opType,
			&payload,
			&op.CreatedAt,
			&status,
			&op.RetryCount,
			&op.ErrorMessage,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", caller).
				Msg("failed to scan operation log row")
			return nil, fmt.Errorf("%w: %v", ErrScanningRow, scanErr)
		}

		op.Type = models.OperationType(opType)
		op.SyncStatus = models.SyncStatus(status)
		op.Payload = json.RawMessage(payload)

		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", caller).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating operation log rows: %w", rowsErr)
	}

	return ops, nil
}

func (r *operationLogRepository) CountPending(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	row := r.DB.QueryRowContext(ctx, countPendingOperations)
	if err := row.Scan(&count); err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.CountPending").
			Msg("failed to count pending operations")
		return 0, fmt.Errorf("%w: count pending: %v", ErrExecutingQuery, err)
	}

	return count, nil
}

func (r *operationLogRepository) CountFrozen(ctx context.Context, maxRetries int) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	row := r.DB.QueryRowContext(ctx, countFrozenOperations, maxRetries)
	if err := row.Scan(&count); err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.CountFrozen").
			Msg("failed to count frozen operations")
		return 0, fmt.Errorf("%w: count frozen: %v", ErrExecutingQuery, err)
	}

	return count, nil
}

func (r *operationLogRepository) MarkSyncing(ctx context.Context, id int64) error {
	return r.transition(ctx, "operationLogRepository.MarkSyncing", markOperationSyncing, id)
}

func (r *operationLogRepository) MarkSynced(ctx context.Context, id int64) error {
	return r.transition(ctx, "operationLogRepository.MarkSynced", markOperationSynced, id)
}

func (r *operationLogRepository) MarkError(ctx context.Context, id int64, message string) error {
	return r.transition(ctx, "operationLogRepository.MarkError", markOperationError, message, id)
}

func (r *operationLogRepository) ResetFrozen(ctx context.Context, id int64) error {
	return r.transition(ctx, "operationLogRepository.ResetFrozen", resetFrozenOperation, id)
}

// transition executes a single-row status UPDATE. Each transition statement
// carries its own WHERE guard on the current status, which is what makes the
// pending → syncing → (synced | error) lifecycle enforceable at the storage
// level: an illegal transition simply affects zero rows.
func (r *operationLogRepository) transition(ctx context.Context, caller, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Msg("failed to execute status transition for operation")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Msg("failed to get rows affected after status transition")
		return fmt.Errorf("%w: rows affected: %v", ErrExecutingStatement, err)
	}

	if rowsAffected == 0 {
		log.Warn().
			Str("func", caller).
			Msg("no rows affected during status transition: entry missing or in wrong status")
		return ErrOperationNotFound
	}

	return nil
}

func (r *operationLogRepository) PurgeSynced(ctx context.Context, olderThan time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, purgeSyncedOperations, olderThan.UTC())
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.PurgeSynced").
			Time("older_than", olderThan).
			Msg("failed to purge synced operations")
		return 0, fmt.Errorf("%w: purge synced: %v", ErrExecutingStatement, err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.PurgeSynced").
			Msg("failed to get rows affected after purge")
		return 0, fmt.Errorf("%w: purge synced: rows affected: %v", ErrExecutingStatement, err)
	}

	return purged, nil
}
