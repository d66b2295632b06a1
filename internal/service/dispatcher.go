package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avelarde/comandero/internal/adapter"
	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/netwatch"
	"github.com/avelarde/comandero/internal/store"
	"github.com/avelarde/comandero/internal/utils"
	"github.com/avelarde/comandero/models"
)

type dispatchService struct {
	serverAdapter adapter.ServerAdapter
	operationLog  store.OperationLogRepository
	detector      netwatch.Detector

	locationID string
	uuid       *utils.UUIDGenerator
	now        func() time.Time

	logger *logger.Logger
}

// NewDispatchService builds the mutation dispatcher. locationID is the
// terminal's home location, used as the cache scope for operations whose
// payload does not carry one.
func NewDispatchService(serverAdapter adapter.ServerAdapter, operationLog store.OperationLogRepository, detector netwatch.Detector, locationID string, logger *logger.Logger) DispatchService {
	return &dispatchService{
		serverAdapter: serverAdapter,
		operationLog:  operationLog,
		detector:      detector,
		locationID:    locationID,
		uuid:          utils.NewUUIDGenerator(),
		now:           time.Now,
		logger:        logger,
	}
}

// Execute implements DispatchService.
func (d *dispatchService) Execute(ctx context.Context, opType models.OperationType, payload models.OperationPayload) models.DispatchResult {
	return d.execute(ctx, opType, payload, models.OperationRequest{
		CorrelationID: d.uuid.Generate(),
		Payload:       payload,
	})
}

func (d *dispatchService) execute(ctx context.Context, opType models.OperationType, payload models.OperationPayload, req models.OperationRequest) models.DispatchResult {
	if payload == nil {
		return models.DispatchResult{Err: ErrNoPayload}
	}
	if err := payload.Validate(); err != nil {
		return models.DispatchResult{Err: err}
	}

	call, err := d.remoteProcedure(opType)
	if err != nil {
		return models.DispatchResult{Err: err}
	}

	data, err := call(ctx, req)
	if err != nil {
		d.logger.Warn().
			Str("func", "dispatchService.execute").
			Str("operation_type", string(opType)).
			Str("correlation_id", req.CorrelationID).
			Err(err).
			Msg("dispatch failed")
		return models.DispatchResult{Err: fmt.Errorf("%w: %w", ErrDispatchFailed, err)}
	}

	return models.DispatchResult{Data: data}
}

// remoteProcedure maps an operation type to its server call. The mapping is
// closed; unknown types are rejected before any network traffic.
func (d *dispatchService) remoteProcedure(opType models.OperationType) (func(context.Context, models.OperationRequest) (models.Record, error), error) {
	switch opType.Normalize() {
	case models.OpCreateOrder:
		return d.serverAdapter.CreateOrder, nil
	case models.OpCloseOrder:
		return d.serverAdapter.CloseOrder, nil
	case models.OpCloseOrderSplit:
		return d.serverAdapter.CloseOrderSplit, nil
	case models.OpUpdateOrderStatus:
		return d.serverAdapter.UpdateOrderStatus, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownOperationType, opType)
	}
}

// ExecuteOrQueue implements DispatchService.
func (d *dispatchService) ExecuteOrQueue(ctx context.Context, opType models.OperationType, payload models.OperationPayload) models.DispatchResult {
	if d.detector.Online() {
		return d.Execute(ctx, opType, payload)
	}

	if payload == nil {
		return models.DispatchResult{Err: ErrNoPayload}
	}
	raw, err := models.EncodePayload(opType, payload)
	if err != nil {
		return models.DispatchResult{Err: err}
	}

	correlationID := d.uuid.Generate()
	logID, err := d.operationLog.Enqueue(ctx, correlationID, opType, raw)
	if err != nil {
		d.logger.Error().
			Str("func", "dispatchService.ExecuteOrQueue").
			Str("operation_type", string(opType)).
			Err(err).
			Msg("failed to enqueue operation while offline")
		return models.DispatchResult{Err: fmt.Errorf("%w: %w", ErrEnqueueFailed, err)}
	}

	placeholderID := fmt.Sprintf("offline-%d-%d", logID, d.now().UnixNano())
	d.logger.Info().
		Str("func", "dispatchService.ExecuteOrQueue").
		Str("operation_type", string(opType)).
		Int64("log_id", logID).
		Str("placeholder_id", placeholderID).
		Msg("operation queued for sync")

	return models.DispatchResult{
		PendingSync:   true,
		PlaceholderID: placeholderID,
		LogID:         logID,
	}
}

// Replay implements DispatchService. The stored payload was validated at
// enqueue time; a decode failure here means the log entry is corrupt and is
// reported as a dispatch failure so the engine records it.
func (d *dispatchService) Replay(ctx context.Context, op models.PendingOperation) models.DispatchResult {
	payload, err := models.DecodePayload(op.Type, op.Payload)
	if err != nil {
		return models.DispatchResult{Err: err}
	}

	return d.execute(ctx, op.Type, payload, models.OperationRequest{
		CorrelationID: op.CorrelationID,
		Payload:       payload,
	})
}

// AffectedScopes implements DispatchService. Every order mutation invalidates
// the orders collection for the operation's location and the aggregated view;
// operations that change table occupancy also invalidate the tables scope.
func (d *dispatchService) AffectedScopes(opType models.OperationType, payload models.OperationPayload) []cache.Key {
	scope := d.locationID
	switch p := payload.(type) {
	case models.CreateOrderPayload:
		if p.LocationID != "" {
			scope = p.LocationID
		}
	case models.CloseOrderPayload:
		if p.LocationID != "" {
			scope = p.LocationID
		}
	case models.CloseOrderSplitPayload:
		if p.LocationID != "" {
			scope = p.LocationID
		}
	case models.UpdateOrderStatusPayload:
		if p.LocationID != "" {
			scope = p.LocationID
		}
	}

	keys := []cache.Key{
		{Resource: cache.ResourceOrders, Scope: scope},
		{Resource: cache.ResourceOrders, Scope: models.ScopeAll},
	}

	switch opType.Normalize() {
	case models.OpCreateOrder, models.OpCloseOrder, models.OpCloseOrderSplit:
		keys = append(keys, cache.Key{Resource: cache.ResourceTables, Scope: scope})
	}
	return keys
}
