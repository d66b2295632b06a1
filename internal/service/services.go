package service

import (
	"github.com/avelarde/comandero/internal/adapter"
	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/config"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/netwatch"
	"github.com/avelarde/comandero/internal/store"
)

type Services struct {
	DispatchService DispatchService
	SyncEngine      SyncEngine
	SyncJob         SyncJob
}

// NewServices wires the dispatcher, sync engine and sync job together.
// onPendingCount may be nil when no UI badge is attached.
func NewServices(
	cfg config.ClientConfig,
	operationLog store.OperationLogRepository,
	serverAdapter adapter.ServerAdapter,
	detector netwatch.Detector,
	readCache *cache.ReactiveCache,
	onPendingCount PendingCountFunc,
	logger *logger.Logger,
) *Services {
	dispatchSvc := NewDispatchService(serverAdapter, operationLog, detector, cfg.App.LocationID, logger)
	engine := NewSyncEngine(
		operationLog,
		dispatchSvc,
		detector,
		readCache,
		cfg.Workers.MaxRetries,
		cfg.Workers.RetentionWindow,
		onPendingCount,
		logger,
	)

	return &Services{
		DispatchService: dispatchSvc,
		SyncEngine:      engine,
		SyncJob:         NewSyncJob(engine, detector, logger),
	}
}
