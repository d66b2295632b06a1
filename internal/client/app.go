package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avelarde/comandero/internal/adapter"
	"github.com/avelarde/comandero/internal/cache"
	"github.com/avelarde/comandero/internal/config"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/netwatch"
	"github.com/avelarde/comandero/internal/realtime"
	"github.com/avelarde/comandero/internal/service"
	"github.com/avelarde/comandero/internal/store"
	"github.com/avelarde/comandero/internal/workers"
	"github.com/avelarde/comandero/models"
)

// App is the assembled terminal application: transport, durable log, read
// cache, connectivity monitor and background workers, ready to Run.
type App struct {
	cfg      *config.ClientConfig
	services *service.Services

	readCache  *cache.ReactiveCache
	monitor    *netwatch.Monitor
	subscriber *realtime.Subscriber
	workers    *workers.Workers

	logger *logger.Logger
}

// NewApp wires all application components from the validated configuration.
func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	monitor := netwatch.NewMonitor(log)
	readCache := cache.NewReactiveCache(fetchCollections(serverAdapter), cfg.Cache.FreshFor, log)

	onPendingCount := func(count int) {
		log.Debug().Int("pending", count).Msg("operations awaiting sync")
	}
	services := service.NewServices(*cfg, storages.OperationLog, serverAdapter, monitor, readCache, onPendingCount, log)

	subscriber := realtime.NewSubscriber(cfg.Adapter.RealtimeAddress, cfg.App.LocationID, readCache, log)

	// The monitor starts first so the sync job sees real connectivity state
	// from its first tick.
	allWorkers := workers.New(log,
		monitor,
		workers.NewSyncJobWorker(services.SyncJob, cfg.Workers.SyncInterval),
		subscriber,
	)

	return &App{
		cfg:        cfg,
		services:   services,
		readCache:  readCache,
		monitor:    monitor,
		subscriber: subscriber,
		workers:    allWorkers,
		logger:     log,
	}, nil
}

// fetchCollections maps cache keys to the adapter's read endpoints.
func fetchCollections(serverAdapter adapter.ServerAdapter) cache.FetchFunc {
	return func(ctx context.Context, key cache.Key) (models.Collection, error) {
		switch key.Resource {
		case cache.ResourceOrders:
			return serverAdapter.ListOrders(ctx, key.Scope)
		case cache.ResourceTables:
			return serverAdapter.ListTables(ctx, key.Scope)
		default:
			return nil, fmt.Errorf("unknown cache resource %q", key.Resource)
		}
	}
}

// Run implements Client. It starts the background workers, drains anything
// queued by a previous session, and blocks until the process receives an
// interrupt or termination signal.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.workers.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}
	defer a.workers.Stop()

	if err := a.services.SyncEngine.RunCycle(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("startup drain cycle failed")
	}

	a.logger.Info().
		Str("location", a.cfg.App.LocationID).
		Str("terminal", a.cfg.App.TerminalID).
		Msg("terminal is running")

	<-ctx.Done()

	a.logger.Info().Msg("shutting down")
	return nil
}

// Services exposes the service layer to presentation code.
func (a *App) Services() *service.Services {
	return a.services
}

// Cache exposes the read cache to presentation code.
func (a *App) Cache() *cache.ReactiveCache {
	return a.readCache
}

// Connected reports whether the realtime subscription is established.
func (a *App) Connected() bool {
	return a.subscriber.Connected()
}

// SetAirplaneMode forces the connectivity state, overriding detection.
func (a *App) SetAirplaneMode(enabled bool) {
	if enabled {
		a.monitor.SetOnline(false)
		return
	}
	a.monitor.ClearOverride()
}
