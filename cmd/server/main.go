package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appnotification "github.com/inventaris/backend/internal/application/notification"
	appopname "github.com/inventaris/backend/internal/application/opname"
	apppurchase "github.com/inventaris/backend/internal/application/purchase"
	apprequest "github.com/inventaris/backend/internal/application/request"
	appstock "github.com/inventaris/backend/internal/application/stock"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/infrastructure/cache"
	"github.com/inventaris/backend/internal/infrastructure/config"
	"github.com/inventaris/backend/internal/infrastructure/event"
	"github.com/inventaris/backend/internal/infrastructure/logger"
	"github.com/inventaris/backend/internal/infrastructure/persistence"
	"github.com/inventaris/backend/internal/infrastructure/queue"
	"github.com/inventaris/backend/internal/infrastructure/telemetry"
	"github.com/inventaris/backend/internal/infrastructure/whatsapp"
	"github.com/inventaris/backend/internal/interfaces/http/handler"
	"github.com/inventaris/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.GormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	departmentRepo := persistence.NewGormDepartmentRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	stockMutationRepo := persistence.NewGormStockMutationRepository(db.DB)
	settingRepo := persistence.NewGormNotificationSettingRepository(db.DB)
	logRepo := persistence.NewGormNotificationLogRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with idempotent notification dispatch
	bus := event.NewInMemoryEventBus(log)

	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("failed to close idempotency store", zap.Error(err))
		}
	}()

	// Notification delivery pipeline
	metrics, err := telemetry.NewNotificationMetrics()
	if err != nil {
		log.Warn("failed to create notification metrics", zap.Error(err))
	}

	var gateway whatsapp.Gateway
	if cfg.WhatsApp.Enabled {
		gateway = whatsapp.NewClient(whatsapp.Config{
			BaseURL:  cfg.WhatsApp.BaseURL,
			APIToken: cfg.WhatsApp.APIToken,
			Sender:   cfg.WhatsApp.Sender,
			Timeout:  cfg.WhatsApp.Timeout,
		}, log)
	} else {
		gateway = whatsapp.NewLogGateway(log)
	}

	generator := appnotification.NewMessageGenerator()
	processor := appnotification.NewDeliveryProcessor(
		settingRepo,
		logRepo,
		userRepo,
		gateway,
		generator,
		appnotification.RetryPolicy{
			MaxAttempts: cfg.Queue.MaxAttempts,
			Backoff:     cfg.Queue.BackoffSteps,
		},
		shared.SystemClock{},
		log,
	)
	processor.SetMetrics(metrics)

	deliveryQueue := queue.NewDeliveryQueue(queue.Config{
		Workers:    cfg.Queue.Workers,
		BufferSize: cfg.Queue.BufferSize,
	}, processor, log)

	if err := telemetry.RegisterQueueDepth(deliveryQueue.Pending); err != nil {
		log.Warn("failed to register queue depth gauge", zap.Error(err))
	}

	dispatcher := appnotification.NewDispatcher(settingRepo, userRepo, deliveryQueue, log)
	dispatcher.SetMetrics(metrics)

	idempotentDispatcher := event.NewIdempotentHandler(
		dispatcher,
		idempotencyStore,
		shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true},
		log,
	)
	bus.Subscribe(idempotentDispatcher, dispatcher.EventTypes()...)

	// Application services
	ledgerService := appstock.NewLedgerService(scope, bus, log)
	itemService := appstock.NewItemService(stockItemRepo, stockMutationRepo, log)
	requestService := apprequest.NewService(scope, ledgerService, userRepo, departmentRepo, bus, log)
	purchaseService := apppurchase.NewService(scope, ledgerService, userRepo, bus, log)
	opnameService := appopname.NewService(scope, ledgerService, userRepo, bus, log)
	settingsService := appnotification.NewSettingsService(settingRepo, logRepo, log)

	// HTTP layer
	engine := router.New(cfg, log, router.Handlers{
		System:       handler.NewSystemHandler(db, version),
		Stock:        handler.NewStockHandler(itemService, ledgerService),
		Request:      handler.NewRequestHandler(requestService),
		Purchase:     handler.NewPurchaseHandler(purchaseService),
		Opname:       handler.NewOpnameHandler(opnameService),
		Notification: handler.NewNotificationHandler(settingsService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := deliveryQueue.Start(ctx); err != nil {
		log.Fatal("failed to start delivery queue", zap.Error(err))
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	// Drain in-flight deliveries before the process exits
	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Queue.StopTimeout)
	defer stopCancel()
	if err := deliveryQueue.Stop(stopCtx); err != nil {
		log.Error("delivery queue did not drain cleanly", zap.Error(err))
	}

	log.Info("server stopped")
}
