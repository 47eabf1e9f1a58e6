package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/config"
	"github.com/young4chicks/brooder/internal/repository"
	"github.com/young4chicks/brooder/internal/repository/memory"
	"github.com/young4chicks/brooder/internal/repository/mongodb"
	"github.com/young4chicks/brooder/internal/repository/sheets"
	"github.com/young4chicks/brooder/internal/scheduler"
	"github.com/young4chicks/brooder/internal/server/handlers"
	"github.com/young4chicks/brooder/internal/server/router"
	accountsvc "github.com/young4chicks/brooder/internal/service/accounts"
	inventorysvc "github.com/young4chicks/brooder/internal/service/inventory"
	reportingsvc "github.com/young4chicks/brooder/internal/service/reporting"
	whatsappsvc "github.com/young4chicks/brooder/internal/service/whatsapp"
	workflowsvc "github.com/young4chicks/brooder/internal/service/workflow"
	whatsappclient "github.com/young4chicks/brooder/pkg/clients/whatsapp"
	"github.com/young4chicks/brooder/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init record store", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			baseLogger.Error("failed to close record store", zap.Error(err))
		}
	}()

	tokens := accountsvc.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accountSvc := accountsvc.NewService(store, tokens, baseLogger.Named("svc.accounts"))
	workflowSvc := workflowsvc.NewService(store, cfg.Workflow.PhoneRegion, cfg.Workflow.ChickUnitPrice, baseLogger.Named("svc.workflow"))
	inventorySvc := inventorysvc.NewService(store, cfg.Workflow.ChickUnitPrice, baseLogger.Named("svc.inventory"))
	reportingSvc := reportingsvc.NewService(store, cfg.Workflow.ChickUnitPrice, loc, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(accountSvc, baseLogger.Named("handlers.auth")),
		Farmers:   handlers.NewFarmerHandler(workflowSvc, baseLogger.Named("handlers.farmers")),
		Requests:  handlers.NewRequestHandler(workflowSvc, baseLogger.Named("handlers.requests")),
		Inventory: handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, baseLogger.Named("handlers.dashboard")),
	}, tokens, accountSvc, baseLogger.Named("router"))

	schedOpts := scheduler.Options{
		Schedule:  cfg.Reporting.CronSchedule,
		Location:  loc,
		Recipient: cfg.Reporting.Recipient,
	}
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		schedOpts.Notifier = whatsappsvc.NewMetaWhatsAppService(whatsClient, baseLogger.Named("svc.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp token missing, weekly report delivery disabled")
	}
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		schedOpts.Exporter = sheets.NewReportExporter(sheetsRepo)
	} else {
		baseLogger.Warn("google sheets not configured, weekly report export disabled")
	}

	sched := scheduler.NewScheduler(reportingSvc, schedOpts, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	if cfg.Store.Driver == config.StoreMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	repo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
