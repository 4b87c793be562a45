package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rkjewellers/billing-api/internal/application/service"
	"github.com/rkjewellers/billing-api/internal/config"
	"github.com/rkjewellers/billing-api/internal/infrastructure/database"
	"github.com/rkjewellers/billing-api/internal/infrastructure/repository"
	"github.com/rkjewellers/billing-api/internal/infrastructure/scheduler"
	"github.com/rkjewellers/billing-api/internal/presentation/http/handler"
	"github.com/rkjewellers/billing-api/internal/presentation/http/routes"
	"github.com/rkjewellers/billing-api/pkg/logger"
	"github.com/rkjewellers/billing-api/pkg/printer"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	flush, err := logger.Init(logger.Config{
		Mode:       cfg.Log.Mode,
		FileEnable: cfg.Log.FileEnable,
		Filename:   cfg.Log.Filename,
	})
	if err != nil {
		panic(err)
	}
	defer flush()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.App.Location()
	if err != nil {
		zap.L().Fatal("invalid timezone", zap.Error(err))
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		zap.L().Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		zap.L().Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	shopRepo := repository.NewShopRepository(db)
	exportRepo := repository.NewExportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		zap.L().Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	clock := service.NewClock(loc)
	customerService := service.NewCustomerService(customerRepo)
	invoiceService := service.NewInvoiceService(transactor, invoiceRepo, customerRepo, revenueRepo, clock)
	ledgerService := service.NewLedgerService(transactor, invoiceRepo, customerRepo, revenueRepo, clock)
	settingsService := service.NewSettingsService(transactor, shopRepo, customerRepo, invoiceRepo, revenueRepo)
	dashboardService := service.NewDashboardService(customerRepo, invoiceRepo, revenueRepo, clock)
	exportService := service.NewExportService(exportRepo, loc)
	printerService := service.NewPrinterService(thermalPrinter, invoiceRepo, customerRepo, shopRepo, loc, cfg.Printer.Width)

	jobs := scheduler.New(idempotencyRepo, revenueRepo, loc)
	if err := jobs.Start(); err != nil {
		zap.L().Fatal("failed to start scheduler", zap.Error(err))
	}
	defer jobs.Stop()

	resetLimiter := routes.NewResetLimiter(&cfg.RateLimit)
	defer resetLimiter.Close()

	// Initialize handlers
	handlers := &routes.Handlers{
		Customer:  handler.NewCustomerHandler(customerService, ledgerService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Ledger:    handler.NewLedgerHandler(ledgerService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Export:    handler.NewExportHandler(exportService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		ResetLimiter:    resetLimiter,
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}
}
