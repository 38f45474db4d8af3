package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockroom/stockroom/internal/app"
	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/dashboard"
	"github.com/stockroom/stockroom/internal/platform/cache"
	"github.com/stockroom/stockroom/internal/masterdata/links"
	"github.com/stockroom/stockroom/internal/masterdata/products"
	"github.com/stockroom/stockroom/internal/masterdata/suppliers"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/sales/customers"
	"github.com/stockroom/stockroom/internal/sales/orders"
	"github.com/stockroom/stockroom/internal/sales/payments"
	"github.com/stockroom/stockroom/internal/store"
	"github.com/stockroom/stockroom/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := auth.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)

	authService := auth.NewService(api, sessionManager, logger)
	authHandler := auth.NewHandler(logger, authService)

	entityStore := store.New(api, authService, logger)

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(api, authService, dashboardCache, logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	ordersService := orders.NewService(api, authService, entityStore, dashboardCache, logger)
	ordersHandler := orders.NewHandler(logger, ordersService, entityStore)

	paymentsService := payments.NewService(api, authService, entityStore, dashboardCache, logger)
	paymentsHandler := payments.NewHandler(logger, paymentsService, entityStore)

	customersService := customers.NewService(api, authService, entityStore, logger)
	customersHandler := customers.NewHandler(logger, customersService)

	productsService := products.NewService(api, authService, entityStore, logger)
	productsHandler := products.NewHandler(logger, productsService)

	suppliersService := suppliers.NewService(api, authService, entityStore, logger)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)

	linksService := links.NewService(api, authService, entityStore, logger)
	linksHandler := links.NewHandler(logger, linksService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		AuthHandler:      authHandler,
		OrdersHandler:    ordersHandler,
		PaymentsHandler:  paymentsHandler,
		CustomersHandler: customersHandler,
		ProductsHandler:  productsHandler,
		SuppliersHandler: suppliersHandler,
		LinksHandler:     linksHandler,
		DashboardHandler: dashboardHandler,
		JobsHandler:      jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
