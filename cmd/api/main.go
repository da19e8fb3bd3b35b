package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stocktrail/stocktrail-backend/api/routes"
	authsvc "github.com/stocktrail/stocktrail-backend/internal/auth"
	dashboardsvc "github.com/stocktrail/stocktrail-backend/internal/dashboard"
	documentsvc "github.com/stocktrail/stocktrail-backend/internal/documents"
	locationsvc "github.com/stocktrail/stocktrail-backend/internal/locations"
	productsvc "github.com/stocktrail/stocktrail-backend/internal/products"
	stocksvc "github.com/stocktrail/stocktrail-backend/internal/stock"
	usersvc "github.com/stocktrail/stocktrail-backend/internal/users"
	warehousesvc "github.com/stocktrail/stocktrail-backend/internal/warehouses"
	"github.com/stocktrail/stocktrail-backend/pkg/auth/session"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
	"github.com/stocktrail/stocktrail-backend/pkg/migrate"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox"
	"github.com/stocktrail/stocktrail-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	stockMetrics := metrics.NewStockMetrics(registry)

	conn := dbClient.DB()
	events := outbox.NewService(outbox.NewRepository(conn), logg)
	engine := stocksvc.NewEngine(stocksvc.NewRepository(conn), events, stockMetrics, logg)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       usersvc.NewRepository(conn),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	if err := authsvc.EnsureAdmin(context.Background(), dbClient, cfg.Bootstrap, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to ensure bootstrap admin", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		Registry:       registry,
		Auth:           authService,
		Users:          usersvc.NewService(usersvc.NewRepository(conn)),
		Products:       productsvc.NewService(productsvc.NewRepository(conn)),
		Warehouse:      warehousesvc.NewService(warehousesvc.NewRepository(conn)),
		Locations:      locationsvc.NewService(conn),
		Documents:      documentsvc.NewService(dbClient, documentsvc.NewRepository(conn), engine, events, stockMetrics, logg),
		Stock:          stocksvc.NewQueries(conn),
		Dashboard:      dashboardsvc.NewService(conn),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
