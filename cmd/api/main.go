package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/routes"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/auth"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/cards"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/dashboard"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/invoices"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/merchants"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/payments"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/seed"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/sessions"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/transactions"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/users"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/config"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/metrics"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/migrate"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/redis"
)

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

	if err := seed.MaybeRun(context.Background(), cfg, logg, dbClient.DB()); err != nil {
		logg.Error(context.Background(), "failed to seed demo data", err)
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

	authService, err := auth.NewService(
		users.NewRepository(dbClient.DB()),
		sessions.NewRepository(dbClient.DB()),
		cfg.Password,
		cfg.Session,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cardService, err := cards.NewService(cards.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create card service", err)
		os.Exit(1)
	}

	merchantService, err := merchants.NewService(merchants.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create merchant service", err)
		os.Exit(1)
	}

	invoiceService, err := invoices.NewService(invoices.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	transactionService, err := transactions.NewService(transactions.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create transaction service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(
		invoiceService,
		cardService,
		merchantService,
		transactionService,
		logg,
		metrics.NewPaymentMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()), merchantService)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			cardService,
			merchantService,
			invoiceService,
			transactionService,
			paymentService,
			dashboardService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
