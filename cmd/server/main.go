// Package main is the entry point for the stockcore API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockcore/internal/domain/catalogs/item"
	"stockcore/internal/domain/catalogs/product"
	"stockcore/internal/domain/catalogs/warehouse"
	domfinance "stockcore/internal/domain/finance"
	"stockcore/internal/domain/ledger"
	"stockcore/internal/domain/movement"
	"stockcore/internal/domain/units"
	"stockcore/internal/infrastructure/finance"
	v1 "stockcore/internal/infrastructure/http/v1"
	"stockcore/internal/infrastructure/sequence"
	"stockcore/internal/infrastructure/storage/postgres"
	"stockcore/internal/infrastructure/storage/postgres/catalog_repo"
	"stockcore/internal/infrastructure/storage/postgres/ledger_repo"
	"stockcore/internal/infrastructure/storage/postgres/movement_repo"
	"stockcore/internal/infrastructure/storage/postgres/unit_repo"
	"stockcore/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockcore server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txm := postgres.NewTxManager(pool)

	// --- Code sequences ---
	// Issuance joins the caller's transaction, so codes reserved by a
	// movement that later aborts are rolled back with it.
	seq := sequence.NewWithTxManager(txm)

	// --- Repositories ---
	warehouseRepo := catalog_repo.NewWarehouseRepo(txm)
	itemRepo := catalog_repo.NewItemRepo(txm)
	productRepo := catalog_repo.NewProductRepo(txm)
	stockRowRepo := ledger_repo.NewStockRowRepo(txm)
	movementRepo := movement_repo.NewMovementRepo(txm)
	unitRepo := unit_repo.NewUnitRepo(txm)
	historyRepo := unit_repo.NewHistoryRepo(txm)
	holders := unit_repo.NewHolderDirectory(txm)

	// --- Finance ---
	var financeRec domfinance.Recorder = finance.Noop{}
	if baseURL := getEnv("FINANCE_BASE_URL", ""); baseURL != "" {
		financeRec = finance.NewClient(finance.Config{
			BaseURL: baseURL,
			APIKey:  getEnv("FINANCE_API_KEY", ""),
			Timeout: getEnvDuration("FINANCE_TIMEOUT", 10*time.Second),
		})
		log.Infow("finance client configured", "base_url", baseURL)
	} else {
		log.Warn("FINANCE_BASE_URL not set, purchase expenses will not be recorded")
	}

	// --- Services ---
	warehouseSvc := warehouse.NewService(warehouseRepo, seq)
	itemSvc := item.NewService(itemRepo, seq)
	productSvc := product.NewService(productRepo)
	ledgerSvc := ledger.NewService(stockRowRepo, itemRepo)
	movementSvc := movement.NewService(txm, movementRepo, itemRepo, warehouseRepo, ledgerSvc, seq, financeRec)
	unitSvc := units.NewService(txm, unitRepo, historyRepo, productRepo, warehouseRepo, holders, seq)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:       pool,
		Logger:     log,
		Warehouses: warehouseSvc,
		Items:      itemSvc,
		Products:   productSvc,
		Ledger:     ledgerSvc,
		Movements:  movementSvc,
		Units:      unitSvc,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
