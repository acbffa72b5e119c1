// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/item"
	"stockcore/internal/domain/catalogs/product"
	"stockcore/internal/domain/catalogs/warehouse"
	"stockcore/internal/infrastructure/sequence"
	"stockcore/internal/infrastructure/storage/postgres"
	"stockcore/internal/infrastructure/storage/postgres/catalog_repo"
	"stockcore/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	seq := sequence.NewWithTxManager(txm)

	warehouseSvc := warehouse.NewService(catalog_repo.NewWarehouseRepo(txm), seq)
	itemSvc := item.NewService(catalog_repo.NewItemRepo(txm), seq)
	productSvc := product.NewService(catalog_repo.NewProductRepo(txm))

	existing, err := warehouseSvc.List(ctx)
	if err != nil {
		log.Fatalw("failed to list warehouses", "error", err)
	}
	if len(existing) > 0 {
		log.Infow("database already seeded, nothing to do", "warehouses", len(existing))
		return
	}

	if err := seedCatalogs(ctx, log, warehouseSvc, itemSvc, productSvc); err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedHolders(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed holders", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedCatalogs(
	ctx context.Context,
	log *logger.Logger,
	warehouses *warehouse.Service,
	items *item.Service,
	products *product.Service,
) error {
	main := warehouse.NewWarehouse("", "Main Warehouse", warehouse.TypeMain)
	main.IsDefault = true
	if err := warehouses.Create(ctx, main); err != nil {
		return fmt.Errorf("create main warehouse: %w", err)
	}
	log.Infow("warehouse created", "code", main.Code, "name", main.Name)

	spare := warehouse.NewWarehouse("", "Spare Parts Depot", warehouse.TypeDistribution)
	if err := warehouses.Create(ctx, spare); err != nil {
		return fmt.Errorf("create spare warehouse: %w", err)
	}
	log.Infow("warehouse created", "code", spare.Code, "name", spare.Name)

	demoItems := []struct {
		name, unit, cost string
	}{
		{"Copy paper A4", "pack", "4.20"},
		{"Toner cartridge", "pcs", "58.00"},
		{"Ethernet cable 3m", "pcs", "6.50"},
	}
	for _, d := range demoItems {
		it := item.NewItem("", d.name, d.unit, "USD")
		it.UnitCost = types.MustMoney(d.cost)
		if err := items.Create(ctx, it); err != nil {
			return fmt.Errorf("create item %q: %w", d.name, err)
		}
		log.Infow("item created", "code", it.Code, "name", it.Name)
	}

	laptop := product.NewProduct("LAPTOP", "Laptop 14\"", "it-equipment")
	if err := products.Create(ctx, laptop); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	log.Infow("product created", "code", laptop.Code, "name", laptop.Name)

	return nil
}

// seedHolders inserts demo employee and project rows so unit assignment
// can be exercised against a fresh database.
func seedHolders(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	employeeID := id.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO hr_employees (id, name, deletion_mark)
		VALUES ($1, 'Demo Employee', false)
	`, employeeID)
	if err != nil {
		return fmt.Errorf("insert demo employee: %w", err)
	}
	log.Infow("demo employee created", "id", employeeID)

	projectID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO prj_projects (id, name, deletion_mark)
		VALUES ($1, 'Demo Project', false)
	`, projectID)
	if err != nil {
		return fmt.Errorf("insert demo project: %w", err)
	}
	log.Infow("demo project created", "id", projectID)

	return nil
}
