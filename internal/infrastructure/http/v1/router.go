// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockcore/internal/domain/catalogs/item"
	"stockcore/internal/domain/catalogs/product"
	"stockcore/internal/domain/catalogs/warehouse"
	"stockcore/internal/domain/ledger"
	"stockcore/internal/domain/movement"
	"stockcore/internal/domain/units"
	"stockcore/internal/infrastructure/http/v1/handlers"
	"stockcore/internal/infrastructure/http/v1/middleware"
	"stockcore/internal/infrastructure/storage/postgres"
	"stockcore/pkg/logger"
)

// RouterConfig holds everything the router needs. Services are constructed
// once at startup and shared across requests.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Warehouses *warehouse.Service
	Items      *item.Service
	Products   *product.Service
	Ledger     *ledger.Service
	Movements  *movement.Service
	Units      *units.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Actor())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerCatalogRoutes(v1, base, cfg)
		registerStockRoutes(v1, base, cfg)
		registerMovementRoutes(v1, base, cfg)
		registerUnitRoutes(v1, base, cfg)
	}

	return router
}

// registerCatalogRoutes registers warehouse/item/product catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")

	// --- WAREHOUSES ---
	{
		handler := handlers.NewWarehouseHandler(base, cfg.Warehouses)
		g := catalogs.Group("/warehouses")
		g.POST("", handler.Create)
		g.GET("", handler.List)
		g.GET("/:id", handler.Get)
		g.PUT("/:id", handler.Update)
		g.DELETE("/:id", handler.Delete)
	}

	// --- ITEMS ---
	{
		handler := handlers.NewItemHandler(base, cfg.Items)
		g := catalogs.Group("/items")
		g.POST("", handler.Create)
		g.GET("", handler.List)
		g.GET("/:id", handler.Get)
		g.PUT("/:id", handler.Update)
		g.DELETE("/:id", handler.Delete)
	}

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(base, cfg.Products)
		g := catalogs.Group("/products")
		g.POST("", handler.Create)
		g.GET("", handler.List)
		g.GET("/:id", handler.Get)
		g.PUT("/:id", handler.Update)
		g.DELETE("/:id", handler.Delete)
	}
}

// registerStockRoutes registers stock ledger read endpoints.
func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewStockHandler(base, cfg.Ledger)

	stock := rg.Group("/stock")
	stock.GET("/row", handler.GetRow)
	stock.GET("/warehouses/:id", handler.ByWarehouse)
	stock.GET("/items/:id", handler.ByItem)
}

// registerMovementRoutes registers movement processing endpoints.
func registerMovementRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewMovementHandler(base, cfg.Movements)

	movements := rg.Group("/movements")
	movements.POST("", handler.Process)
	movements.GET("", handler.List)
	movements.GET("/:id", handler.Get)
	movements.GET("/by-code/:code", handler.GetByCode)
}

// registerUnitRoutes registers unit lifecycle endpoints.
func registerUnitRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewUnitHandler(base, cfg.Units)

	unitsGroup := rg.Group("/units")
	unitsGroup.POST("", handler.Create)
	unitsGroup.GET("/:id", handler.Get)
	unitsGroup.GET("/by-code/:code", handler.GetByCode)
	unitsGroup.GET("/:id/history", handler.History)
	unitsGroup.POST("/:id/transfer", handler.Transfer)
	unitsGroup.POST("/:id/assign", handler.Assign)
	unitsGroup.POST("/:id/return", handler.Return)
	unitsGroup.POST("/:id/status", handler.ChangeStatus)

	rg.GET("/products/:id/units", handler.ByProduct)
	rg.GET("/warehouses/:id/units", handler.ByWarehouse)
}
