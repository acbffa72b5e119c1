package handlers

import (
	"github.com/gin-gonic/gin"

	"stockcore/internal/domain/ledger"
	"stockcore/internal/infrastructure/http/v1/dto"
)

// StockHandler exposes read access to the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// GetRow handles GET /stock/row?warehouseId=...&itemId=...
func (h *StockHandler) GetRow(c *gin.Context) {
	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}
	itemID, ok := h.ParseIDQuery(c, "itemId")
	if !ok {
		return
	}

	row, err := h.service.GetRow(c.Request.Context(), warehouseID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockRow(row))
}

// ByWarehouse handles GET /stock/warehouses/:id
func (h *StockHandler) ByWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.GetWarehouseStock(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromStockRows(rows)))
}

// ByItem handles GET /stock/items/:id
func (h *StockHandler) ByItem(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.GetItemStock(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromStockRows(rows)))
}
