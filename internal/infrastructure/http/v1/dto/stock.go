package dto

import (
	"time"

	"stockcore/internal/core/types"
	"stockcore/internal/domain/ledger"
)

// StockRowResponse is the response body for one ledger row.
type StockRowResponse struct {
	WarehouseID       string         `json:"warehouseId"`
	ItemID            string         `json:"itemId"`
	Quantity          types.Quantity `json:"quantity"`
	ReservedQuantity  types.Quantity `json:"reservedQuantity"`
	AvailableQuantity types.Quantity `json:"availableQuantity"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// FromStockRow converts a ledger row to response DTO.
func FromStockRow(row ledger.StockRow) StockRowResponse {
	return StockRowResponse{
		WarehouseID:       row.WarehouseID.String(),
		ItemID:            row.ItemID.String(),
		Quantity:          row.Quantity,
		ReservedQuantity:  row.ReservedQuantity,
		AvailableQuantity: row.AvailableQuantity,
		UpdatedAt:         row.UpdatedAt,
	}
}

// FromStockRows converts a slice of ledger rows.
func FromStockRows(rows []ledger.StockRow) []StockRowResponse {
	out := make([]StockRowResponse, len(rows))
	for i, row := range rows {
		out[i] = FromStockRow(row)
	}
	return out
}
