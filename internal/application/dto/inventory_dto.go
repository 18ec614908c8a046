package dto

import "time"

// CreateInventoryRequest body para POST /api/inventory: crea la fila (producto, bodega)
// y registra quantity como entrada inicial.
type CreateInventoryRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"min=0"`
	BatchNumber string `json:"batch_number" validate:"max=50"`
}

// AdjustInventoryRequest body para PUT /api/inventory/:id: deltas de entrada/salida y lote.
type AdjustInventoryRequest struct {
	IncomingStock int64   `json:"incoming_stock" validate:"min=0"`
	OutgoingStock int64   `json:"outgoing_stock" validate:"min=0"`
	BatchNumber   *string `json:"batch_number" validate:"omitempty,max=50"`
}

// InventoryResponse salida de una fila de inventario.
type InventoryResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	WarehouseID    string    `json:"warehouse_id"`
	Quantity       int64     `json:"quantity"`
	IncomingStock  int64     `json:"incoming_stock"`
	OutgoingStock  int64     `json:"outgoing_stock"`
	BatchNumber    string    `json:"batch_number,omitempty"`
	LastStockCheck time.Time `json:"last_stock_check"`
	LastUpdated    time.Time `json:"last_updated"`
}

// InventoryListResponse lista paginada de filas de inventario.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
