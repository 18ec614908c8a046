package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordTransactionRequest body para POST /api/transactions.
// Para Transfer: from_warehouse_id y to_warehouse_id; para el resto: warehouse_id
// (si se omite se usa la bodega por defecto configurada).
type RecordTransactionRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Type            string          `json:"transaction_type" validate:"required,oneof=Sale Purchase Return Transfer Damaged Expired"`
	Quantity        int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	WarehouseID     string          `json:"warehouse_id,omitempty"`
	FromWarehouseID string          `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string          `json:"to_warehouse_id,omitempty"`
	BatchNumber     string          `json:"batch_number" validate:"max=50"`
	TransactionBy   string          `json:"transaction_by" validate:"max=255"`
}

// UpdateTransactionRequest solo metadatos; las cantidades son inmutables.
type UpdateTransactionRequest struct {
	Status      *string `json:"status" validate:"omitempty,min=1,max=20"`
	BatchNumber *string `json:"batch_number" validate:"omitempty,max=50"`
}

// TransactionResponse salida de una transacción.
type TransactionResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Type            string          `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	Status          string          `json:"status"`
	WarehouseID     string          `json:"warehouse_id,omitempty"`
	FromWarehouseID string          `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string          `json:"to_warehouse_id,omitempty"`
	RecordedBy      string          `json:"user_id,omitempty"`
	TransactionBy   string          `json:"transaction_by,omitempty"`
	CreatedAt       time.Time       `json:"transaction_date"`
}

// TransactionListResponse lista paginada de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
