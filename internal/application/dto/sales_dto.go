package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecordResponse totales acumulados de un producto.
type SalesRecordResponse struct {
	ProductID              string          `json:"product_id"`
	TotalQuantitySold      int64           `json:"total_quantity_sold"`
	TotalSaleAmount        decimal.Decimal `json:"total_sale_amount"`
	TotalQuantityPurchased int64           `json:"total_quantity_purchased"`
	TotalPurchaseAmount    decimal.Decimal `json:"total_purchase_amount"`
	CreatedAt              time.Time       `json:"date"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// SalesRecordListResponse lista paginada de SalesRecord.
type SalesRecordListResponse struct {
	Items []SalesRecordResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
