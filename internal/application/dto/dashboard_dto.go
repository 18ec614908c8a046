package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// Se recalcula en cada llamada desde el historial; no hay totales mantenidos.
type DashboardStatsDTO struct {
	AvailableInventory      int64           `json:"available_inventory"` // suma de Product.Stock
	TotalSaleAmount         decimal.Decimal `json:"total_sale_amount"`
	TotalPurchaseAmount     decimal.Decimal `json:"total_purchase_amount"`
	TotalInventoryPurchased int64           `json:"total_inventory_purchased"`
	TotalInventorySold      int64           `json:"total_inventory_sold"`

	// Resultado del replay de Sale/Damaged/Expired; uno de los dos es 0.
	Profit decimal.Decimal `json:"profit"`
	Loss   decimal.Decimal `json:"loss"`

	RecentTransactions []TransactionResponse `json:"recent_transactions"` // últimas 10
	RecentReports      []RecentReportDTO     `json:"recent_reports"`      // últimos 6
}
