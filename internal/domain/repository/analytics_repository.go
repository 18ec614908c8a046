package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// SalesTotals suma de todos los SalesRecord.
type SalesTotals struct {
	TotalSaleAmount        decimal.Decimal
	TotalPurchaseAmount    decimal.Decimal
	TotalQuantitySold      int64
	TotalQuantityPurchased int64
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
// Nada aquí mantiene totales: todo se recalcula en cada llamada.
type AnalyticsRepository interface {
	// AvailableInventory suma Product.Stock de todos los productos.
	AvailableInventory(ctx context.Context) (int64, error)
	// SalesTotals agrega todos los SalesRecord.
	SalesTotals(ctx context.Context) (SalesTotals, error)
	// ProfitEntries transacciones Sale/Damaged/Expired con el precio de compra actual de su producto.
	ProfitEntries(ctx context.Context) ([]inventory.ProfitEntry, error)
}
