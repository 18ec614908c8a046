package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// AvailableInventory suma products.stock.
func (r *AnalyticsRepo) AvailableInventory(ctx context.Context) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(stock), 0)::bigint FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("available inventory: %w", err)
	}
	return total, nil
}

// SalesTotals agrega todos los sales_records.
func (r *AnalyticsRepo) SalesTotals(ctx context.Context) (repository.SalesTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(total_sale_amount), 0)                AS total_sale_amount,
	    COALESCE(SUM(total_purchase_amount), 0)            AS total_purchase_amount,
	    COALESCE(SUM(total_quantity_sold), 0)::bigint      AS total_quantity_sold,
	    COALESCE(SUM(total_quantity_purchased), 0)::bigint AS total_quantity_purchased
	FROM sales_records`
	var t repository.SalesTotals
	err := r.q.QueryRow(ctx, query).Scan(
		&t.TotalSaleAmount, &t.TotalPurchaseAmount, &t.TotalQuantitySold, &t.TotalQuantityPurchased,
	)
	if err != nil {
		return repository.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return t, nil
}

// ProfitEntries transacciones Sale/Damaged/Expired con el buying_price actual del producto.
func (r *AnalyticsRepo) ProfitEntries(ctx context.Context) ([]inventory.ProfitEntry, error) {
	const query = `
	SELECT t.transaction_type, t.quantity, t.unit_price, p.buying_price
	FROM transactions t
	JOIN products     p ON p.id = t.product_id
	WHERE t.transaction_type IN ('Sale', 'Damaged', 'Expired')
	ORDER BY t.created_at`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("profit entries: %w", err)
	}
	defer rows.Close()

	var out []inventory.ProfitEntry
	for rows.Next() {
		var e inventory.ProfitEntry
		var txType string
		if err := rows.Scan(&txType, &e.Quantity, &e.UnitPrice, &e.BuyingPrice); err != nil {
			return nil, fmt.Errorf("profit entries scan: %w", err)
		}
		e.Type = entity.TransactionType(txType)
		out = append(out, e)
	}
	return out, rows.Err()
}
