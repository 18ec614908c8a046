package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SalesRecordRepository = (*SalesRecordRepo)(nil)

// SalesRecordRepo implementación de SalesRecordRepository sobre PostgreSQL.
type SalesRecordRepo struct {
	q Querier
}

// NewSalesRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesRecordRepository(q Querier) *SalesRecordRepo {
	return &SalesRecordRepo{q: q}
}

const salesRecordColumns = `product_id, total_quantity_sold, total_sale_amount,
	total_quantity_purchased, total_purchase_amount, created_at, updated_at`

func scanSalesRecord(row pgx.Row) (*entity.SalesRecord, error) {
	var s entity.SalesRecord
	err := row.Scan(&s.ProductID, &s.TotalQuantitySold, &s.TotalSaleAmount,
		&s.TotalQuantityPurchased, &s.TotalPurchaseAmount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply suma el delta en una sola sentencia (INSERT … ON CONFLICT DO UPDATE).
// Los totales vendidos tienen piso en 0.
func (r *SalesRecordRepo) Apply(ctx context.Context, productID string, d entity.SalesDelta, now time.Time) (*entity.SalesRecord, error) {
	query := `
		INSERT INTO sales_records (product_id, total_quantity_sold, total_sale_amount,
			total_quantity_purchased, total_purchase_amount, created_at, updated_at)
		VALUES ($1, GREATEST($2::bigint, 0), GREATEST($3::numeric, 0), $4, $5, $6, $6)
		ON CONFLICT (product_id) DO UPDATE SET
			total_quantity_sold      = GREATEST(sales_records.total_quantity_sold + $2::bigint, 0),
			total_sale_amount        = GREATEST(sales_records.total_sale_amount + $3::numeric, 0),
			total_quantity_purchased = sales_records.total_quantity_purchased + $4,
			total_purchase_amount    = sales_records.total_purchase_amount + $5,
			updated_at               = $6
		RETURNING ` + salesRecordColumns
	rec, err := scanSalesRecord(r.q.QueryRow(ctx, query, productID, d.QuantitySold, d.SaleAmount,
		d.QuantityPurchased, d.PurchaseAmount, now))
	if err != nil {
		return nil, mapWriteError("apply sales record", err)
	}
	return rec, nil
}

// GetByProduct nil si el producto no tiene registro.
func (r *SalesRecordRepo) GetByProduct(ctx context.Context, productID string) (*entity.SalesRecord, error) {
	rec, err := scanSalesRecord(r.q.QueryRow(ctx, `SELECT `+salesRecordColumns+` FROM sales_records WHERE product_id = $1`, productID))
	if err != nil {
		if noMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales record: %w", err)
	}
	return rec, nil
}

// List lista registros, más recientes primero.
func (r *SalesRecordRepo) List(ctx context.Context, limit, offset int) ([]*entity.SalesRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+salesRecordColumns+`
		FROM sales_records ORDER BY updated_at DESC, product_id LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales records: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesRecord
	for rows.Next() {
		rec, err := scanSalesRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
