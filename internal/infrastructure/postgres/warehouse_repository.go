package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `id, name, location, created_at, updated_at`

// WarehouseRepo bodegas en PostgreSQL. El nombre es único sin distinguir mayúsculas.
type WarehouseRepo struct {
	q Querier
}

func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.Name, &w.Location, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `INSERT INTO warehouses (`+warehouseColumns+`) VALUES ($1, $2, $3, $4, $5)`, w.ID, w.Name, w.Location, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return mapWriteError("insert warehouse", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))
	if noMatch(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `UPDATE warehouses SET name = $2, location = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, w.ID, w.Name, w.Location, w.UpdatedAt)
	if err != nil {
		return mapWriteError("update warehouse", err)
	}
	return requireAffected(tag, "update warehouse")
}

// List ordena por nombre.
func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT `+warehouseColumns+`
		FROM warehouses ORDER BY name, id LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Delete borra la bodega (cascada a inventario) y recalcula products.stock de los
// productos afectados. Primero bloquea esos productos en orden de id, igual que el
// libro de inventario, para que la suma del CTE no quede vieja. Los CTE ven la misma
// foto, por eso la suma excluye la bodega explícitamente.
func (r *WarehouseRepo) Delete(ctx context.Context, id string) error {
	lock := `
		SELECT p.id FROM products p
		WHERE p.id IN (SELECT product_id FROM inventory WHERE warehouse_id = $1)
		ORDER BY p.id
		FOR UPDATE`
	query := `
		WITH affected AS (
		    SELECT DISTINCT product_id FROM inventory WHERE warehouse_id = $1
		), removed AS (
		    DELETE FROM warehouses WHERE id = $1 RETURNING id
		), restocked AS (
		    UPDATE products p
		    SET stock = COALESCE((
		        SELECT SUM(i.quantity) FROM inventory i
		        WHERE i.product_id = p.id AND i.warehouse_id <> $1
		    ), 0)
		    WHERE p.id IN (SELECT product_id FROM affected)
		      AND EXISTS (SELECT 1 FROM removed)
		    RETURNING p.id
		)
		SELECT (SELECT COUNT(*) FROM removed)`
	var removed int64
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lock, id); err != nil {
			return err
		}
		return tx.QueryRow(ctx, query, id).Scan(&removed)
	})
	if err != nil {
		if isInvalidText(err) {
			return fmt.Errorf("delete warehouse: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("delete warehouse: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("delete warehouse: %w", domain.ErrNotFound)
	}
	return nil
}
