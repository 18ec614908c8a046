package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
// Los métodos ForUpdate solo tienen sentido dentro de una tx.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, product_id, warehouse_id, quantity, incoming_stock, outgoing_stock,
	batch_number, last_stock_check, last_updated`

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var i entity.Inventory
	err := row.Scan(&i.ID, &i.ProductID, &i.WarehouseID, &i.Quantity, &i.IncomingStock,
		&i.OutgoingStock, &i.BatchNumber, &i.LastStockCheck, &i.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). nil si no existe.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	row, err := scanInventory(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if noMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return row, nil
}

// GetOrCreateForUpdate inserta la fila con cantidad 0 si no existe (ON CONFLICT DO NOTHING)
// y luego la bloquea. Dos llamadas concurrentes sobre el mismo par ven una sola fila.
func (r *InventoryRepo) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string, now time.Time) (*entity.Inventory, bool, error) {
	insert := `
		INSERT INTO inventory (id, product_id, warehouse_id, quantity, incoming_stock, outgoing_stock,
			batch_number, last_stock_check, last_updated)
		VALUES ($1, $2, $3, 0, 0, 0, '', $4, $4)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, insert, uuid.New().String(), productID, warehouseID, now)
	if err != nil {
		return nil, false, mapWriteError("insert inventory", err)
	}
	row, err := r.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, false, err
	}
	if row == nil {
		return nil, false, fmt.Errorf("inventory (%s, %s) no visible tras insert", productID, warehouseID)
	}
	return row, tag.RowsAffected() == 1, nil
}

// GetByID obtiene una fila por ID (sin bloqueo).
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	row, err := scanInventory(r.q.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id))
	if err != nil {
		if noMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return row, nil
}

// Save persiste cantidad, contadores, lote y fechas de una fila existente.
func (r *InventoryRepo) Save(ctx context.Context, i *entity.Inventory) error {
	query := `
		UPDATE inventory SET quantity = $2, incoming_stock = $3, outgoing_stock = $4,
			batch_number = $5, last_stock_check = $6, last_updated = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, i.ID, i.Quantity, i.IncomingStock, i.OutgoingStock,
		i.BatchNumber, i.LastStockCheck, i.LastUpdated)
	if err != nil {
		return mapWriteError("save inventory", err)
	}
	return requireAffected(tag, "save inventory")
}

// List lista filas filtradas por producto y/o bodega.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE ($1 = '' OR product_id::text = $1) AND ($2 = '' OR warehouse_id::text = $2)
		ORDER BY last_updated DESC, id
		LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.ProductID, f.WarehouseID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		i, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// ListIDs ids de todas las filas (foto para reportes).
func (r *InventoryRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id::text FROM inventory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan inventory ids: %w", err)
	}
	return ids, nil
}

// Delete elimina una fila de inventario.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete inventory", err)
	}
	return requireAffected(tag, "delete inventory")
}
