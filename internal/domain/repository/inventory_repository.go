package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InventoryFilter filtros de listado de filas de inventario. Limit 0 = sin límite.
type InventoryFilter struct {
	ProductID   string
	WarehouseID string
	Limit       int
	Offset      int
}

// InventoryRepository puerto para las filas de stock por producto+bodega.
// Los métodos ForUpdate bloquean la fila hasta el fin de la transacción (SELECT FOR UPDATE).
type InventoryRepository interface {
	// GetForUpdate devuelve nil si la fila no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Inventory, error)
	// GetOrCreateForUpdate crea la fila con cantidad 0 si no existe; created indica si se creó.
	GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string, now time.Time) (row *entity.Inventory, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	// Save persiste cantidad, contadores transitorios, lote y fechas.
	Save(ctx context.Context, row *entity.Inventory) error
	List(ctx context.Context, filter InventoryFilter) ([]*entity.Inventory, error)
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
