package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// InventoryUseCase CRUD de filas de inventario. Toda escritura pasa por el libro
// (ApplyDelta + RecomputeStock) dentro del TxRunner.
type InventoryUseCase struct {
	txRunner      TxRunner
	inventoryRepo repository.InventoryRepository
	warehouseRepo repository.WarehouseRepository
	notifier      Notifier
	log           *logger.Logger
	now           func() time.Time
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	txRunner TxRunner,
	inventoryRepo repository.InventoryRepository,
	warehouseRepo repository.WarehouseRepository,
	notifier Notifier,
	log *logger.Logger,
) *InventoryUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &InventoryUseCase{
		txRunner:      txRunner,
		inventoryRepo: inventoryRepo,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		log:           log,
		now:           time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InventoryUseCase) WithClock(now func() time.Time) *InventoryUseCase {
	uc.now = now
	return uc
}

// Create crea la fila (producto, bodega) y registra quantity como entrada inicial.
// Si el par ya existe devuelve ErrDuplicate.
func (uc *InventoryUseCase) Create(ctx context.Context, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	if in.Quantity < 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("cargar bodega: %w", err)
	}
	if wh == nil {
		return nil, fmt.Errorf("bodega %s: %w", in.WarehouseID, domain.ErrNotFound)
	}

	now := uc.now().UTC()
	var row *entity.Inventory
	var alerts []LowStockAlert
	err = uc.txRunner.Run(ctx, func(repos TxRepos) error {
		unit := newLedgerUnit(repos, now)
		product, err := unit.loadProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		r, created, err := repos.Inventory.GetOrCreateForUpdate(ctx, product.ID, in.WarehouseID, now)
		if err != nil {
			return fmt.Errorf("bloquear inventario: %w", err)
		}
		if !created {
			return fmt.Errorf("inventario (%s, %s): %w", product.ID, in.WarehouseID, domain.ErrDuplicate)
		}
		r.BatchNumber = in.BatchNumber
		if err := unit.applyDelta(ctx, product, r, in.Quantity, 0); err != nil {
			return err
		}
		if err := unit.recomputeStock(ctx, product); err != nil {
			return err
		}
		row = r
		alerts = unit.alerts
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishAlerts(ctx, uc.notifier, alerts, uc.log)
	out := InventoryToResponse(row)
	return &out, nil
}

// Adjust aplica entradas/salidas sobre una fila existente y actualiza el lote.
func (uc *InventoryUseCase) Adjust(ctx context.Context, id string, in dto.AdjustInventoryRequest) (*dto.InventoryResponse, error) {
	now := uc.now().UTC()
	var row *entity.Inventory
	var alerts []LowStockAlert
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		current, err := repos.Inventory.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("cargar inventario: %w", err)
		}
		if current == nil {
			return fmt.Errorf("inventario %s: %w", id, domain.ErrNotFound)
		}
		unit := newLedgerUnit(repos, now)
		product, err := unit.loadProduct(ctx, current.ProductID)
		if err != nil {
			return err
		}
		r, err := unit.lockRow(ctx, current.ProductID, current.WarehouseID, false)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("inventario %s: %w", id, domain.ErrNotFound)
			}
			return err
		}
		if in.BatchNumber != nil {
			r.BatchNumber = *in.BatchNumber
		}
		if err := unit.applyDelta(ctx, product, r, in.IncomingStock, in.OutgoingStock); err != nil {
			return err
		}
		if err := unit.recomputeStock(ctx, product); err != nil {
			return err
		}
		row = r
		alerts = unit.alerts
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishAlerts(ctx, uc.notifier, alerts, uc.log)
	out := InventoryToResponse(row)
	return &out, nil
}

// Delete elimina la fila y recalcula Product.Stock en la misma transacción.
func (uc *InventoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos TxRepos) error {
		current, err := repos.Inventory.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("cargar inventario: %w", err)
		}
		if current == nil {
			return fmt.Errorf("inventario %s: %w", id, domain.ErrNotFound)
		}
		unit := newLedgerUnit(repos, uc.now().UTC())
		product, err := unit.loadProduct(ctx, current.ProductID)
		if err != nil {
			return err
		}
		if err := repos.Inventory.Delete(ctx, id); err != nil {
			return fmt.Errorf("eliminar inventario: %w", err)
		}
		return unit.recomputeStock(ctx, product)
	})
}

// RecomputeStock recalcula Product.Stock desde las filas. Idempotente; no crea transacciones.
func (uc *InventoryUseCase) RecomputeStock(ctx context.Context, productID string) (int64, error) {
	var stock int64
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		unit := newLedgerUnit(repos, uc.now().UTC())
		product, err := unit.loadProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := unit.recomputeStock(ctx, product); err != nil {
			return err
		}
		stock = product.Stock
		return nil
	})
	return stock, err
}

// GetByID devuelve la fila o ErrNotFound.
func (uc *InventoryUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryResponse, error) {
	row, err := uc.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	out := InventoryToResponse(row)
	return &out, nil
}

// List lista filas filtradas por producto y/o bodega.
func (uc *InventoryUseCase) List(ctx context.Context, productID, warehouseID string, page dto.PageRequest) (*dto.InventoryListResponse, error) {
	page.DefaultPage()
	rows, err := uc.inventoryRepo.List(ctx, repository.InventoryFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, InventoryToResponse(r))
	}
	return &dto.InventoryListResponse{
		Items: items,
		Page:  page.Response(),
	}, nil
}

// InventoryToResponse mapea entidad a DTO.
func InventoryToResponse(r *entity.Inventory) dto.InventoryResponse {
	return dto.InventoryResponse{
		ID:             r.ID,
		ProductID:      r.ProductID,
		WarehouseID:    r.WarehouseID,
		Quantity:       r.Quantity,
		IncomingStock:  r.IncomingStock,
		OutgoingStock:  r.OutgoingStock,
		BatchNumber:    r.BatchNumber,
		LastStockCheck: r.LastStockCheck,
		LastUpdated:    r.LastUpdated,
	}
}
