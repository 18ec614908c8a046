package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ledgerUnit aplica deltas dentro de una transacción y acumula las alertas
// de stock bajo para publicarlas tras el Commit.
type ledgerUnit struct {
	repos  TxRepos
	now    time.Time
	alerts []LowStockAlert
}

func newLedgerUnit(repos TxRepos, now time.Time) *ledgerUnit {
	return &ledgerUnit{repos: repos, now: now}
}

// lockRow bloquea la fila (producto, bodega). Con create=false una fila inexistente
// se trata como cantidad 0 y devuelve ErrInsufficientStock.
func (u *ledgerUnit) lockRow(ctx context.Context, productID, warehouseID string, create bool) (*entity.Inventory, error) {
	if create {
		row, _, err := u.repos.Inventory.GetOrCreateForUpdate(ctx, productID, warehouseID, u.now)
		if err != nil {
			return nil, fmt.Errorf("bloquear inventario: %w", err)
		}
		return row, nil
	}
	row, err := u.repos.Inventory.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("bloquear inventario: %w", err)
	}
	if row == nil {
		return nil, domain.ErrInsufficientStock
	}
	return row, nil
}

// applyDelta pliega el delta sobre una fila ya bloqueada y la persiste.
func (u *ledgerUnit) applyDelta(ctx context.Context, product *entity.Product, row *entity.Inventory, incoming, outgoing int64) error {
	row.IncomingStock = incoming
	row.OutgoingStock = outgoing
	if err := domaininv.ApplyDelta(row, incoming, outgoing, u.now); err != nil {
		row.IncomingStock = 0
		row.OutgoingStock = 0
		return err
	}
	if err := u.repos.Inventory.Save(ctx, row); err != nil {
		return fmt.Errorf("guardar inventario: %w", err)
	}
	if row.Quantity < product.LowStockThreshold {
		u.alerts = append(u.alerts, LowStockAlert{
			ProductID:   product.ID,
			ProductName: product.Name,
			WarehouseID: row.WarehouseID,
			Quantity:    row.Quantity,
			Threshold:   product.LowStockThreshold,
			At:          u.now,
		})
	}
	return nil
}

// recomputeStock reescribe Product.Stock y completa las alertas con el stock agregado.
func (u *ledgerUnit) recomputeStock(ctx context.Context, product *entity.Product) error {
	stock, err := u.repos.Products.RecomputeStock(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("recalcular stock: %w", err)
	}
	product.Stock = stock
	for i := range u.alerts {
		if u.alerts[i].ProductID != product.ID {
			continue
		}
		u.alerts[i].Stock = stock
		u.alerts[i].Message = fmt.Sprintf("Warning: %s stock is low (%d items remaining in warehouse %s). Please restock!",
			product.Name, u.alerts[i].Quantity, u.alerts[i].WarehouseID)
	}
	return nil
}

// loadProduct bloquea la fila del producto antes que cualquier fila de inventario,
// así dos unidades sobre el mismo producto no intercalan RecomputeStock.
// Devuelve ErrNotFound si el producto no existe.
func (u *ledgerUnit) loadProduct(ctx context.Context, productID string) (*entity.Product, error) {
	p, err := u.repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cargar producto: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return p, nil
}

// publishAlerts entrega las alertas acumuladas. Llamar solo tras el Commit.
func publishAlerts(ctx context.Context, n Notifier, alerts []LowStockAlert, log *logger.Logger) {
	for _, a := range alerts {
		log.Warn().Str("product_id", a.ProductID).Str("warehouse_id", a.WarehouseID).
			Int64("quantity", a.Quantity).Int64("threshold", a.Threshold).Msg("stock bajo")
		if err := n.LowStock(ctx, a); err != nil {
			log.Error().Err(err).Str("product_id", a.ProductID).Msg("no se pudo notificar stock bajo")
		}
	}
}
