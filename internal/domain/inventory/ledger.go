// Package inventory reglas puras del libro de inventario (servicio de dominio, sin IO).
package inventory

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ApplyDelta pliega incoming/outgoing sobre la fila:
// NuevaCantidad = Cantidad + Entrada - Salida, con Salida <= Cantidad.
// Si falla la fila queda intacta.
func ApplyDelta(row *entity.Inventory, incoming, outgoing int64, now time.Time) error {
	if incoming < 0 {
		return domain.NewValidationError("incoming_stock", "no puede ser negativo")
	}
	if outgoing < 0 {
		return domain.NewValidationError("outgoing_stock", "no puede ser negativo")
	}
	if row.Quantity < 0 {
		return domain.ErrNegativeStock
	}
	if outgoing > row.Quantity {
		return domain.ErrInsufficientStock
	}
	newQty := row.Quantity + incoming - outgoing
	if newQty < 0 {
		return domain.ErrNegativeStock
	}
	row.Quantity = newQty
	row.IncomingStock = 0
	row.OutgoingStock = 0
	row.LastUpdated = now
	return nil
}

// TotalStock suma las cantidades de las filas (proyección Product.Stock).
func TotalStock(rows []*entity.Inventory) int64 {
	var total int64
	for _, r := range rows {
		total += r.Quantity
	}
	return total
}

// ValidateTransaction precondiciones comunes y de traslado (antes de cualquier escritura).
func ValidateTransaction(tx *entity.Transaction) error {
	if !tx.Type.Valid() {
		return domain.NewValidationError("transaction_type", "tipo desconocido")
	}
	if tx.ProductID == "" {
		return domain.NewValidationError("product_id", "es requerido")
	}
	if tx.Quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if tx.UnitPrice.IsNegative() {
		return domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	if tx.Type == entity.TransactionTransfer {
		if tx.FromWarehouseID == "" || tx.ToWarehouseID == "" {
			return domain.ErrInvalidTransfer
		}
		if tx.FromWarehouseID == tx.ToWarehouseID {
			return domain.ErrInvalidTransfer
		}
	}
	return nil
}
