package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProfitEntry una transacción con el precio de compra actual de su producto.
type ProfitEntry struct {
	Type        entity.TransactionType
	Quantity    int64
	UnitPrice   decimal.Decimal
	BuyingPrice decimal.Decimal
}

// ReplayProfit recalcula la utilidad desde el historial:
// Sale suma (precio - costo) * cantidad; Damaged/Expired restan costo * cantidad.
// Otros tipos se ignoran.
func ReplayProfit(entries []ProfitEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		qty := decimal.NewFromInt(e.Quantity)
		switch e.Type {
		case entity.TransactionSale:
			total = total.Add(e.UnitPrice.Sub(e.BuyingPrice).Mul(qty))
		case entity.TransactionDamaged, entity.TransactionExpired:
			total = total.Sub(e.BuyingPrice.Mul(qty))
		}
	}
	return total
}

// SplitProfitLoss separa el resultado en utilidad y pérdida (ambos >= 0, 2 decimales).
func SplitProfitLoss(total decimal.Decimal) (profit, loss decimal.Decimal) {
	if total.IsNegative() {
		return decimal.Zero, total.Neg().Round(2)
	}
	return total.Round(2), decimal.Zero
}
