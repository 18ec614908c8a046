package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnPolicy define si una devolución corrige los totales de venta.
type ReturnPolicy string

const (
	// ReturnPolicyExclude las devoluciones no afectan SalesRecord (comportamiento por defecto).
	ReturnPolicyExclude ReturnPolicy = "exclude"
	// ReturnPolicyReverseSale las devoluciones restan de los totales vendidos (con piso en 0).
	ReturnPolicyReverseSale ReturnPolicy = "reverse_sale"
)

// Valid indica si la política es conocida.
func (p ReturnPolicy) Valid() bool {
	return p == ReturnPolicyExclude || p == ReturnPolicyReverseSale
}

// SalesRecord totales acumulados por producto (uno por producto).
type SalesRecord struct {
	ProductID              string
	TotalQuantitySold      int64
	TotalSaleAmount        decimal.Decimal
	TotalQuantityPurchased int64
	TotalPurchaseAmount    decimal.Decimal
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SalesDelta variación a sumar sobre un SalesRecord. Puede ser cero.
type SalesDelta struct {
	QuantitySold      int64
	SaleAmount        decimal.Decimal
	QuantityPurchased int64
	PurchaseAmount    decimal.Decimal
}

// IsZero indica que la transacción no afecta los totales.
func (d SalesDelta) IsZero() bool {
	return d.QuantitySold == 0 && d.QuantityPurchased == 0 &&
		d.SaleAmount.IsZero() && d.PurchaseAmount.IsZero()
}

// SalesDeltaFor calcula el efecto de una transacción sobre los totales según la política.
func SalesDeltaFor(tx *Transaction, policy ReturnPolicy) SalesDelta {
	switch tx.Type {
	case TransactionSale:
		return SalesDelta{QuantitySold: tx.Quantity, SaleAmount: tx.TotalPrice}
	case TransactionPurchase:
		return SalesDelta{QuantityPurchased: tx.Quantity, PurchaseAmount: tx.TotalPrice}
	case TransactionReturn:
		if policy == ReturnPolicyReverseSale {
			return SalesDelta{QuantitySold: -tx.Quantity, SaleAmount: tx.TotalPrice.Neg()}
		}
	}
	return SalesDelta{}
}

// Apply suma el delta. Los totales nunca quedan negativos.
func (r *SalesRecord) Apply(d SalesDelta) {
	r.TotalQuantitySold += d.QuantitySold
	if r.TotalQuantitySold < 0 {
		r.TotalQuantitySold = 0
	}
	r.TotalSaleAmount = r.TotalSaleAmount.Add(d.SaleAmount)
	if r.TotalSaleAmount.IsNegative() {
		r.TotalSaleAmount = decimal.Zero
	}
	r.TotalQuantityPurchased += d.QuantityPurchased
	r.TotalPurchaseAmount = r.TotalPurchaseAmount.Add(d.PurchaseAmount)
}
