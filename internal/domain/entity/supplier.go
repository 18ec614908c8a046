package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentTerms condiciones de pago por defecto de un proveedor.
const DefaultPaymentTerms = "Net 30"

// DefaultSupplierRating calificación inicial de un proveedor (escala 0 a 5).
var DefaultSupplierRating = decimal.NewFromFloat(3.0)

// Supplier representa un proveedor. Teléfono y email son únicos.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Website       string
	PaymentTerms  string
	Rating        decimal.Decimal
	CreatedAt     time.Time
}
