package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo de evento que afecta el stock.
type TransactionType string

// Tipos de transacción.
const (
	TransactionSale     TransactionType = "Sale"
	TransactionPurchase TransactionType = "Purchase"
	TransactionReturn   TransactionType = "Return"
	TransactionTransfer TransactionType = "Transfer"
	TransactionDamaged  TransactionType = "Damaged"
	TransactionExpired  TransactionType = "Expired"
)

// TransactionStatusCompleted estado por defecto de una transacción registrada.
const TransactionStatusCompleted = "Completed"

// Valid indica si el tipo es uno de los conocidos.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionReturn,
		TransactionTransfer, TransactionDamaged, TransactionExpired:
		return true
	}
	return false
}

// IsIncoming Purchase y Return suman stock en la bodega destino.
func (t TransactionType) IsIncoming() bool {
	return t == TransactionPurchase || t == TransactionReturn
}

// IsOutgoing Sale, Damaged y Expired restan stock de la bodega origen.
func (t TransactionType) IsOutgoing() bool {
	return t == TransactionSale || t == TransactionDamaged || t == TransactionExpired
}

// Transaction evento inmutable (append-only) que mueve stock.
// WarehouseID aplica a tipos distintos de Transfer; From/To solo a Transfer.
type Transaction struct {
	ID              string
	ProductID       string
	Type            TransactionType
	Quantity        int64
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal // UnitPrice * Quantity
	BatchNumber     string
	Status          string
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	RecordedBy      string // id opaco del actor autenticado
	TransactionBy   string
	CreatedAt       time.Time
}
