package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Inventory    repository.InventoryRepository
	Products     repository.ProductRepository
	Transactions repository.TransactionRepository
	Sales        repository.SalesRecordRepository
	Reports      repository.ReportRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// LowStockAlert señal emitida cuando una fila queda por debajo del umbral del producto.
type LowStockAlert struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	Threshold   int64     `json:"threshold"`
	Stock       int64     `json:"stock"`
	Message     string    `json:"message"`
	At          time.Time `json:"at"`
}

// StockEvent resumen de una transacción confirmada, para el feed en vivo.
type StockEvent struct {
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"transaction_type"`
	Quantity      int64     `json:"quantity"`
	Stock         int64     `json:"stock"`
	At            time.Time `json:"at"`
}

// Notifier recibe señales solo después del Commit. Los errores se registran, nunca se propagan.
type Notifier interface {
	LowStock(ctx context.Context, alert LowStockAlert) error
	StockChanged(ctx context.Context, event StockEvent) error
}

// NopNotifier descarta todas las señales.
type NopNotifier struct{}

func (NopNotifier) LowStock(context.Context, LowStockAlert) error  { return nil }
func (NopNotifier) StockChanged(context.Context, StockEvent) error { return nil }
