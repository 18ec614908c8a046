package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransactionFilter filtros de listado de transacciones. Limit 0 = sin límite.
type TransactionFilter struct {
	Type      entity.TransactionType
	ProductID string
	Limit     int
	Offset    int
}

// TransactionRepository puerto de persistencia para transacciones (append-only para stock).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// UpdateMeta solo cambia estado y lote; nunca cantidades.
	UpdateMeta(ctx context.Context, id, status, batchNumber string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	ListRecent(ctx context.Context, n int) ([]*entity.Transaction, error)
	// ListIDsInRange ids de transacciones con created_at dentro del rango (extremos opcionales).
	ListIDsInRange(ctx context.Context, from, to *time.Time) ([]string, error)
}
