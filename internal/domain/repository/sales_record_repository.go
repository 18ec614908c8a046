package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SalesRecordRepository puerto para los totales acumulados por producto.
type SalesRecordRepository interface {
	// Apply crea el registro si no existe y suma el delta de forma atómica.
	Apply(ctx context.Context, productID string, delta entity.SalesDelta, now time.Time) (*entity.SalesRecord, error)
	GetByProduct(ctx context.Context, productID string) (*entity.SalesRecord, error)
	List(ctx context.Context, limit, offset int) ([]*entity.SalesRecord, error)
}
