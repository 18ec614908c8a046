package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ReportRepository puerto para reportes y sus tablas de enlace.
type ReportRepository interface {
	// Create inserta el reporte y sus enlaces (InventoryIDs, TransactionIDs).
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Report, error)
	ListRecent(ctx context.Context, n int) ([]*entity.Report, error)
}
