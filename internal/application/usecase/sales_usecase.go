package usecase

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// SalesRecordUseCase lectura de los totales por producto.
type SalesRecordUseCase struct {
	repo repository.SalesRecordRepository
}

// NewSalesRecordUseCase construye el caso de uso.
func NewSalesRecordUseCase(repo repository.SalesRecordRepository) *SalesRecordUseCase {
	return &SalesRecordUseCase{repo: repo}
}

// GetByProduct devuelve ErrNotFound si el producto aún no tiene ventas ni compras.
func (uc *SalesRecordUseCase) GetByProduct(ctx context.Context, productID string) (*dto.SalesRecordResponse, error) {
	r, err := uc.repo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := toSalesRecordResponse(r)
	return &out, nil
}

// List lista los SalesRecord con paginación.
func (uc *SalesRecordUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SalesRecordListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesRecordResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toSalesRecordResponse(r))
	}
	return &dto.SalesRecordListResponse{
		Items: items,
		Page:  page.Response(),
	}, nil
}

func toSalesRecordResponse(r *entity.SalesRecord) dto.SalesRecordResponse {
	return dto.SalesRecordResponse{
		ProductID:              r.ProductID,
		TotalQuantitySold:      r.TotalQuantitySold,
		TotalSaleAmount:        r.TotalSaleAmount,
		TotalQuantityPurchased: r.TotalQuantityPurchased,
		TotalPurchaseAmount:    r.TotalPurchaseAmount,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}
