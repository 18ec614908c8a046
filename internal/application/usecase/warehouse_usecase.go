package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// WarehouseUseCase CRUD de bodegas. Borrar una bodega arrastra sus filas de inventario
// y el repositorio recalcula Product.Stock de los productos afectados.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
	now  func() time.Time
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, now: time.Now}
}

func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := uc.now().UTC()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("crear bodega: %w", err)
	}
	return toWarehouseResponse(w), nil
}

func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// Update cambia nombre y/o ubicación; los campos nil se conservan.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		w.Name = *in.Name
	}
	if in.Location != nil {
		w.Location = *in.Location
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	w.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("actualizar bodega: %w", err)
	}
	return toWarehouseResponse(w), nil
}

func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	out := &dto.WarehouseListResponse{Items: make([]dto.WarehouseResponse, 0, len(list)), Page: page.Response()}
	for _, w := range list {
		out.Items = append(out.Items, *toWarehouseResponse(w))
	}
	return out, nil
}

func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *WarehouseUseCase) load(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar bodega: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return w, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
