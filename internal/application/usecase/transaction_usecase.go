package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TransactionUseCase consultas y mantenimiento de metadatos de transacciones.
// El registro con efecto en stock vive en application/inventory.
type TransactionUseCase struct {
	repo repository.TransactionRepository
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(repo repository.TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{repo: repo}
}

// GetByID obtiene una transacción por ID.
func (uc *TransactionUseCase) GetByID(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	tx, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	out := TransactionToResponse(tx)
	return &out, nil
}

// List lista transacciones filtradas por tipo y/o producto, más recientes primero.
func (uc *TransactionUseCase) List(ctx context.Context, txType, productID string, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	page.DefaultPage()
	t := entity.TransactionType(txType)
	if t != "" && !t.Valid() {
		return nil, domain.NewValidationError("transaction_type", "tipo desconocido")
	}
	list, err := uc.repo.List(ctx, repository.TransactionFilter{
		Type:      t,
		ProductID: productID,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		items = append(items, TransactionToResponse(tx))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  page.Response(),
	}, nil
}

// Update cambia solo estado y lote. Cantidades, precios y bodegas son inmutables.
func (uc *TransactionUseCase) Update(ctx context.Context, id string, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	tx, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if in.Status != nil {
		tx.Status = *in.Status
	}
	if in.BatchNumber != nil {
		tx.BatchNumber = *in.BatchNumber
	}
	if err := uc.repo.UpdateMeta(ctx, id, tx.Status, tx.BatchNumber); err != nil {
		return nil, fmt.Errorf("actualizar transacción: %w", err)
	}
	out := TransactionToResponse(tx)
	return &out, nil
}

// Delete elimina el registro del evento sin revertir su efecto en stock.
// Solo Admin o Manager (se valida en la capa HTTP).
func (uc *TransactionUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// TransactionToResponse mapea entidad a DTO.
func TransactionToResponse(tx *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              tx.ID,
		ProductID:       tx.ProductID,
		Type:            string(tx.Type),
		Quantity:        tx.Quantity,
		UnitPrice:       tx.UnitPrice,
		TotalPrice:      tx.TotalPrice,
		BatchNumber:     tx.BatchNumber,
		Status:          tx.Status,
		WarehouseID:     tx.WarehouseID,
		FromWarehouseID: tx.FromWarehouseID,
		ToWarehouseID:   tx.ToWarehouseID,
		RecordedBy:      tx.RecordedBy,
		TransactionBy:   tx.TransactionBy,
		CreatedAt:       tx.CreatedAt,
	}
}
