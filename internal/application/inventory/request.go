package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RecordFromRequest adapta el request HTTP al caso de uso Record(ctx, RecordInput).
func (uc *RecordTransactionUseCase) RecordFromRequest(ctx context.Context, userID string, in dto.RecordTransactionRequest) (*entity.Transaction, error) {
	return uc.Record(ctx, RecordInput{
		UserID:          userID,
		ProductID:       in.ProductID,
		Type:            entity.TransactionType(in.Type),
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		BatchNumber:     in.BatchNumber,
		TransactionBy:   in.TransactionBy,
	})
}
