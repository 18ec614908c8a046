package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Config parámetros del motor de inventario.
type Config struct {
	// DefaultWarehouseID bodega usada cuando un movimiento no-traslado no indica una. Vacío = obligatorio.
	DefaultWarehouseID string
	ReturnPolicy       entity.ReturnPolicy
}

// RecordTransactionUseCase registra transacciones de stock de forma transaccional
// (Sale, Purchase, Return, Transfer, Damaged, Expired) con bloqueo de fila y Commit/Rollback.
type RecordTransactionUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	notifier      Notifier
	cfg           Config
	log           *logger.Logger
	now           func() time.Time
}

// NewRecordTransactionUseCase construye el caso de uso.
func NewRecordTransactionUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	notifier Notifier,
	cfg Config,
	log *logger.Logger,
) *RecordTransactionUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if cfg.ReturnPolicy == "" {
		cfg.ReturnPolicy = entity.ReturnPolicyExclude
	}
	return &RecordTransactionUseCase{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		cfg:           cfg,
		log:           log,
		now:           time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RecordTransactionUseCase) WithClock(now func() time.Time) *RecordTransactionUseCase {
	uc.now = now
	return uc
}

// RecordInput entrada para registrar una transacción.
// Para Transfer: FromWarehouseID y ToWarehouseID; para el resto: WarehouseID (o la bodega por defecto).
type RecordInput struct {
	UserID          string
	ProductID       string
	Type            entity.TransactionType
	Quantity        int64
	UnitPrice       decimal.Decimal
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	BatchNumber     string
	TransactionBy   string
}

// Record valida, abre una transacción, aplica el efecto en inventario según el tipo,
// recalcula Product.Stock, actualiza SalesRecord e inserta la Transaction. Cualquier
// fallo revierte todo. Las alertas de stock bajo se publican solo tras el Commit.
func (uc *RecordTransactionUseCase) Record(ctx context.Context, in RecordInput) (*entity.Transaction, error) {
	now := uc.now().UTC()
	tx := &entity.Transaction{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		BatchNumber:     in.BatchNumber,
		Status:          entity.TransactionStatusCompleted,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		RecordedBy:      in.UserID,
		TransactionBy:   in.TransactionBy,
		CreatedAt:       now,
	}
	if err := domaininv.ValidateTransaction(tx); err != nil {
		return nil, err
	}
	tx.TotalPrice = tx.UnitPrice.Mul(decimal.NewFromInt(tx.Quantity))

	if tx.Type == entity.TransactionTransfer {
		tx.WarehouseID = ""
		if err := uc.ensureWarehouses(ctx, tx.FromWarehouseID, tx.ToWarehouseID); err != nil {
			return nil, err
		}
	} else {
		tx.FromWarehouseID, tx.ToWarehouseID = "", ""
		wh, err := uc.resolveWarehouse(ctx, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		tx.WarehouseID = wh
	}

	var alerts []LowStockAlert
	var stock int64
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		unit := newLedgerUnit(repos, now)
		product, err := unit.loadProduct(ctx, tx.ProductID)
		if err != nil {
			return err
		}

		switch {
		case tx.Type == entity.TransactionTransfer:
			if err := uc.transfer(ctx, unit, product, tx); err != nil {
				return err
			}
		case tx.Type.IsIncoming():
			row, err := unit.lockRow(ctx, product.ID, tx.WarehouseID, true)
			if err != nil {
				return err
			}
			if err := unit.applyDelta(ctx, product, row, tx.Quantity, 0); err != nil {
				return err
			}
		case tx.Type.IsOutgoing():
			row, err := unit.lockRow(ctx, product.ID, tx.WarehouseID, false)
			if err != nil {
				return err
			}
			if err := unit.applyDelta(ctx, product, row, 0, tx.Quantity); err != nil {
				return err
			}
		}

		if err := unit.recomputeStock(ctx, product); err != nil {
			return err
		}
		if delta := entity.SalesDeltaFor(tx, uc.cfg.ReturnPolicy); !delta.IsZero() {
			if _, err := repos.Sales.Apply(ctx, product.ID, delta, now); err != nil {
				return fmt.Errorf("actualizar sales record: %w", err)
			}
		}
		if err := repos.Transactions.Create(ctx, tx); err != nil {
			return fmt.Errorf("guardar transacción: %w", err)
		}
		alerts = unit.alerts
		stock = product.Stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("transaction_id", tx.ID).Str("type", string(tx.Type)).
		Str("product_id", tx.ProductID).Int64("quantity", tx.Quantity).Int64("stock", stock).
		Msg("transacción registrada")
	publishAlerts(ctx, uc.notifier, alerts, uc.log)
	if err := uc.notifier.StockChanged(ctx, StockEvent{
		TransactionID: tx.ID,
		ProductID:     tx.ProductID,
		Type:          string(tx.Type),
		Quantity:      tx.Quantity,
		Stock:         stock,
		At:            now,
	}); err != nil {
		uc.log.Error().Err(err).Str("transaction_id", tx.ID).Msg("no se pudo notificar cambio de stock")
	}
	return tx, nil
}

// transfer bloquea origen y destino en orden ascendente de bodega y mueve la cantidad.
func (uc *RecordTransactionUseCase) transfer(ctx context.Context, unit *ledgerUnit, product *entity.Product, tx *entity.Transaction) error {
	var src, dst *entity.Inventory
	lockSource := func() error {
		row, err := unit.lockRow(ctx, product.ID, tx.FromWarehouseID, false)
		if err != nil {
			return fmt.Errorf("bodega origen %s: %w", tx.FromWarehouseID, err)
		}
		src = row
		return nil
	}
	lockDest := func() error {
		row, err := unit.lockRow(ctx, product.ID, tx.ToWarehouseID, true)
		if err != nil {
			return err
		}
		dst = row
		return nil
	}
	first, second := lockSource, lockDest
	if tx.ToWarehouseID < tx.FromWarehouseID {
		first, second = lockDest, lockSource
	}
	if err := first(); err != nil {
		return err
	}
	if err := second(); err != nil {
		return err
	}

	if err := unit.applyDelta(ctx, product, src, 0, tx.Quantity); err != nil {
		return fmt.Errorf("bodega origen %s: %w", tx.FromWarehouseID, err)
	}
	return unit.applyDelta(ctx, product, dst, tx.Quantity, 0)
}

// resolveWarehouse usa la bodega explícita o la configurada por defecto.
func (uc *RecordTransactionUseCase) resolveWarehouse(ctx context.Context, explicit string) (string, error) {
	id := explicit
	if id == "" {
		id = uc.cfg.DefaultWarehouseID
	}
	if id == "" {
		return "", domain.ErrNoWarehouseAvailable
	}
	if err := uc.ensureWarehouses(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func (uc *RecordTransactionUseCase) ensureWarehouses(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		wh, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("cargar bodega: %w", err)
		}
		if wh == nil {
			return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}
