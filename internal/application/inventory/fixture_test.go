package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const (
	productID = "11111111-1111-1111-1111-111111111111"
	w1        = "aaaaaaaa-0000-0000-0000-000000000001"
	w2        = "aaaaaaaa-0000-0000-0000-000000000002"
	w3        = "aaaaaaaa-0000-0000-0000-000000000003"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// recordingNotifier guarda las señales y el stock visible en el store al recibirlas.
type recordingNotifier struct {
	mu      sync.Mutex
	store   *memory.Store
	alerts  []inventory.LowStockAlert
	events  []inventory.StockEvent
	visible []int64
}

func (n *recordingNotifier) LowStock(ctx context.Context, a inventory.LowStockAlert) error {
	// fuera de la unidad el mutex del store está libre; dentro bloquearía
	p, err := n.store.Repos().Products.GetByID(ctx, a.ProductID)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	n.visible = append(n.visible, p.Stock)
	return nil
}

func (n *recordingNotifier) StockChanged(_ context.Context, e inventory.StockEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

type fixture struct {
	store    *memory.Store
	repos    memory.Repos
	runner   *memory.TxRunner
	notifier *recordingNotifier
	record   *inventory.RecordTransactionUseCase
	inv      *inventory.InventoryUseCase
}

// newFixture catálogo con un producto (costo 5, venta 10, umbral 3) y tres bodegas.
func newFixture(t *testing.T, cfg inventory.Config) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: "cat-1", Name: "Bebidas", CreatedAt: fixedNow}))
	for i, id := range []string{w1, w2, w3} {
		require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{
			ID: id, Name: []string{"Central", "Norte", "Sur"}[i], Location: "Bogotá", CreatedAt: fixedNow,
		}))
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID:                productID,
		Name:              "Agua",
		CategoryID:        "cat-1",
		SKU:               "BEB-AGU-0001",
		Barcode:           "000000000001",
		BuyingPrice:       decimal.NewFromInt(5),
		SellingPrice:      decimal.NewFromInt(10),
		LowStockThreshold: 3,
		CreatedAt:         fixedNow,
		UpdatedAt:         fixedNow,
	}))

	runner := memory.NewTxRunner(store)
	notifier := &recordingNotifier{store: store}
	return &fixture{
		store:    store,
		repos:    repos,
		runner:   runner,
		notifier: notifier,
		record: inventory.NewRecordTransactionUseCase(runner, repos.Warehouses, notifier, cfg, logger.Nop()).
			WithClock(func() time.Time { return fixedNow }),
		inv: inventory.NewInventoryUseCase(runner, repos.Inventory, repos.Warehouses, notifier, logger.Nop()).
			WithClock(func() time.Time { return fixedNow }),
	}
}

func (f *fixture) do(t *testing.T, typ entity.TransactionType, qty int64, price int64, warehouse string) (*entity.Transaction, error) {
	t.Helper()
	return f.record.Record(context.Background(), inventory.RecordInput{
		UserID:      "user-1",
		ProductID:   productID,
		Type:        typ,
		Quantity:    qty,
		UnitPrice:   decimal.NewFromInt(price),
		WarehouseID: warehouse,
	})
}

func (f *fixture) mustDo(t *testing.T, typ entity.TransactionType, qty int64, price int64, warehouse string) *entity.Transaction {
	t.Helper()
	tx, err := f.do(t, typ, qty, price, warehouse)
	require.NoError(t, err)
	return tx
}

func (f *fixture) transfer(t *testing.T, qty int64, from, to string) (*entity.Transaction, error) {
	t.Helper()
	return f.record.Record(context.Background(), inventory.RecordInput{
		ProductID:       productID,
		Type:            entity.TransactionTransfer,
		Quantity:        qty,
		FromWarehouseID: from,
		ToWarehouseID:   to,
	})
}

func (f *fixture) stock(t *testing.T) int64 {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

// qty cantidad de la fila (producto, bodega); -1 si no existe.
func (f *fixture) qty(t *testing.T, warehouse string) int64 {
	t.Helper()
	var out int64 = -1
	require.NoError(t, f.runner.Run(context.Background(), func(r inventory.TxRepos) error {
		row, err := r.Inventory.GetForUpdate(context.Background(), productID, warehouse)
		if err != nil {
			return err
		}
		if row != nil {
			out = row.Quantity
		}
		return nil
	}))
	return out
}

// sumRows Σ cantidades de todas las filas del producto.
func (f *fixture) sumRows(t *testing.T) int64 {
	t.Helper()
	var total int64
	for _, w := range []string{w1, w2, w3} {
		if q := f.qty(t, w); q > 0 {
			total += q
		}
	}
	return total
}

func (f *fixture) txCount(t *testing.T) int {
	t.Helper()
	list, err := f.repos.Transactions.ListRecent(context.Background(), 1000)
	require.NoError(t, err)
	return len(list)
}
