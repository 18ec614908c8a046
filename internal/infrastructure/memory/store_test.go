package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) (*memory.Store, memory.Repos) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()
	require.NoError(t, r.Categories.Create(ctx, &entity.Category{ID: "c1", Name: "Bebidas", CreatedAt: now}))
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central", CreatedAt: now}))
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w2", Name: "Norte", CreatedAt: now}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{
		ID: "p1", Name: "Agua", CategoryID: "c1", SKU: "BEB-AGU-0001", Barcode: "000000000001",
		BuyingPrice: decimal.NewFromInt(5), SellingPrice: decimal.NewFromInt(10), LowStockThreshold: 3,
	}))
	return store, r
}

func putRow(t *testing.T, store *memory.Store, productID, warehouseID string, qty int64) *entity.Inventory {
	t.Helper()
	var out *entity.Inventory
	err := memory.NewTxRunner(store).Run(context.Background(), func(repos inventory.TxRepos) error {
		row, _, err := repos.Inventory.GetOrCreateForUpdate(context.Background(), productID, warehouseID, now)
		if err != nil {
			return err
		}
		row.Quantity = qty
		if err := repos.Inventory.Save(context.Background(), row); err != nil {
			return err
		}
		if _, err := repos.Products.RecomputeStock(context.Background(), productID); err != nil {
			return err
		}
		out = row
		return nil
	})
	require.NoError(t, err)
	return out
}

func stockOf(t *testing.T, r memory.Repos, productID string) int64 {
	t.Helper()
	p, err := r.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func TestTxRunner_RevierteSiFalla(t *testing.T) {
	store, r := seed(t)
	putRow(t, store, "p1", "w1", 4)

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(context.Background(), func(repos inventory.TxRepos) error {
		row, err := repos.Inventory.GetForUpdate(context.Background(), "p1", "w1")
		require.NoError(t, err)
		row.Quantity = 100
		require.NoError(t, repos.Inventory.Save(context.Background(), row))
		_, err = repos.Products.RecomputeStock(context.Background(), "p1")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(4), stockOf(t, r, "p1"))
}

func TestTxRunner_RevierteSiHacePanic(t *testing.T) {
	store, r := seed(t)
	putRow(t, store, "p1", "w1", 4)

	assert.Panics(t, func() {
		_ = memory.NewTxRunner(store).Run(context.Background(), func(repos inventory.TxRepos) error {
			_, err := repos.Products.RecomputeStock(context.Background(), "p1")
			require.NoError(t, err)
			row, _ := repos.Inventory.GetForUpdate(context.Background(), "p1", "w1")
			row.Quantity = 0
			_ = repos.Inventory.Save(context.Background(), row)
			panic("fallo inesperado")
		})
	})
	// el mutex quedó libre y el estado intacto
	row, err := r.Inventory.List(context.Background(), repository.InventoryFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, row, 1)
	assert.Equal(t, int64(4), row[0].Quantity)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	store, _ := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(store).Run(ctx, func(inventory.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestInventoryRepo_GetOrCreateValidaReferencias(t *testing.T) {
	store, _ := seed(t)
	err := memory.NewTxRunner(store).Run(context.Background(), func(repos inventory.TxRepos) error {
		_, _, err := repos.Inventory.GetOrCreateForUpdate(context.Background(), "p1", "no-existe", now)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first := putRow(t, store, "p1", "w1", 1)
	second := putRow(t, store, "p1", "w1", 2)
	assert.Equal(t, first.ID, second.ID, "una fila por (producto, bodega)")
}

func TestWarehouseDelete_CascadaYRecalculo(t *testing.T) {
	store, r := seed(t)
	ctx := context.Background()
	putRow(t, store, "p1", "w1", 4)
	putRow(t, store, "p1", "w2", 6)
	require.NoError(t, r.Transactions.Create(ctx, &entity.Transaction{
		ID: "t1", ProductID: "p1", Type: entity.TransactionTransfer, Quantity: 1,
		FromWarehouseID: "w1", ToWarehouseID: "w2", CreatedAt: now,
	}))
	require.Equal(t, int64(10), stockOf(t, r, "p1"))

	require.NoError(t, r.Warehouses.Delete(ctx, "w2"))
	assert.Equal(t, int64(4), stockOf(t, r, "p1"))

	tx, err := r.Transactions.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, "w1", tx.FromWarehouseID)
	assert.Empty(t, tx.ToWarehouseID)
}

func TestProductDelete_CascadaYEnlacesDeReporte(t *testing.T) {
	store, r := seed(t)
	ctx := context.Background()
	row := putRow(t, store, "p1", "w1", 4)
	require.NoError(t, r.Transactions.Create(ctx, &entity.Transaction{
		ID: "t1", ProductID: "p1", Type: entity.TransactionPurchase, Quantity: 4, WarehouseID: "w1", CreatedAt: now,
	}))
	require.NoError(t, r.Reports.Create(ctx, &entity.Report{
		ID: "r1", Type: entity.ReportStock, Format: entity.ReportFormatCSV, GeneratedAt: now,
		InventoryIDs: []string{row.ID}, TransactionIDs: []string{"t1"},
	}))

	require.NoError(t, r.Products.Delete(ctx, "p1"))

	rep, err := r.Reports.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Empty(t, rep.InventoryIDs)
	assert.Empty(t, rep.TransactionIDs)
	tx, err := r.Transactions.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestUnicidadYPaginacion(t *testing.T) {
	_, r := seed(t)
	ctx := context.Background()

	err := r.Categories.Create(ctx, &entity.Category{ID: "c2", Name: "BEBIDAS"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = r.Products.Create(ctx, &entity.Product{ID: "p2", Name: "Otra", CategoryID: "c1", SKU: "BEB-AGU-0001", Barcode: "X"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = r.Products.Create(ctx, &entity.Product{ID: "p3", Name: "Otra", CategoryID: "no-existe", SKU: "S", Barcode: "Y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i, at := range []time.Time{now, now.Add(time.Hour), now.Add(2 * time.Hour)} {
		require.NoError(t, r.Transactions.Create(ctx, &entity.Transaction{
			ID: string(rune('a' + i)), ProductID: "p1", Type: entity.TransactionPurchase, Quantity: 1, CreatedAt: at,
		}))
	}
	page, err := r.Transactions.List(ctx, repository.TransactionFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].ID)
	assert.Equal(t, "a", page[1].ID)

	from, to := now.Add(30*time.Minute), now.Add(2*time.Hour)
	ids, err := r.Transactions.ListIDsInRange(ctx, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids)
}
