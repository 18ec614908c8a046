package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/migrations"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Requiere TEST_DATABASE_URL apuntando a una base desechable.
func openTestDB(t *testing.T) (context.Context, *postgres.TxRunner, postgres.Querier) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool, migrations.FS)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE categories, suppliers, warehouses, products, inventory,
		transactions, sales_records, reports CASCADE`)
	require.NoError(t, err)
	return ctx, postgres.NewTxRunner(pool), pool
}

type seeded struct {
	productID string
	w1, w2    string
}

func seedCatalog(t *testing.T, ctx context.Context, q postgres.Querier) seeded {
	t.Helper()
	s := seeded{productID: uuid.NewString(), w1: uuid.NewString(), w2: uuid.NewString()}
	catID := uuid.NewString()
	now := time.Now().UTC()
	require.NoError(t, postgres.NewCategoryRepository(q).Create(ctx, &entity.Category{ID: catID, Name: "Bebidas", CreatedAt: now}))
	warehouses := postgres.NewWarehouseRepository(q)
	require.NoError(t, warehouses.Create(ctx, &entity.Warehouse{ID: s.w1, Name: "Central", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, warehouses.Create(ctx, &entity.Warehouse{ID: s.w2, Name: "Norte", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, postgres.NewProductRepository(q).Create(ctx, &entity.Product{
		ID: s.productID, Name: "Agua", CategoryID: catID, SKU: "BEB-AGU-0001", Barcode: "000000000001",
		BuyingPrice: decimal.NewFromInt(5), SellingPrice: decimal.NewFromInt(10), LowStockThreshold: 3,
		CreatedAt: now, UpdatedAt: now,
	}))
	return s
}

func TestPostgres_LibroDeInventario(t *testing.T) {
	ctx, runner, q := openTestDB(t)
	s := seedCatalog(t, ctx, q)
	products := postgres.NewProductRepository(q)
	uc := inventory.NewRecordTransactionUseCase(runner, postgres.NewWarehouseRepository(q), nil, inventory.Config{}, logger.Nop())

	_, err := uc.Record(ctx, inventory.RecordInput{
		ProductID: s.productID, Type: entity.TransactionPurchase, Quantity: 10, UnitPrice: decimal.NewFromInt(5), WarehouseID: s.w1,
	})
	require.NoError(t, err)
	_, err = uc.Record(ctx, inventory.RecordInput{
		ProductID: s.productID, Type: entity.TransactionTransfer, Quantity: 4, FromWarehouseID: s.w1, ToWarehouseID: s.w2,
	})
	require.NoError(t, err)

	_, err = uc.Record(ctx, inventory.RecordInput{
		ProductID: s.productID, Type: entity.TransactionSale, Quantity: 7, UnitPrice: decimal.NewFromInt(10), WarehouseID: s.w1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := products.GetByID(ctx, s.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Stock)

	rows, err := postgres.NewInventoryRepository(q).List(ctx, repository.InventoryFilter{ProductID: s.productID})
	require.NoError(t, err)
	byWarehouse := map[string]int64{}
	for _, r := range rows {
		byWarehouse[r.WarehouseID] = r.Quantity
	}
	assert.Equal(t, map[string]int64{s.w1: 6, s.w2: 4}, byWarehouse)

	txs, err := postgres.NewTransactionRepository(q).List(ctx, repository.TransactionFilter{ProductID: s.productID})
	require.NoError(t, err)
	assert.Len(t, txs, 2, "la venta fallida no deja registro")
}

func TestPostgres_VentasConcurrentesNoSobrevenden(t *testing.T) {
	ctx, runner, q := openTestDB(t)
	s := seedCatalog(t, ctx, q)
	uc := inventory.NewRecordTransactionUseCase(runner, postgres.NewWarehouseRepository(q), nil, inventory.Config{}, logger.Nop())
	_, err := uc.Record(ctx, inventory.RecordInput{
		ProductID: s.productID, Type: entity.TransactionPurchase, Quantity: 5, WarehouseID: s.w1,
	})
	require.NoError(t, err)

	const workers = 12
	var (
		wg               sync.WaitGroup
		mu               sync.Mutex
		ok, insufficient int
		unexpected       []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Record(ctx, inventory.RecordInput{
				ProductID: s.productID, Type: entity.TransactionSale, Quantity: 1, UnitPrice: decimal.NewFromInt(10), WarehouseID: s.w1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 5, ok)
	assert.Equal(t, workers-5, insufficient)

	p, err := postgres.NewProductRepository(q).GetByID(ctx, s.productID)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	rec, err := postgres.NewSalesRecordRepository(q).GetByProduct(ctx, s.productID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(5), rec.TotalQuantitySold)
}

func TestPostgres_MovimientosEnBodegasDistintasMantienenStock(t *testing.T) {
	ctx, runner, q := openTestDB(t)
	s := seedCatalog(t, ctx, q)
	uc := inventory.NewRecordTransactionUseCase(runner, postgres.NewWarehouseRepository(q), nil, inventory.Config{}, logger.Nop())
	_, err := uc.Record(ctx, inventory.RecordInput{
		ProductID: s.productID, Type: entity.TransactionPurchase, Quantity: 10, WarehouseID: s.w1,
	})
	require.NoError(t, err)

	inputs := make([]inventory.RecordInput, 0, 30)
	for i := 0; i < 10; i++ {
		inputs = append(inputs,
			inventory.RecordInput{ProductID: s.productID, Type: entity.TransactionSale, Quantity: 1, UnitPrice: decimal.NewFromInt(10), WarehouseID: s.w1},
			inventory.RecordInput{ProductID: s.productID, Type: entity.TransactionPurchase, Quantity: 2, WarehouseID: s.w2},
			inventory.RecordInput{ProductID: s.productID, Type: entity.TransactionTransfer, Quantity: 1, FromWarehouseID: s.w2, ToWarehouseID: s.w1},
		)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		unexpected []error
	)
	for _, in := range inputs {
		wg.Add(1)
		go func(in inventory.RecordInput) {
			defer wg.Done()
			_, err := uc.Record(ctx, in)
			// una transferencia puede llegar antes que cualquier compra en la bodega origen
			if err == nil || (in.Type == entity.TransactionTransfer && errors.Is(err, domain.ErrInsufficientStock)) {
				return
			}
			mu.Lock()
			unexpected = append(unexpected, err)
			mu.Unlock()
		}(in)
	}
	wg.Wait()
	require.Empty(t, unexpected)

	rows, err := postgres.NewInventoryRepository(q).List(ctx, repository.InventoryFilter{ProductID: s.productID})
	require.NoError(t, err)
	var sum int64
	for _, r := range rows {
		sum += r.Quantity
	}
	p, err := postgres.NewProductRepository(q).GetByID(ctx, s.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), sum)
	assert.Equal(t, sum, p.Stock)
}

func TestPostgres_IDMalFormadoEsNoEncontrado(t *testing.T) {
	ctx, runner, q := openTestDB(t)
	s := seedCatalog(t, ctx, q)
	products := postgres.NewProductRepository(q)

	p, err := products.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, products.Delete(ctx, "abc"), domain.ErrNotFound)
	assert.ErrorIs(t, postgres.NewWarehouseRepository(q).Delete(ctx, "abc"), domain.ErrNotFound)

	uc := inventory.NewRecordTransactionUseCase(runner, postgres.NewWarehouseRepository(q), nil, inventory.Config{}, logger.Nop())
	_, err = uc.Record(ctx, inventory.RecordInput{
		ProductID: "abc", Type: entity.TransactionPurchase, Quantity: 1, WarehouseID: s.w1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_RecordedByAceptaIDOpaco(t *testing.T) {
	ctx, runner, q := openTestDB(t)
	s := seedCatalog(t, ctx, q)
	uc := inventory.NewRecordTransactionUseCase(runner, postgres.NewWarehouseRepository(q), nil, inventory.Config{}, logger.Nop())

	tx, err := uc.Record(ctx, inventory.RecordInput{
		UserID: "cajero-01", ProductID: s.productID, Type: entity.TransactionPurchase, Quantity: 3, WarehouseID: s.w1,
	})
	require.NoError(t, err)

	got, err := postgres.NewTransactionRepository(q).GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cajero-01", got.RecordedBy)
}
