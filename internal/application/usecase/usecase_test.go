package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type env struct {
	repos      memory.Repos
	runner     *memory.TxRunner
	categories *usecase.CategoryUseCase
	suppliers  *usecase.SupplierUseCase
	warehouses *usecase.WarehouseUseCase
	products   *usecase.ProductUseCase
	txs        *usecase.TransactionUseCase
	reports    *usecase.ReportUseCase
	sales      *usecase.SalesRecordUseCase
}

func newEnv() *env {
	store := memory.NewStore()
	repos := store.Repos()
	runner := memory.NewTxRunner(store)
	return &env{
		repos:      repos,
		runner:     runner,
		categories: usecase.NewCategoryUseCase(repos.Categories),
		suppliers:  usecase.NewSupplierUseCase(repos.Suppliers),
		warehouses: usecase.NewWarehouseUseCase(repos.Warehouses),
		products:   usecase.NewProductUseCase(repos.Products, repos.Categories, repos.Suppliers),
		txs:        usecase.NewTransactionUseCase(repos.Transactions),
		reports:    usecase.NewReportUseCase(runner, repos.Reports),
		sales:      usecase.NewSalesRecordUseCase(repos.Sales),
	}
}

func (e *env) recorder(at time.Time) *inventory.RecordTransactionUseCase {
	return inventory.NewRecordTransactionUseCase(e.runner, e.repos.Warehouses, nil, inventory.Config{}, logger.Nop()).
		WithClock(func() time.Time { return at })
}

// seed categoría, bodega y producto (costo 5, venta 10).
func (e *env) seed(t *testing.T) (productID, warehouseID string) {
	t.Helper()
	ctx := context.Background()
	cat, err := e.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	wh, err := e.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Central", Location: "Bogotá"})
	require.NoError(t, err)
	p, err := e.products.Create(ctx, dto.CreateProductRequest{
		Name:         "Agua",
		CategoryID:   cat.ID,
		BuyingPrice:  decimal.NewFromInt(5),
		SellingPrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return p.ID, wh.ID
}

func ptr[T any](v T) *T { return &v }

// ── Product ──────────────────────────────────────────────────────────────────

func TestProductUseCase_CreateGeneraCodigosYStockCero(t *testing.T) {
	e := newEnv()
	productID, _ := e.seed(t)

	p, err := e.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Regexp(t, `^BEB-AGU-[0-9A-F]{4}$`, p.SKU)
	assert.Len(t, p.Barcode, 12)
	assert.Zero(t, p.Stock)
	assert.Equal(t, entity.DefaultLowStockThreshold, p.LowStockThreshold)
	assert.NotEmpty(t, p.LowStockWarning)
}

func TestProductUseCase_CreateValida(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cat, err := e.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Aseo"})
	require.NoError(t, err)

	_, err = e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Jabón", CategoryID: cat.ID, BuyingPrice: decimal.NewFromInt(5), SellingPrice: decimal.NewFromInt(4),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Jabón", CategoryID: "no-existe", BuyingPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Jabón", CategoryID: cat.ID, SupplierID: "no-existe", BuyingPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Jabón", CategoryID: cat.ID, ExpirationDate: "2001-01-01", BuyingPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	first, err := e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Jabón", CategoryID: cat.ID, SKU: "ASE-JAB-0001", BuyingPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	_, err = e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Jabón 2", CategoryID: cat.ID, SKU: first.SKU, BuyingPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_UpdateNoTocaStock(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	productID, whID := e.seed(t)
	_, err := e.recorder(time.Now()).Record(ctx, inventory.RecordInput{
		ProductID: productID, Type: entity.TransactionPurchase, Quantity: 8, UnitPrice: decimal.NewFromInt(5), WarehouseID: whID,
	})
	require.NoError(t, err)

	before, err := e.products.GetByID(ctx, productID)
	require.NoError(t, err)

	out, err := e.products.Update(ctx, productID, dto.UpdateProductRequest{
		Name:         ptr("Agua con gas"),
		SellingPrice: ptr(decimal.NewFromInt(12)),
		SKU:          ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Agua con gas", out.Name)
	assert.Equal(t, int64(8), out.Stock)
	assert.NotEqual(t, before.SKU, out.SKU, "un SKU vacío se regenera")
	assert.NotEmpty(t, out.SKU)
	assert.Equal(t, before.Barcode, out.Barcode)
	assert.Empty(t, out.LowStockWarning)

	_, err = e.products.Update(ctx, productID, dto.UpdateProductRequest{SellingPrice: ptr(decimal.NewFromInt(1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Supplier / Category / Warehouse ─────────────────────────────────────────

func TestSupplierUseCase_ValoresPorDefectoYRating(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	s, err := e.suppliers.Create(ctx, dto.CreateSupplierRequest{Name: "Distribuidora", Phone: "3001234567", Email: "ventas@dist.co"})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPaymentTerms, s.PaymentTerms)
	assert.True(t, s.Rating.Equal(entity.DefaultSupplierRating))

	_, err = e.suppliers.Create(ctx, dto.CreateSupplierRequest{Name: "Otra", Phone: "3001234567", Email: "otra@dist.co"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "teléfono único")

	_, err = e.suppliers.Update(ctx, s.ID, dto.UpdateSupplierRequest{Rating: ptr(decimal.NewFromInt(6))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := e.suppliers.Update(ctx, s.ID, dto.UpdateSupplierRequest{Rating: ptr(decimal.RequireFromString("4.5"))})
	require.NoError(t, err)
	assert.Equal(t, "4.5", out.Rating.String())
}

func TestCatalog_NoEncontrado(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.categories.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.suppliers.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.warehouses.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.products.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.warehouses.Delete(ctx, "no-existe"), domain.ErrNotFound)
}

func TestCategoryDelete_BorraProductosEnCascada(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	productID, _ := e.seed(t)
	p, err := e.products.GetByID(ctx, productID)
	require.NoError(t, err)

	require.NoError(t, e.categories.Delete(ctx, p.CategoryID))
	_, err = e.products.GetByID(ctx, productID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Transaction ──────────────────────────────────────────────────────────────

func TestTransactionUseCase_ListarActualizarEliminar(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	productID, whID := e.seed(t)
	rec := e.recorder(time.Now())
	purchase, err := rec.Record(ctx, inventory.RecordInput{ProductID: productID, Type: entity.TransactionPurchase, Quantity: 5, WarehouseID: whID})
	require.NoError(t, err)
	_, err = rec.Record(ctx, inventory.RecordInput{ProductID: productID, Type: entity.TransactionSale, Quantity: 1, UnitPrice: decimal.NewFromInt(10), WarehouseID: whID})
	require.NoError(t, err)

	sales, err := e.txs.List(ctx, "Sale", "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, sales.Items, 1)
	assert.Equal(t, "10", sales.Items[0].TotalPrice.String())

	_, err = e.txs.List(ctx, "Gift", "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := e.txs.Update(ctx, purchase.ID, dto.UpdateTransactionRequest{Status: ptr("Pending"), BatchNumber: ptr("L-9")})
	require.NoError(t, err)
	assert.Equal(t, "Pending", out.Status)
	assert.Equal(t, "L-9", out.BatchNumber)
	assert.Equal(t, int64(5), out.Quantity)

	require.NoError(t, e.txs.Delete(ctx, purchase.ID))
	_, err = e.txs.GetByID(ctx, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	p, err := e.products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Stock, "borrar el registro no revierte stock")
}

// ── Report ───────────────────────────────────────────────────────────────────

func TestReportUseCase_FotoAutomatica(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	productID, whID := e.seed(t)

	day1 := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 20, 23, 30, 0, 0, time.UTC)
	day3 := time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC)
	var ids []string
	for _, at := range []time.Time{day1, day2, day3} {
		tx, err := e.recorder(at).Record(ctx, inventory.RecordInput{
			ProductID: productID, Type: entity.TransactionPurchase, Quantity: 1, WarehouseID: whID,
		})
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}

	stock, err := e.reports.Create(ctx, "user-1", dto.CreateReportRequest{Type: "Stock Report", Format: "PDF"})
	require.NoError(t, err)
	assert.Len(t, stock.InventoryIDs, 1)
	assert.Empty(t, stock.TransactionIDs)
	assert.Equal(t, "Stock Report (PDF)", stock.Title)
	assert.Equal(t, "user-1", stock.UserID)

	// el día final del rango es inclusivo
	sales, err := e.reports.Create(ctx, "user-1", dto.CreateReportRequest{
		Type: "Sales Report", Format: "CSV", RangeStart: "2025-01-01", RangeEnd: "2025-01-20",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, ids[:2], sales.TransactionIDs)
	assert.Empty(t, sales.InventoryIDs)

	supplier, err := e.reports.Create(ctx, "user-1", dto.CreateReportRequest{Type: "Supplier Report", Format: "Excel"})
	require.NoError(t, err)
	assert.Empty(t, supplier.InventoryIDs)
	assert.Empty(t, supplier.TransactionIDs)

	got, err := e.reports.GetByID(ctx, sales.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, sales.TransactionIDs, got.TransactionIDs)

	list, err := e.reports.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, supplier.ID, list.Items[0].ID, "más recientes primero")
}

func TestReportUseCase_EnlacesExplicitosYValidacion(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	productID, whID := e.seed(t)
	tx, err := e.recorder(time.Now()).Record(ctx, inventory.RecordInput{
		ProductID: productID, Type: entity.TransactionPurchase, Quantity: 1, WarehouseID: whID,
	})
	require.NoError(t, err)

	out, err := e.reports.Create(ctx, "", dto.CreateReportRequest{
		Type: "Profit & Loss", Format: "CSV", TransactionIDs: []string{tx.ID, tx.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{tx.ID}, out.TransactionIDs)

	_, err = e.reports.Create(ctx, "", dto.CreateReportRequest{Type: "Stock Report", Format: "CSV", InventoryIDs: []string{"no-existe"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.reports.Create(ctx, "", dto.CreateReportRequest{Type: "Weekly", Format: "CSV"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.reports.Create(ctx, "", dto.CreateReportRequest{Type: "Stock Report", Format: "DOCX"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.reports.Create(ctx, "", dto.CreateReportRequest{
		Type: "Sales Report", Format: "CSV", RangeStart: "2025-02-01", RangeEnd: "2025-01-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── SalesRecord ──────────────────────────────────────────────────────────────

func TestSalesRecordUseCase(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	productID, whID := e.seed(t)

	_, err := e.sales.GetByProduct(ctx, productID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.recorder(time.Now()).Record(ctx, inventory.RecordInput{
		ProductID: productID, Type: entity.TransactionPurchase, Quantity: 3, UnitPrice: decimal.NewFromInt(5), WarehouseID: whID,
	})
	require.NoError(t, err)

	rec, err := e.sales.GetByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.TotalQuantityPurchased)
	assert.Equal(t, "15", rec.TotalPurchaseAmount.String())

	list, err := e.sales.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestWarehouseUseCase_NormalizaYValida(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	w, err := e.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "  Central ", Location: " Bogotá"})
	require.NoError(t, err)
	assert.Equal(t, "Central", w.Name)
	assert.Equal(t, "Bogotá", w.Location)

	_, err = e.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "   ", Location: "Cali"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "CENTRAL", Location: "Cali"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	out, err := e.warehouses.Update(ctx, w.ID, dto.UpdateWarehouseRequest{Location: ptr("Medellín")})
	require.NoError(t, err)
	assert.Equal(t, "Central", out.Name)
	assert.Equal(t, "Medellín", out.Location)

	_, err = e.warehouses.Update(ctx, w.ID, dto.UpdateWarehouseRequest{Location: ptr("")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
