package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestRecord_CompraYVentaMantienenProyeccion(t *testing.T) {
	f := newFixture(t, inventory.Config{})

	purchase := f.mustDo(t, entity.TransactionPurchase, 10, 5, w1)
	assert.Equal(t, "50", purchase.TotalPrice.String())
	assert.Equal(t, entity.TransactionStatusCompleted, purchase.Status)
	assert.Equal(t, "user-1", purchase.RecordedBy)
	assert.Equal(t, int64(10), f.stock(t))

	f.mustDo(t, entity.TransactionPurchase, 4, 5, w2)
	sale := f.mustDo(t, entity.TransactionSale, 3, 10, w1)
	assert.Equal(t, "30", sale.TotalPrice.String())

	assert.Equal(t, int64(7), f.qty(t, w1))
	assert.Equal(t, int64(4), f.qty(t, w2))
	assert.Equal(t, f.sumRows(t), f.stock(t))
	assert.Equal(t, int64(11), f.stock(t))

	rec, err := f.repos.Sales.GetByProduct(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(3), rec.TotalQuantitySold)
	assert.True(t, rec.TotalSaleAmount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, int64(14), rec.TotalQuantityPurchased)
	assert.True(t, rec.TotalPurchaseAmount.Equal(decimal.NewFromInt(70)))
}

func TestRecord_SobreventaNoCambiaNada(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	f.mustDo(t, entity.TransactionPurchase, 2, 5, w1)

	_, err := f.do(t, entity.TransactionSale, 3, 10, w1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(2), f.qty(t, w1))
	assert.Equal(t, int64(2), f.stock(t))
	assert.Equal(t, 1, f.txCount(t))
	rec, err := f.repos.Sales.GetByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Zero(t, rec.TotalQuantitySold)
}

func TestRecord_SalidaSinFilaEsStockInsuficiente(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	f.mustDo(t, entity.TransactionPurchase, 5, 5, w1)

	for _, typ := range []entity.TransactionType{entity.TransactionSale, entity.TransactionDamaged, entity.TransactionExpired} {
		_, err := f.do(t, typ, 1, 10, w2)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock, typ)
	}
	assert.Equal(t, int64(-1), f.qty(t, w2), "no se crea fila para una salida")
}

func TestRecord_DanadoYVencidoDescuentanSinVenta(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	f.mustDo(t, entity.TransactionPurchase, 10, 5, w1)
	f.mustDo(t, entity.TransactionDamaged, 2, 0, w1)
	f.mustDo(t, entity.TransactionExpired, 1, 0, w1)

	assert.Equal(t, int64(7), f.stock(t))
	rec, err := f.repos.Sales.GetByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Zero(t, rec.TotalQuantitySold)
}

func TestRecord_TrasladoMueveSinCambiarTotal(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	f.mustDo(t, entity.TransactionPurchase, 10, 5, w2)

	tx, err := f.transfer(t, 4, w2, w1)
	require.NoError(t, err)
	assert.Empty(t, tx.WarehouseID)
	assert.Equal(t, w2, tx.FromWarehouseID)
	assert.Equal(t, w1, tx.ToWarehouseID)

	assert.Equal(t, int64(6), f.qty(t, w2))
	assert.Equal(t, int64(4), f.qty(t, w1))
	assert.Equal(t, int64(10), f.stock(t))

	rec, err := f.repos.Sales.GetByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.TotalQuantityPurchased, "el traslado no toca SalesRecord")
}

func TestRecord_TrasladoFallidoEsAtomico(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	f.mustDo(t, entity.TransactionPurchase, 3, 5, w1)
	f.mustDo(t, entity.TransactionPurchase, 1, 5, w3)

	_, err := f.transfer(t, 5, w1, w3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), f.qty(t, w1))
	assert.Equal(t, int64(1), f.qty(t, w3))

	_, err = f.transfer(t, 1, w2, w1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock, "origen sin fila")
	assert.Equal(t, int64(-1), f.qty(t, w2))
	assert.Equal(t, 2, f.txCount(t))
}

func TestRecord_TrasladoInvalido(t *testing.T) {
	f := newFixture(t, inventory.Config{})

	_, err := f.transfer(t, 1, w1, w1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	_, err = f.transfer(t, 1, w1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	_, err = f.transfer(t, 1, w1, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_Validaciones(t *testing.T) {
	f := newFixture(t, inventory.Config{})

	_, err := f.do(t, entity.TransactionPurchase, 0, 5, w1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.do(t, entity.TransactionPurchase, 1, -5, w1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.do(t, "Gift", 1, 5, w1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.record.Record(context.Background(), inventory.RecordInput{
		ProductID: "no-existe", Type: entity.TransactionPurchase, Quantity: 1, WarehouseID: w1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.txCount(t))
}

func TestRecord_ResolucionDeBodega(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	_, err := f.do(t, entity.TransactionPurchase, 1, 5, "")
	assert.ErrorIs(t, err, domain.ErrNoWarehouseAvailable)

	_, err = f.do(t, entity.TransactionPurchase, 1, 5, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	withDefault := newFixture(t, inventory.Config{DefaultWarehouseID: w3})
	tx, err := withDefault.do(t, entity.TransactionPurchase, 2, 5, "")
	require.NoError(t, err)
	assert.Equal(t, w3, tx.WarehouseID)
	assert.Equal(t, int64(2), withDefault.qty(t, w3))

	// la bodega explícita gana sobre la configurada
	tx, err = withDefault.do(t, entity.TransactionPurchase, 1, 5, w1)
	require.NoError(t, err)
	assert.Equal(t, w1, tx.WarehouseID)
}

func TestRecord_PoliticaDeDevolucion(t *testing.T) {
	tests := []struct {
		policy      entity.ReturnPolicy
		wantSold    int64
		wantSaleAmt int64
	}{
		{entity.ReturnPolicyExclude, 3, 30},
		{entity.ReturnPolicyReverseSale, 2, 20},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newFixture(t, inventory.Config{ReturnPolicy: tt.policy})
			f.mustDo(t, entity.TransactionPurchase, 10, 5, w1)
			f.mustDo(t, entity.TransactionSale, 3, 10, w1)
			f.mustDo(t, entity.TransactionReturn, 1, 10, w1)

			assert.Equal(t, int64(8), f.stock(t), "la devolución siempre reingresa stock")
			rec, err := f.repos.Sales.GetByProduct(context.Background(), productID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSold, rec.TotalQuantitySold)
			assert.True(t, rec.TotalSaleAmount.Equal(decimal.NewFromInt(tt.wantSaleAmt)))
		})
	}
}

func TestRecord_AlertaDeStockBajoTrasCommit(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	f.mustDo(t, entity.TransactionPurchase, 5, 5, w1)
	f.mustDo(t, entity.TransactionPurchase, 5, 5, w2)
	require.Empty(t, f.notifier.alerts)

	f.mustDo(t, entity.TransactionSale, 4, 10, w1)

	require.Len(t, f.notifier.alerts, 1)
	a := f.notifier.alerts[0]
	assert.Equal(t, w1, a.WarehouseID)
	assert.Equal(t, int64(1), a.Quantity)
	assert.Equal(t, int64(3), a.Threshold)
	assert.Equal(t, int64(6), a.Stock)
	assert.Equal(t, "Agua", a.ProductName)
	assert.Equal(t, []int64{6}, f.notifier.visible, "la alerta llega con el cambio ya confirmado")

	// una operación fallida no emite alertas
	_, err := f.do(t, entity.TransactionSale, 50, 10, w2)
	require.Error(t, err)
	assert.Len(t, f.notifier.alerts, 1)

	require.Len(t, f.notifier.events, 3)
	assert.Equal(t, int64(6), f.notifier.events[2].Stock)
}

func TestRecord_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t, inventory.Config{})
	f.mustDo(t, entity.TransactionPurchase, 5, 5, w1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.do(t, entity.TransactionSale, 1, 10, w1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, insufficient)
	assert.Zero(t, f.stock(t))
	assert.Zero(t, f.qty(t, w1))
}
