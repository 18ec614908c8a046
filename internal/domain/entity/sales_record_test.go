package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func tx(typ entity.TransactionType, qty int64, total int64) *entity.Transaction {
	return &entity.Transaction{Type: typ, Quantity: qty, TotalPrice: decimal.NewFromInt(total)}
}

func TestSalesDeltaFor(t *testing.T) {
	sale := entity.SalesDeltaFor(tx(entity.TransactionSale, 2, 20), entity.ReturnPolicyExclude)
	assert.Equal(t, int64(2), sale.QuantitySold)
	assert.True(t, sale.SaleAmount.Equal(decimal.NewFromInt(20)))

	purchase := entity.SalesDeltaFor(tx(entity.TransactionPurchase, 5, 25), entity.ReturnPolicyExclude)
	assert.Equal(t, int64(5), purchase.QuantityPurchased)
	assert.True(t, purchase.PurchaseAmount.Equal(decimal.NewFromInt(25)))

	assert.True(t, entity.SalesDeltaFor(tx(entity.TransactionReturn, 1, 10), entity.ReturnPolicyExclude).IsZero())
	reversed := entity.SalesDeltaFor(tx(entity.TransactionReturn, 1, 10), entity.ReturnPolicyReverseSale)
	assert.Equal(t, int64(-1), reversed.QuantitySold)
	assert.True(t, reversed.SaleAmount.Equal(decimal.NewFromInt(-10)))

	for _, typ := range []entity.TransactionType{entity.TransactionTransfer, entity.TransactionDamaged, entity.TransactionExpired} {
		assert.True(t, entity.SalesDeltaFor(tx(typ, 3, 30), entity.ReturnPolicyReverseSale).IsZero(), typ)
	}
}

func TestSalesRecord_ApplyConPisoEnCero(t *testing.T) {
	r := &entity.SalesRecord{TotalSaleAmount: decimal.Zero, TotalPurchaseAmount: decimal.Zero}
	r.Apply(entity.SalesDelta{QuantitySold: 1, SaleAmount: decimal.NewFromInt(10)})
	r.Apply(entity.SalesDelta{QuantitySold: -3, SaleAmount: decimal.NewFromInt(-30)})

	assert.Equal(t, int64(0), r.TotalQuantitySold)
	assert.True(t, r.TotalSaleAmount.IsZero())
}

func TestTransactionType_Clasificacion(t *testing.T) {
	assert.True(t, entity.TransactionPurchase.IsIncoming())
	assert.True(t, entity.TransactionReturn.IsIncoming())
	assert.True(t, entity.TransactionSale.IsOutgoing())
	assert.True(t, entity.TransactionDamaged.IsOutgoing())
	assert.True(t, entity.TransactionExpired.IsOutgoing())
	assert.False(t, entity.TransactionTransfer.IsIncoming())
	assert.False(t, entity.TransactionTransfer.IsOutgoing())
	assert.False(t, entity.TransactionType("Gift").Valid())
}

func TestReport_DisplayTitleYSnapshots(t *testing.T) {
	r := &entity.Report{Type: entity.ReportStock, Format: entity.ReportFormatCSV}
	assert.Equal(t, "Stock Report (CSV)", r.DisplayTitle())
	r.Title = "Cierre"
	assert.Equal(t, "Cierre", r.DisplayTitle())

	assert.True(t, entity.ReportInventoryAudit.SnapshotsInventory())
	assert.True(t, entity.ReportProfitLoss.SnapshotsTransactions())
	assert.False(t, entity.ReportSupplier.SnapshotsInventory())
	assert.False(t, entity.ReportSupplier.SnapshotsTransactions())
	assert.False(t, entity.ReportFormat("DOCX").Valid())
}
