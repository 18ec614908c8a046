package entity_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var today = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func validProduct() *entity.Product {
	return &entity.Product{
		Name:              "Agua",
		CategoryID:        "cat-1",
		BuyingPrice:       decimal.NewFromInt(5),
		SellingPrice:      decimal.NewFromInt(10),
		LowStockThreshold: 3,
	}
}

func TestProduct_Validate(t *testing.T) {
	yesterday := today.AddDate(0, 0, -1)
	sameDay := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		edit  func(p *entity.Product)
		field string
	}{
		{"válido", func(p *entity.Product) {}, ""},
		{"nombre vacío", func(p *entity.Product) { p.Name = "  " }, "product_name"},
		{"sin categoría", func(p *entity.Product) { p.CategoryID = "" }, "category_id"},
		{"stock negativo", func(p *entity.Product) { p.Stock = -1 }, "stock"},
		{"umbral negativo", func(p *entity.Product) { p.LowStockThreshold = -1 }, "low_stock_threshold"},
		{"costo negativo", func(p *entity.Product) { p.BuyingPrice = decimal.NewFromInt(-1) }, "buying_price"},
		{"venta menor que costo", func(p *entity.Product) { p.SellingPrice = decimal.NewFromInt(4) }, "selling_price"},
		{"venta igual a costo", func(p *entity.Product) { p.SellingPrice = decimal.NewFromInt(5) }, ""},
		{"vencido", func(p *entity.Product) { p.ExpirationDate = &yesterday }, "expiration_date"},
		{"vence hoy", func(p *entity.Product) { p.ExpirationDate = &sameDay }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.edit(p)
			err := p.Validate(today)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestProduct_LowStockWarning(t *testing.T) {
	p := validProduct()
	p.Stock = 2
	assert.True(t, p.IsLowStock())
	assert.Equal(t, "Warning: Agua stock is low (2 items remaining). Please restock!", p.LowStockWarning())

	p.Stock = 3
	assert.False(t, p.IsLowStock())
	assert.Empty(t, p.LowStockWarning())
}

func TestProduct_EnsureCodes(t *testing.T) {
	p := validProduct()
	p.Name = "Café molido"
	p.EnsureCodes("Bebidas")

	assert.Regexp(t, regexp.MustCompile(`^BEB-CAF-[0-9A-F]{4}$`), p.SKU)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{12}$`), p.Barcode)

	// códigos existentes no se tocan
	p.SKU, p.Barcode = "MI-SKU", "123"
	p.EnsureCodes("Bebidas")
	assert.Equal(t, "MI-SKU", p.SKU)
	assert.Equal(t, "123", p.Barcode)
}

func TestGenerateSKU_SinTildesNiSimbolos(t *testing.T) {
	sku := entity.GenerateSKU("Año nuevo", "Ñ-ú 9")
	assert.Regexp(t, regexp.MustCompile(`^ANO-NU9-[0-9A-F]{4}$`), sku)

	sku = entity.GenerateSKU("Té", "Pan")
	assert.Regexp(t, regexp.MustCompile(`^TE-PAN-[0-9A-F]{4}$`), sku)
}
