package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// DefaultLowStockThreshold umbral de stock bajo cuando el producto no define uno.
const DefaultLowStockThreshold int64 = 3

// Product representa un producto del catálogo (multi-bodega).
// Stock es una proyección: siempre igual a la suma de Inventory.Quantity del producto.
// Solo el motor de inventario la escribe; las actualizaciones de catálogo no la tocan.
type Product struct {
	ID                string
	Name              string
	CategoryID        string
	SKU               string // único; se genera si viene vacío
	Barcode           string // único; se genera si viene vacío
	BuyingPrice       decimal.Decimal
	SellingPrice      decimal.Decimal
	Stock             int64
	LowStockThreshold int64
	SupplierID        string     // vacío si no tiene proveedor
	ExpirationDate    *time.Time // solo fecha
	ImageURL          string
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el stock agregado está por debajo del umbral.
func (p *Product) IsLowStock() bool {
	return p.Stock < p.LowStockThreshold
}

// LowStockWarning devuelve el aviso de stock bajo o "" si no aplica.
// Se calcula al leer; no se persiste.
func (p *Product) LowStockWarning() string {
	if !p.IsLowStock() {
		return ""
	}
	return fmt.Sprintf("Warning: %s stock is low (%d items remaining). Please restock!", p.Name, p.Stock)
}

// Validate aplica las reglas de catálogo. today se usa para la fecha de vencimiento.
func (p *Product) Validate(today time.Time) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("product_name", "es requerido")
	}
	if p.CategoryID == "" {
		return domain.NewValidationError("category_id", "es requerido")
	}
	if p.Stock < 0 {
		return domain.NewValidationError("stock", "no puede ser negativo")
	}
	if p.LowStockThreshold < 0 {
		return domain.NewValidationError("low_stock_threshold", "no puede ser negativo")
	}
	if p.BuyingPrice.IsNegative() {
		return domain.NewValidationError("buying_price", "no puede ser negativo")
	}
	if p.SellingPrice.LessThan(p.BuyingPrice) {
		return domain.NewValidationError("selling_price", "no puede ser menor que buying_price")
	}
	if p.ExpirationDate != nil && dateOnly(*p.ExpirationDate).Before(dateOnly(today)) {
		return domain.NewValidationError("expiration_date", "no puede estar en el pasado")
	}
	return nil
}

// EnsureCodes genera SKU y código de barras si vienen vacíos.
// SKU: CAT-NOM-XXXX (3 primeras letras de categoría y producto + sufijo aleatorio).
func (p *Product) EnsureCodes(categoryName string) {
	if p.SKU == "" {
		p.SKU = GenerateSKU(categoryName, p.Name)
	}
	if p.Barcode == "" {
		p.Barcode = GenerateBarcode()
	}
}

// GenerateSKU construye un SKU a partir de la categoría y el nombre del producto.
func GenerateSKU(categoryName, productName string) string {
	return fmt.Sprintf("%s-%s-%s", prefix3(categoryName), prefix3(productName), randomHex(4))
}

// GenerateBarcode devuelve 12 caracteres hexadecimales en mayúscula.
func GenerateBarcode() string {
	return randomHex(12)
}

// prefix3 primeras 3 letras o dígitos en mayúscula, sin tildes ("Año" -> "ANO").
func prefix3(s string) string {
	// el Chain guarda estado: uno por llamada
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	out := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(folded) {
		if len(out) == 3 {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			out = append(out, r)
		}
	}
	return string(out)
}

func randomHex(n int) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(hex[:n])
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
