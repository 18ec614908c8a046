package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. SKU y barcode se generan si vienen vacíos.
type CreateProductRequest struct {
	Name              string          `json:"product_name" validate:"required,min=1,max=100"`
	CategoryID        string          `json:"category_id" validate:"required"`
	SKU               string          `json:"sku" validate:"max=30"`
	Barcode           string          `json:"barcode" validate:"max=50"`
	BuyingPrice       decimal.Decimal `json:"buying_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold *int64          `json:"low_stock_threshold" validate:"omitempty,min=0"`
	SupplierID        string          `json:"supplier_id"`
	ExpirationDate    string          `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	ImageURL          string          `json:"image_url"`
	Description       string          `json:"description"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock).
// Un SKU o barcode vacío ("") pide regenerarlo.
type UpdateProductRequest struct {
	Name              *string          `json:"product_name" validate:"omitempty,min=1,max=100"`
	CategoryID        *string          `json:"category_id"`
	SKU               *string          `json:"sku" validate:"omitempty,max=30"`
	Barcode           *string          `json:"barcode" validate:"omitempty,max=50"`
	BuyingPrice       *decimal.Decimal `json:"buying_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	LowStockThreshold *int64           `json:"low_stock_threshold" validate:"omitempty,min=0"`
	SupplierID        *string          `json:"supplier_id"`
	ExpirationDate    *string          `json:"expiration_date"` // "" limpia la fecha
	ImageURL          *string          `json:"image_url"`
	Description       *string          `json:"description"`
}

// ProductResponse salida de un producto. LowStockWarning se calcula al leer.
type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"product_name"`
	CategoryID        string          `json:"category_id"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode"`
	BuyingPrice       decimal.Decimal `json:"buying_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	Stock             int64           `json:"stock"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	LowStockWarning   string          `json:"low_stock_warning,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	ExpirationDate    string          `json:"expiration_date,omitempty"`
	ImageURL          string          `json:"image_url,omitempty"`
	Description       string          `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"date_created"`
	UpdatedAt         time.Time       `json:"date_updated"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
