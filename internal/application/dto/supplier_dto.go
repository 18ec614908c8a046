package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name          string           `json:"supplier_name" validate:"required,min=1,max=100"`
	ContactPerson string           `json:"contact_person" validate:"max=50"`
	Phone         string           `json:"phone_number" validate:"required,min=5,max=15"`
	Email         string           `json:"email" validate:"required,email"`
	Address       string           `json:"address"`
	Website       string           `json:"website" validate:"omitempty,max=255"`
	PaymentTerms  string           `json:"payment_terms" validate:"max=100"`
	Rating        *decimal.Decimal `json:"supplier_rating"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	Name          *string          `json:"supplier_name" validate:"omitempty,min=1,max=100"`
	ContactPerson *string          `json:"contact_person" validate:"omitempty,max=50"`
	Phone         *string          `json:"phone_number" validate:"omitempty,min=5,max=15"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Address       *string          `json:"address"`
	Website       *string          `json:"website" validate:"omitempty,max=255"`
	PaymentTerms  *string          `json:"payment_terms" validate:"omitempty,max=100"`
	Rating        *decimal.Decimal `json:"supplier_rating"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"supplier_name"`
	ContactPerson string          `json:"contact_person"`
	Phone         string          `json:"phone_number"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	Website       string          `json:"website"`
	PaymentTerms  string          `json:"payment_terms"`
	Rating        decimal.Decimal `json:"supplier_rating"`
	CreatedAt     time.Time       `json:"date_created"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
