package dto

import "time"

// CreateWarehouseRequest body de POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Location string `json:"location" validate:"required,max=255"`
}

// UpdateWarehouseRequest body de PUT /api/warehouses/:id; los campos omitidos no cambian.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

// WarehouseResponse bodega tal como la ve el cliente.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
