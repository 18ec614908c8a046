package dto

import "time"

// CreateReportRequest body para POST /api/reports. Si no se envían ids, los enlaces
// se toman automáticamente según el tipo (inventario actual o transacciones del rango).
type CreateReportRequest struct {
	Title          string   `json:"title" validate:"max=100"`
	Type           string   `json:"report_type" validate:"required,oneof='Sales Report' 'Stock Report' 'Supplier Report' 'Inventory Audit' 'Profit & Loss'"`
	Format         string   `json:"format" validate:"required,oneof=CSV PDF Excel"`
	RangeStart     string   `json:"data_range_start" validate:"omitempty,datetime=2006-01-02"`
	RangeEnd       string   `json:"data_range_end" validate:"omitempty,datetime=2006-01-02"`
	InventoryIDs   []string `json:"inventory_ids"`
	TransactionIDs []string `json:"transaction_ids"`
}

// ReportResponse salida de un reporte.
type ReportResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Type           string    `json:"report_type"`
	Format         string    `json:"format"`
	UserID         string    `json:"user_id,omitempty"`
	RangeStart     string    `json:"data_range_start,omitempty"`
	RangeEnd       string    `json:"data_range_end,omitempty"`
	GeneratedAt    time.Time `json:"generated_date"`
	InventoryIDs   []string  `json:"inventory_ids"`
	TransactionIDs []string  `json:"transaction_ids"`
}

// ReportListResponse lista paginada de reportes.
type ReportListResponse struct {
	Items []ReportResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// RecentReportDTO resumen de reporte para el dashboard.
type RecentReportDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_date"`
}
