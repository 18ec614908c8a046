package entity

import "time"

// ReportType tipo de reporte generado.
type ReportType string

// Tipos de reporte.
const (
	ReportSales          ReportType = "Sales Report"
	ReportStock          ReportType = "Stock Report"
	ReportSupplier       ReportType = "Supplier Report"
	ReportInventoryAudit ReportType = "Inventory Audit"
	ReportProfitLoss     ReportType = "Profit & Loss"
)

// Valid indica si el tipo es conocido.
func (t ReportType) Valid() bool {
	switch t {
	case ReportSales, ReportStock, ReportSupplier, ReportInventoryAudit, ReportProfitLoss:
		return true
	}
	return false
}

// SnapshotsInventory los reportes de stock y auditoría enlazan filas de inventario.
func (t ReportType) SnapshotsInventory() bool {
	return t == ReportStock || t == ReportInventoryAudit
}

// SnapshotsTransactions los reportes de ventas y P&G enlazan transacciones.
func (t ReportType) SnapshotsTransactions() bool {
	return t == ReportSales || t == ReportProfitLoss
}

// ReportFormat formato del archivo (la generación del archivo es externa).
type ReportFormat string

// Formatos soportados.
const (
	ReportFormatCSV   ReportFormat = "CSV"
	ReportFormatPDF   ReportFormat = "PDF"
	ReportFormatExcel ReportFormat = "Excel"
)

// Valid indica si el formato es conocido.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatCSV || f == ReportFormatPDF || f == ReportFormatExcel
}

// Report metadatos de un reporte y sus enlaces a inventario/transacciones.
type Report struct {
	ID             string
	Title          string
	Type           ReportType
	Format         ReportFormat
	UserID         string
	RangeStart     *time.Time
	RangeEnd       *time.Time
	GeneratedAt    time.Time
	InventoryIDs   []string
	TransactionIDs []string
}

// DisplayTitle título o, si no hay, "tipo (formato)".
func (r *Report) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return string(r.Type) + " (" + string(r.Format) + ")"
}
