package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Warehouse bodega física. No guarda stock: las cantidades viven en sus filas Inventory.
type Warehouse struct {
	ID        string
	Name      string // único, sin distinguir mayúsculas
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Normalize recorta espacios de nombre y ubicación.
func (w *Warehouse) Normalize() {
	w.Name = strings.TrimSpace(w.Name)
	w.Location = strings.TrimSpace(w.Location)
}

// Validate exige nombre y ubicación no vacíos.
func (w *Warehouse) Validate() error {
	if w.Name == "" {
		return domain.NewValidationError("name", "es requerido")
	}
	if w.Location == "" {
		return domain.NewValidationError("location", "es requerida")
	}
	return nil
}
