package entity

import "time"

// Inventory es la fila autoritativa de stock físico de un producto en una bodega.
// IncomingStock y OutgoingStock son deltas transitorios: se aplican sobre Quantity
// en la misma actualización y vuelven a 0 (ver domain/inventory.ApplyDelta).
type Inventory struct {
	ID             string
	ProductID      string
	WarehouseID    string
	Quantity       int64
	IncomingStock  int64
	OutgoingStock  int64
	BatchNumber    string
	LastStockCheck time.Time
	LastUpdated    time.Time
}
