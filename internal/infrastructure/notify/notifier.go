// Package notify entrega las señales del motor de inventario (stock bajo y cambios
// de stock) al log y a los clientes websocket.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var (
	_ inventory.Notifier = (*LogNotifier)(nil)
	_ inventory.Notifier = (*HubNotifier)(nil)
	_ inventory.Notifier = Fanout(nil)
)

// Tipos de evento en el feed websocket.
const (
	EventLowStock     = "low_stock"
	EventStockChanged = "stock_changed"
)

// Envelope mensaje JSON enviado por /ws.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// LogNotifier registra las alertas con zerolog.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

func (n *LogNotifier) LowStock(_ context.Context, a inventory.LowStockAlert) error {
	n.log.Warn().
		Str("product_id", a.ProductID).
		Str("warehouse_id", a.WarehouseID).
		Int64("quantity", a.Quantity).
		Int64("threshold", a.Threshold).
		Int64("stock", a.Stock).
		Msg(a.Message)
	return nil
}

func (n *LogNotifier) StockChanged(_ context.Context, e inventory.StockEvent) error {
	n.log.Debug().
		Str("transaction_id", e.TransactionID).
		Str("product_id", e.ProductID).
		Str("type", e.Type).
		Int64("stock", e.Stock).
		Msg("stock actualizado")
	return nil
}

// HubNotifier publica las señales como JSON en el hub websocket.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier construye el notificador websocket.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) LowStock(_ context.Context, a inventory.LowStockAlert) error {
	return n.publish(EventLowStock, a)
}

func (n *HubNotifier) StockChanged(_ context.Context, e inventory.StockEvent) error {
	return n.publish(EventStockChanged, e)
}

func (n *HubNotifier) publish(kind string, data interface{}) error {
	msg, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		return fmt.Errorf("serializar %s: %w", kind, err)
	}
	if !n.hub.Publish(msg) {
		return fmt.Errorf("publicar %s: buffer lleno", kind)
	}
	return nil
}

// Fanout entrega cada señal a todos los notificadores y une los errores.
type Fanout []inventory.Notifier

func (f Fanout) LowStock(ctx context.Context, a inventory.LowStockAlert) error {
	var errs []error
	for _, n := range f {
		if err := n.LowStock(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) StockChanged(ctx context.Context, e inventory.StockEvent) error {
	var errs []error
	for _, n := range f {
		if err := n.StockChanged(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
