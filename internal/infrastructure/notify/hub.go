package notify

import (
	"context"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Client lo que el hub necesita de una conexión; *websocket.Conn lo cumple.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const broadcastBuffer = 64

// Hub difunde mensajes a todos los clientes websocket conectados.
// Registro y baja son síncronos bajo mu; la difusión la hace un único goroutine (Run).
type Hub struct {
	mu        sync.Mutex
	clients   map[Client]struct{}
	stopped   bool
	broadcast chan []byte
	log       *logger.Logger
}

// NewHub construye el hub. Llamar Run en un goroutine.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:   make(map[Client]struct{}),
		broadcast: make(chan []byte, broadcastBuffer),
		log:       log,
	}
}

// Run difunde mensajes hasta que ctx termine; al salir cierra todos los clientes.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register agrega un cliente; al volver ya recibe las próximas difusiones.
// Si el hub ya se detuvo cierra el cliente.
func (h *Hub) Register(c Client) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		_ = c.Close()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("cliente ws conectado")
}

// Unregister quita y cierra un cliente. Es idempotente.
func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		_ = c.Close()
	}
}

// Publish encola un mensaje. Si el buffer está lleno el mensaje se descarta y devuelve false.
func (h *Hub) Publish(msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		h.log.Warn().Msg("buffer ws lleno, mensaje descartado")
		return false
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
