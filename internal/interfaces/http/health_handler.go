package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger lo cumple *pgxpool.Pool. Nil cuando el almacenamiento es en memoria.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler GET /health (público).
type HealthHandler struct {
	db      Pinger
	storage string
}

// NewHealthHandler construye el handler.
func NewHealthHandler(db Pinger, storage string) *HealthHandler {
	return &HealthHandler{db: db, storage: storage}
}

// Check godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "storage": h.storage})
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "storage": h.storage})
}
