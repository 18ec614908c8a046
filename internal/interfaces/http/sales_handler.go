package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// SalesHandler consulta los acumulados de venta por producto.
type SalesHandler struct {
	uc  *usecase.SalesRecordUseCase
	log *logger.Logger
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *usecase.SalesRecordUseCase, log *logger.Logger) *SalesHandler {
	return &SalesHandler{uc: uc, log: log}
}

// List GET /api/sales?limit=20&offset=0
func (h *SalesHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByProduct GET /api/sales/:product_id
func (h *SalesHandler) GetByProduct(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	if productID == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByProduct(c.UserContext(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
