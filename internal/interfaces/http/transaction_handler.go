package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// TransactionHandler registra y consulta transacciones de stock.
type TransactionHandler struct {
	record *inventory.RecordTransactionUseCase
	uc     *usecase.TransactionUseCase
	log    *logger.Logger
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(record *inventory.RecordTransactionUseCase, uc *usecase.TransactionUseCase, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{record: record, uc: uc, log: log}
}

// Record godoc
// @Summary      Registrar transacción de stock
// @Description  Sale, Damaged y Expired descuentan stock; Purchase y Return lo suman; Transfer mueve entre bodegas.
// @Description  Si no se indica warehouse_id se usa la bodega por defecto configurada.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "Transacción"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Failure      422   {object}  dto.ErrorResponse  "Sin bodega disponible"
// @Router       /api/transactions [post]
func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	tx, err := h.record.RecordFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.TransactionToResponse(tx))
}

// GetByID GET /api/transactions/:id
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List GET /api/transactions?transaction_type=Sale&product_id=...&limit=20&offset=0
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("transaction_type"), c.Query("product_id"), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PUT /api/transactions/:id. Solo status y batch_number; no afecta stock.
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateTransactionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar transacción
// @Description  Borra el registro del evento sin revertir el stock. Solo Admin o Manager.
// @Tags         transactions
// @Security     Bearer
// @Param        id   path  string  true  "ID de la transacción"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
