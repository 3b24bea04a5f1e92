package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// MoneyBoxHandler maneja las cajas y su historial de transacciones.
type MoneyBoxHandler struct {
	uc *billing.MoneyBoxUseCase
}

// NewMoneyBoxHandler construye el handler.
func NewMoneyBoxHandler(uc *billing.MoneyBoxUseCase) *MoneyBoxHandler {
	return &MoneyBoxHandler{uc: uc}
}

// Create godoc
// @Summary      Crear caja
// @Description  Un saldo inicial positivo se registra como transacción de apertura.
// @Tags         money-boxes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMoneyBoxRequest  true  "name, opening_balance"
// @Success      201   {object}  dto.Envelope{data=dto.MoneyBoxResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/money-boxes [post]
func (h *MoneyBoxHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMoneyBoxRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, "caja creada", out)
}

// List godoc
// @Summary      Listar cajas
// @Tags         money-boxes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.MoneyBoxResponse}
// @Router       /api/money-boxes [get]
func (h *MoneyBoxHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", list)
}

// GetByID godoc
// @Summary      Obtener caja
// @Tags         money-boxes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la caja"
// @Success      200  {object}  dto.Envelope{data=dto.MoneyBoxResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/money-boxes/{id} [get]
func (h *MoneyBoxHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", out)
}

// Transactions godoc
// @Summary      Transacciones de una caja
// @Tags         money-boxes
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la caja"
// @Param        page   query  int     false  "Página (desde 1)"
// @Param        limit  query  int     false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.Envelope{data=[]dto.CashTransactionResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/money-boxes/{id}/transactions [get]
func (h *MoneyBoxHandler) Transactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if !bindQuery(c, &page) {
		return nil
	}
	list, p, err := h.uc.ListTransactions(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, list, p)
}
