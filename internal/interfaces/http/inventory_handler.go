package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del ledger de movimientos y la reposición.
type InventoryHandler struct {
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, replenishment: replenishment}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Inserta un movimiento en el ledger y actualiza los saldos por ubicación en la misma transacción.
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "movement_type, product_id, quantity, from_stock_id / to_stock_id"
// @Success      201   {object}  dto.Envelope{data=dto.RecordMovementResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/stock-movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.ledger.RecordMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, "movimiento registrado", out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Historial del ledger, más reciente primero.
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        movement_type  query  string  false  "purchase, sale, adjustment, return, transfer, initial"
// @Param        from_stock_id  query  string  false  "Ubicación origen"
// @Param        to_stock_id    query  string  false  "Ubicación destino"
// @Param        product_id     query  string  false  "Producto"
// @Param        page           query  int     false  "Página (desde 1)"
// @Param        limit          query  int     false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.Envelope{data=[]dto.MovementResponse}
// @Failure      400  {object}  dto.Envelope
// @Router       /api/stock-movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if !bindQuery(c, &in) {
		return nil
	}
	list, page, err := h.ledger.ListMovementsFromRequest(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, list, page)
}

// ReverseMovement godoc
// @Summary      Revertir movimiento
// @Description  Registra el movimiento inverso; el original no se modifica. Cada movimiento se revierte una sola vez.
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del movimiento"
// @Param        body  body  dto.ReverseMovementRequest  false  "notes"
// @Success      201   {object}  dto.Envelope{data=dto.RecordMovementResponse}
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/stock-movements/{id}/reverse [post]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	var in dto.ReverseMovementRequest
	if len(c.Body()) > 0 && !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.ledger.ReverseFromRequest(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, "movimiento revertido", out)
}

// CurrentStock godoc
// @Summary      Stock actual
// @Description  Saldo de un producto en una ubicación; sin stock_id usa la ubicación asignada del producto.
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Producto"
// @Param        stock_id    query  string  false  "Ubicación"
// @Success      200  {object}  dto.Envelope{data=dto.CurrentStockResponse}
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/stock-movements/current [get]
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return respondError(c, domain.NewValidationError("product_id", "required"))
	}
	stockID := c.Query("stock_id")
	qty, err := h.ledger.CurrentStock(c.UserContext(), productID, stockID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", dto.CurrentStockResponse{ProductID: productID, StockID: stockID, Quantity: qty})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos por debajo de su stock mínimo con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        stock_id  query  string  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {object}  dto.Envelope{data=[]dto.LowStockItemDTO}
// @Failure      500  {object}  dto.Envelope
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("stock_id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", list)
}
