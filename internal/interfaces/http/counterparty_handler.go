package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// CounterpartyHandler maneja clientes y proveedores.
type CounterpartyHandler struct {
	uc *billing.CounterpartyUseCase
}

// NewCounterpartyHandler construye el handler.
func NewCounterpartyHandler(uc *billing.CounterpartyUseCase) *CounterpartyHandler {
	return &CounterpartyHandler{uc: uc}
}

// CreateCustomer godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCounterpartyRequest  true  "name, phone"
// @Success      201   {object}  dto.Envelope{data=dto.CustomerResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/customers [post]
func (h *CounterpartyHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.CreateCounterpartyRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.CreateCustomer(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, "cliente creado", out)
}

// GetCustomer godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.Envelope{data=dto.CustomerResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/customers/{id} [get]
func (h *CounterpartyHandler) GetCustomer(c *fiber.Ctx) error {
	out, err := h.uc.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", out)
}

// ListCustomers godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (desde 1)"
// @Param        limit  query  int  false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.Envelope{data=[]dto.CustomerResponse}
// @Router       /api/customers [get]
func (h *CounterpartyHandler) ListCustomers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if !bindQuery(c, &page) {
		return nil
	}
	list, p, err := h.uc.ListCustomers(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, list, p)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCounterpartyRequest  true  "name, phone"
// @Success      201   {object}  dto.Envelope{data=dto.SupplierResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/suppliers [post]
func (h *CounterpartyHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateCounterpartyRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.CreateSupplier(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, "proveedor creado", out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.Envelope{data=dto.SupplierResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/suppliers/{id} [get]
func (h *CounterpartyHandler) GetSupplier(c *fiber.Ctx) error {
	out, err := h.uc.GetSupplier(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", out)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (desde 1)"
// @Param        limit  query  int  false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.Envelope{data=[]dto.SupplierResponse}
// @Router       /api/suppliers [get]
func (h *CounterpartyHandler) ListSuppliers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if !bindQuery(c, &page) {
		return nil
	}
	list, p, err := h.uc.ListSuppliers(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, list, p)
}
