package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// LocationHandler maneja las ubicaciones de almacenamiento ("stocks").
type LocationHandler struct {
	uc    *usecase.LocationUseCase
	query *inventory.QueryUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase, query *inventory.QueryUseCase) *LocationHandler {
	return &LocationHandler{uc: uc, query: query}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "code, name, capacity (0 = ilimitada)"
// @Success      201   {object}  dto.Envelope{data=dto.LocationResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/stocks [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, "ubicación creada", out)
}

// List godoc
// @Summary      Listar ubicaciones
// @Description  Ubicaciones con su ocupación; se sirve desde caché cuando está vigente.
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.LocationResponse}
// @Router       /api/stocks [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	list, err := h.query.ListLocations(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", list)
}

// GetByID godoc
// @Summary      Obtener ubicación
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.Envelope{data=dto.LocationResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/stocks/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", out)
}

// Update godoc
// @Summary      Actualizar ubicación
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la ubicación"
// @Param        body  body  dto.UpdateLocationRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Envelope{data=dto.LocationResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/stocks/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "ubicación actualizada", out)
}

// SetMain godoc
// @Summary      Marcar ubicación principal
// @Description  Solo puede haber una ubicación principal; la anterior deja de serlo.
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.Envelope{data=dto.LocationResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/stocks/{id}/main [put]
func (h *LocationHandler) SetMain(c *fiber.Ctx) error {
	out, err := h.uc.SetMain(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "ubicación principal actualizada", out)
}

// Delete godoc
// @Summary      Eliminar ubicación
// @Description  No se puede eliminar la principal ni una ubicación con productos asignados o saldo.
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/stocks/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "ubicación eliminada", nil)
}

// Products godoc
// @Summary      Productos de una ubicación
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.Envelope{data=dto.LocationProductsResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/stocks/{id}/products [get]
func (h *LocationHandler) Products(c *fiber.Ctx) error {
	out, err := h.query.LocationProducts(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", out)
}
