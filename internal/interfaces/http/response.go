package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// errorCodes código estable por sentinela; el primero que coincide gana.
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{domain.ErrCapacityExceeded, "CAPACITY_EXCEEDED"},
	{domain.ErrReturnExceedsOriginal, "RETURN_EXCEEDS_ORIGINAL"},
	{domain.ErrAlreadyReversed, "ALREADY_REVERSED"},
	{domain.ErrBillHasReturns, "BILL_HAS_RETURNS"},
	{domain.ErrBillCancelled, "BILL_CANCELLED"},
	{domain.ErrMainLocation, "MAIN_LOCATION"},
	{domain.ErrLocationInUse, "LOCATION_IN_USE"},
	{domain.ErrLocationInactive, "LOCATION_INACTIVE"},
	{domain.ErrDuplicate, "DUPLICATE"},
}

var kindStatus = map[domain.ErrorKind]struct {
	status int
	code   string
}{
	domain.KindValidation:   {fiber.StatusBadRequest, "VALIDATION"},
	domain.KindNotFound:     {fiber.StatusNotFound, "NOT_FOUND"},
	domain.KindConflict:     {fiber.StatusConflict, "CONFLICT"},
	domain.KindConstraint:   {fiber.StatusBadRequest, "CONSTRAINT"},
	domain.KindUnauthorized: {fiber.StatusUnauthorized, "UNAUTHORIZED"},
	domain.KindForbidden:    {fiber.StatusForbidden, "FORBIDDEN"},
}

// respondError traduce un error de la aplicación al sobre {success:false, code, message, errors}.
// Los errores internos se registran y no exponen detalle al cliente.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	m, ok := kindStatus[kind]
	if !ok {
		requestLogger(c).Error().Err(err).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Envelope{Code: "INTERNAL", Message: "error interno del servidor"})
	}

	body := dto.Envelope{Code: m.code, Message: err.Error()}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			body.Code = ec.code
			break
		}
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		body.Message = "datos inválidos"
		body.Errors = vErr.Fields
	}
	return c.Status(m.status).JSON(body)
}

func respondOK(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Envelope{Success: true, Message: message, Data: data})
}

func respondPage(c *fiber.Ctx, data any, p dto.Pagination) error {
	return c.JSON(dto.Envelope{Success: true, Data: data, Pagination: &p})
}
