package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (gte=0, lte=100).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Los errores se reportan con el nombre json/query del campo.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// bindAndValidate parsea el cuerpo JSON y aplica las etiquetas validate.
// Si devuelve false la respuesta 400 ya fue escrita.
func bindAndValidate(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
		return false
	}
	return validateStruct(c, req)
}

// bindQuery parsea los parámetros de consulta y aplica las etiquetas validate.
func bindQuery(c *fiber.Ctx, req interface{}) bool {
	if err := c.QueryParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{Code: "INVALID_QUERY", Message: "parámetros inválidos: " + err.Error()})
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *fiber.Ctx, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{Code: "VALIDATION", Message: err.Error()})
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	_ = c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{Code: "VALIDATION", Message: "datos inválidos", Errors: fields})
	return false
}

// fieldPath quita el nombre del struct raíz: "CreateBillRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
