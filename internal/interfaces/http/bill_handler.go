package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// BillHandler maneja las facturas de venta, compra y devolución.
type BillHandler struct {
	orchestrator *billing.Orchestrator
	vouchers     *billing.VoucherUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(orchestrator *billing.Orchestrator, vouchers *billing.VoucherUseCase) *BillHandler {
	return &BillHandler{orchestrator: orchestrator, vouchers: vouchers}
}

// CreateSale godoc
// @Summary      Crear factura de venta
// @Description  Crea cabecera, líneas y movimientos de salida, ajusta la deuda del cliente y la caja en una sola transacción.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "billData, items, moneyBoxId"
// @Success      201   {object}  dto.Envelope{data=dto.BillResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/bills/sale [post]
func (h *BillHandler) CreateSale(c *fiber.Ctx) error {
	return h.create(c, h.orchestrator.CreateSaleBill)
}

// CreatePurchase godoc
// @Summary      Crear factura de compra
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "billData, items, moneyBoxId"
// @Success      201   {object}  dto.Envelope{data=dto.BillResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/bills/purchase [post]
func (h *BillHandler) CreatePurchase(c *fiber.Ctx) error {
	return h.create(c, h.orchestrator.CreatePurchaseBill)
}

// CreateReturn godoc
// @Summary      Crear factura de devolución
// @Description  Devuelve líneas de una venta o compra; la cantidad no puede superar lo facturado menos lo ya devuelto.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "billData.original_bill_id, billData.original_kind, items[].original_item_id"
// @Success      201   {object}  dto.Envelope{data=dto.BillResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/bills/return [post]
func (h *BillHandler) CreateReturn(c *fiber.Ctx) error {
	return h.create(c, h.orchestrator.CreateReturnBill)
}

type createBillFunc func(ctx context.Context, userID string, in dto.CreateBillRequest) (*dto.BillResponse, error)

func (h *BillHandler) create(c *fiber.Ctx, fn createBillFunc) error {
	var in dto.CreateBillRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	bill, err := fn(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, "factura creada", bill)
}

// List godoc
// @Summary      Listar facturas
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        kind             path   string  true   "sale, purchase o return"
// @Param        counterparty_id  query  string  false  "Cliente o proveedor"
// @Param        page             query  int     false  "Página (desde 1)"
// @Param        limit            query  int     false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.Envelope{data=[]dto.BillResponse}
// @Failure      400  {object}  dto.Envelope
// @Router       /api/bills/{kind} [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	kind, err := billing.ParseKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	var in dto.BillListRequest
	if !bindQuery(c, &in) {
		return nil
	}
	list, page, err := h.orchestrator.ListBills(c.UserContext(), kind, in)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, list, page)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "sale, purchase o return"
// @Param        id    path  string  true  "ID de la factura"
// @Success      200  {object}  dto.Envelope{data=dto.BillResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/bills/{kind}/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	kind, err := billing.ParseKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	bill, err := h.orchestrator.GetBill(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", bill)
}

// UpdatePayment godoc
// @Summary      Actualizar pago
// @Description  Fija el monto pagado; la diferencia con el pago anterior se aplica a la caja y al saldo de la contraparte.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string                    true  "sale, purchase o return"
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.UpdatePaymentRequest  true  "paid_amount, payment_method, create_voucher"
// @Success      200   {object}  dto.Envelope{data=dto.BillResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/bills/{kind}/{id}/payment [put]
func (h *BillHandler) UpdatePayment(c *fiber.Ctx) error {
	kind, err := billing.ParseKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdatePaymentRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	bill, err := h.orchestrator.UpdatePaymentStatus(c.UserContext(), GetUserID(c), kind, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "pago actualizado", bill)
}

// Delete godoc
// @Summary      Eliminar factura
// @Description  Revierte sus movimientos de stock y los efectos de pago; falla si la factura tiene devoluciones.
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "sale, purchase o return"
// @Param        id    path  string  true  "ID de la factura"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/bills/{kind}/{id} [delete]
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	kind, err := billing.ParseKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.orchestrator.DeleteBill(c.UserContext(), GetUserID(c), kind, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "factura eliminada", nil)
}

// ListVouchers godoc
// @Summary      Comprobantes de una factura
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "sale, purchase o return"
// @Param        id    path  string  true  "ID de la factura"
// @Success      200  {object}  dto.Envelope{data=[]dto.PaymentVoucherResponse}
// @Router       /api/bills/{kind}/{id}/vouchers [get]
func (h *BillHandler) ListVouchers(c *fiber.Ctx) error {
	if _, err := billing.ParseKind(c.Params("kind")); err != nil {
		return respondError(c, err)
	}
	list, err := h.vouchers.ListByBill(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", list)
}

// GetVoucher godoc
// @Summary      Obtener comprobante de pago
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.Envelope{data=dto.PaymentVoucherResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/vouchers/{id} [get]
func (h *BillHandler) GetVoucher(c *fiber.Ctx) error {
	v, err := h.vouchers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, "", v)
}

// DownloadVoucherPDF godoc
// @Summary      Descargar comprobante en PDF
// @Tags         vouchers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.Envelope
// @Router       /api/vouchers/{id}/pdf [get]
func (h *BillHandler) DownloadVoucherPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.vouchers.DownloadVoucherPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
