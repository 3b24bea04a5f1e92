package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/billing"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CreateSaleBill crea una venta: descuenta inventario por cada línea y aumenta la deuda del cliente
// por el saldo pendiente.
func (o *Orchestrator) CreateSaleBill(ctx context.Context, userID string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	return o.createBill(ctx, userID, entity.BillKindSale, in)
}

// CreatePurchaseBill crea una compra: ingresa inventario (actualizando el costo promedio) y aumenta
// el saldo adeudado al proveedor.
func (o *Orchestrator) CreatePurchaseBill(ctx context.Context, userID string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	return o.createBill(ctx, userID, entity.BillKindPurchase, in)
}

// CreateReturnBill crea la devolución de una venta o compra: movimiento inverso al original,
// disminuye el saldo de la contraparte y actualiza el estado de la factura original.
func (o *Orchestrator) CreateReturnBill(ctx context.Context, userID string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	return o.createBill(ctx, userID, entity.BillKindReturn, in)
}

type createdBill struct {
	bill    *entity.Bill
	voucher *entity.PaymentVoucher
}

func (o *Orchestrator) createBill(ctx context.Context, userID string, kind entity.BillKind, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	if err := validateCreate(kind, in); err != nil {
		return nil, err
	}

	var out createdBill
	err := o.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		out, err = o.createBillInTx(ctx, repos, userID, kind, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	o.invalidator.Invalidate(ctx, createOp(out.bill))

	resp := dto.ToBillResponse(out.bill)
	if out.voucher != nil {
		resp.Vouchers = []dto.PaymentVoucherResponse{dto.ToVoucherResponse(out.voucher)}
	}
	return &resp, nil
}

// validateCreate valida la cabecera y las líneas antes de abrir la transacción.
func validateCreate(kind entity.BillKind, in dto.CreateBillRequest) error {
	h := in.BillData
	vErr := &domain.ValidationError{}
	switch kind {
	case entity.BillKindSale:
		if h.CustomerID == "" {
			vErr.Add("customer_id", "el cliente es obligatorio")
		}
	case entity.BillKindPurchase:
		if h.SupplierID == "" {
			vErr.Add("supplier_id", "el proveedor es obligatorio")
		}
	case entity.BillKindReturn:
		if h.OriginalBillID == "" {
			vErr.Add("original_bill_id", "la factura original es obligatoria")
		}
	}
	if len(in.Items) == 0 {
		vErr.Add("items", "la factura debe tener al menos una línea")
	}
	if h.PaidAmount.IsNegative() {
		vErr.Add("paid_amount", "el monto pagado no puede ser negativo")
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			vErr.Add(fmt.Sprintf("items[%d].product_id", i), "el producto es obligatorio")
		}
		if it.Price.IsNegative() {
			vErr.Add(fmt.Sprintf("items[%d].price", i), "el precio no puede ser negativo")
		}
	}
	if !vErr.Empty() {
		return vErr
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	}
	return nil
}

// createBillInTx ejecuta los pasos de la factura sobre la transacción del caller.
// Cualquier error deja la transacción para rollback: nada parcial queda visible.
func (o *Orchestrator) createBillInTx(ctx context.Context, repos repository.Repos, userID string, kind entity.BillKind, in dto.CreateBillRequest) (createdBill, error) {
	h := in.BillData
	now := o.now()

	// ── 1. Política por tipo y contraparte ────────────────────────────────────
	var (
		policy         billing.KindPolicy
		original       *entity.Bill
		counterpartyID string
	)
	switch kind {
	case entity.BillKindReturn:
		var err error
		original, err = repos.Bills.GetForUpdate(ctx, h.OriginalBillID)
		if err != nil {
			return createdBill{}, err
		}
		if original.Kind == entity.BillKindReturn {
			return createdBill{}, domain.NewValidationError("original_bill_id", "no se puede devolver una devolución")
		}
		if original.Status == entity.BillStatusCancelled {
			return createdBill{}, domain.ErrBillCancelled
		}
		if h.OriginalKind != "" && entity.BillKind(h.OriginalKind) != original.Kind {
			return createdBill{}, domain.NewValidationError("original_kind", "no coincide con el tipo de la factura original")
		}
		policy, _ = billing.ReturnPolicy(original.Kind)
		counterpartyID = original.CounterpartyID
	case entity.BillKindSale:
		policy, _ = billing.PolicyFor(kind)
		counterpartyID = h.CustomerID
	default:
		policy, _ = billing.PolicyFor(kind)
		counterpartyID = h.SupplierID
	}

	counterparty := counterpartyFor(policy.Counterparty, repos)
	if err := counterparty.Lock(ctx, counterpartyID); err != nil {
		return createdBill{}, err
	}
	cash := newCashRegister(repos, o.now)
	var moneyBoxID *string
	if in.MoneyBoxID != nil && *in.MoneyBoxID != "" {
		if err := cash.Lock(ctx, *in.MoneyBoxID); err != nil {
			return createdBill{}, err
		}
		id := *in.MoneyBoxID
		moneyBoxID = &id
	}

	// ── 2. Líneas y totales ───────────────────────────────────────────────────
	items, err := resolveItems(ctx, repos, kind, h, in.Items, original)
	if err != nil {
		return createdBill{}, err
	}
	lines := make([]billing.LineInput, 0, len(items))
	for _, it := range items {
		lines = append(lines, billing.LineInput{
			Quantity:        it.Quantity,
			Price:           it.Price,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
		})
	}
	totals, err := billing.ComputeTotals(lines, billing.HeaderInput{
		Discount:     h.Discount,
		DiscountType: h.DiscountType,
		TaxRate:      h.TaxRate,
	})
	if err != nil {
		return createdBill{}, err
	}
	if err := billing.ValidatePaid(totals.NetAmount, h.PaidAmount); err != nil {
		return createdBill{}, err
	}

	// ── 3. Cabecera y líneas ──────────────────────────────────────────────────
	number := h.Number
	if number == "" {
		n, err := repos.Bills.NextNumber(ctx, kind)
		if err != nil {
			return createdBill{}, err
		}
		number = fmt.Sprintf("%s%06d", policy.NumberPrefix, n)
	}
	date := now
	if h.Date != nil && !h.Date.IsZero() {
		date = *h.Date
	}
	method := h.PaymentMethod
	if method == "" {
		method = policy.DefaultPaymentMethod
	}
	discountType := h.DiscountType
	if discountType == "" {
		discountType = entity.DiscountTypePercentage
	}
	stockID := items[0].StockID
	if h.StockID != nil && *h.StockID != "" {
		stockID = *h.StockID
	}

	bill := &entity.Bill{
		ID:              uuid.New().String(),
		Kind:            kind,
		Number:          number,
		CounterpartyID:  counterpartyID,
		StockID:         stockID,
		Date:            date,
		DueDate:         h.DueDate,
		Discount:        h.Discount,
		DiscountType:    discountType,
		TaxRate:         h.TaxRate,
		Subtotal:        totals.Subtotal,
		DiscountAmount:  totals.DiscountAmount,
		TaxAmount:       totals.TaxAmount,
		NetAmount:       totals.NetAmount,
		PaidAmount:      h.PaidAmount,
		RemainingAmount: billing.Remaining(totals.NetAmount, h.PaidAmount),
		PaymentMethod:   method,
		PaymentStatus:   billing.PaymentStatus(totals.NetAmount, h.PaidAmount),
		Status:          entity.BillStatusCompleted,
		MoneyBoxID:      moneyBoxID,
		Notes:           h.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if original != nil {
		origID := original.ID
		bill.OriginalBillID = &origID
		bill.OriginalKind = original.Kind
	}
	if err := repos.Bills.Create(ctx, bill); err != nil {
		return createdBill{}, fmt.Errorf("crear factura: %w", err)
	}
	for i, it := range items {
		it.ID = uuid.New().String()
		it.BillID = bill.ID
		it.Total = totals.Lines[i].Total
		if err := repos.Bills.CreateItem(ctx, it); err != nil {
			return createdBill{}, fmt.Errorf("crear línea: %w", err)
		}
	}
	bill.Items = items

	// ── 4. Un movimiento por línea, referenciando la factura ─────────────────
	// Orden fijo (producto, ubicación) para que facturas concurrentes bloqueen filas en el mismo orden.
	for _, it := range lockOrder(items) {
		mv := inventory.MovementInput{
			MovementType:    policy.MovementType,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			ReferenceType:   policy.ReferenceType,
			ReferenceID:     bill.ID,
			ReferenceNumber: bill.Number,
			MovementDate:    bill.Date,
			UserID:          userID,
		}
		if policy.Direction == billing.DirectionOut {
			mv.FromStockID = it.StockID
		} else {
			mv.ToStockID = it.StockID
		}
		if kind == entity.BillKindPurchase {
			price := it.Price
			mv.UnitCost = &price
		}
		if _, err := o.ledger.RecordMovementInTx(ctx, repos, mv); err != nil {
			return createdBill{}, err
		}
	}

	// ── 5. Contraparte y caja ─────────────────────────────────────────────────
	if err := counterparty.Adjust(ctx, counterpartyID, bill.RemainingAmount.Mul(counterpartySign(bill))); err != nil {
		return createdBill{}, err
	}
	if moneyBoxID != nil {
		if err := cash.Record(ctx, CashEntry{
			MoneyBoxID:    *moneyBoxID,
			Direction:     policy.CashDirection,
			Amount:        bill.PaidAmount,
			ReferenceType: string(bill.Kind),
			ReferenceID:   bill.ID,
			Notes:         "Factura " + bill.Number,
			UserID:        userID,
		}); err != nil {
			return createdBill{}, err
		}
	}

	// ── 6. Comprobante opcional ───────────────────────────────────────────────
	out := createdBill{bill: bill}
	if h.CreateVoucher && bill.PaidAmount.IsPositive() {
		v, err := issueVoucher(ctx, repos, bill, bill.PaidAmount, method, userID, now)
		if err != nil {
			return createdBill{}, err
		}
		out.voucher = v
	}

	// ── 7. Estado de la factura original ──────────────────────────────────────
	if original != nil {
		if err := refreshReturnStatus(ctx, repos, original, now); err != nil {
			return createdBill{}, err
		}
	}
	return out, nil
}

// lockOrder devuelve las líneas ordenadas por producto y ubicación sin alterar el orden de la factura.
func lockOrder(items []*entity.BillItem) []*entity.BillItem {
	sorted := append([]*entity.BillItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].StockID < sorted[j].StockID
	})
	return sorted
}

// resolveItems arma las líneas con su ubicación. Para ventas y compras la ubicación se toma de
// la línea, luego de la cabecera, luego de la ubicación asignada al producto y por último de la
// principal. Las devoluciones heredan precio, descuento e impuesto de la línea original y
// validan la cantidad retornable.
func resolveItems(
	ctx context.Context,
	repos repository.Repos,
	kind entity.BillKind,
	h dto.BillDataRequest,
	reqItems []dto.BillItemRequest,
	original *entity.Bill,
) ([]*entity.BillItem, error) {
	headerStock := ""
	if h.StockID != nil {
		headerStock = *h.StockID
	}

	var returned map[string]int64
	if original != nil {
		var err error
		returned, err = repos.Bills.ReturnedQuantities(ctx, original.ID)
		if err != nil {
			return nil, err
		}
	}

	items := make([]*entity.BillItem, 0, len(reqItems))
	var mainStock string
	for i, r := range reqItems {
		product, err := repos.Products.GetByID(ctx, r.ProductID)
		if err != nil {
			return nil, err
		}
		it := &entity.BillItem{
			ProductID:       r.ProductID,
			Quantity:        r.Quantity,
			Price:           r.Price,
			DiscountPercent: r.DiscountPercent,
			TaxPercent:      r.TaxPercent,
		}
		if r.StockID != nil {
			it.StockID = *r.StockID
		}

		if kind == entity.BillKindReturn {
			orig, err := originalLine(original, r, returned)
			if err != nil {
				return nil, err
			}
			already := returned[orig.ID]
			if r.Quantity > orig.Quantity-already {
				return nil, &domain.ReturnExceedsError{
					ProductID:       r.ProductID,
					ItemID:          orig.ID,
					Original:        orig.Quantity,
					AlreadyReturned: already,
					Requested:       r.Quantity,
				}
			}
			returned[orig.ID] = already + r.Quantity
			origID := orig.ID
			it.OriginalItemID = &origID
			it.Price = orig.Price
			it.DiscountPercent = orig.DiscountPercent
			it.TaxPercent = orig.TaxPercent
			if it.StockID == "" {
				it.StockID = headerStock
			}
			if it.StockID == "" {
				it.StockID = orig.StockID
			}
			items = append(items, it)
			continue
		}

		if it.Price.IsZero() {
			if kind == entity.BillKindSale {
				it.Price = product.Price
			} else {
				it.Price = product.Cost
			}
		}
		if !it.Price.IsPositive() {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].price", i),
				"el precio debe ser mayor que cero y el producto no tiene uno definido")
		}
		if it.StockID == "" {
			it.StockID = headerStock
		}
		if it.StockID == "" {
			it.StockID = product.AssignedStock()
		}
		if it.StockID == "" {
			if mainStock == "" {
				main, err := repos.Locations.GetMain(ctx)
				if err != nil {
					return nil, fmt.Errorf("%w: no hay ubicación para el producto %s", err, product.ID)
				}
				mainStock = main.ID
			}
			it.StockID = mainStock
		}
		items = append(items, it)
	}
	return items, nil
}

// originalLine ubica la línea original que se devuelve: por original_item_id o, si no viene,
// la primera línea del mismo producto con cantidad retornable.
func originalLine(original *entity.Bill, r dto.BillItemRequest, returned map[string]int64) (*entity.BillItem, error) {
	if r.OriginalItemID != nil && *r.OriginalItemID != "" {
		for _, it := range original.Items {
			if it.ID == *r.OriginalItemID {
				if it.ProductID != r.ProductID {
					return nil, domain.NewValidationError("original_item_id", "la línea original es de otro producto")
				}
				return it, nil
			}
		}
		return nil, domain.NewValidationError("original_item_id", "la línea no pertenece a la factura original")
	}
	var candidate *entity.BillItem
	for _, it := range original.Items {
		if it.ProductID != r.ProductID {
			continue
		}
		if candidate == nil {
			candidate = it
		}
		if it.Quantity-returned[it.ID] >= r.Quantity {
			return it, nil
		}
	}
	if candidate == nil {
		return nil, domain.NewValidationError("product_id", "el producto no está en la factura original")
	}
	return candidate, nil
}

// refreshReturnStatus recalcula el estado de la factura original a partir de lo devuelto:
// returned si todas las líneas se devolvieron completas, partially_returned si algo se devolvió.
func refreshReturnStatus(ctx context.Context, repos repository.Repos, original *entity.Bill, now time.Time) error {
	returned, err := repos.Bills.ReturnedQuantities(ctx, original.ID)
	if err != nil {
		return err
	}
	some, full := false, true
	for _, it := range original.Items {
		q := returned[it.ID]
		if q > 0 {
			some = true
		}
		if q < it.Quantity {
			full = false
		}
	}
	switch {
	case some && full:
		original.Status = entity.BillStatusReturned
	case some:
		original.Status = entity.BillStatusPartiallyReturned
	default:
		original.Status = entity.BillStatusCompleted
	}
	original.UpdatedAt = now
	return repos.Bills.Update(ctx, original)
}
