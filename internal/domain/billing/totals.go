package billing

import (
	"strconv"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineInput datos de una línea necesarios para calcular totales.
type LineInput struct {
	Quantity        int64
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// LineTotals resultado por línea.
type LineTotals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal // gross − discount + tax
}

// Totals resultado de cabecera.
type Totals struct {
	Lines          []LineTotals
	Subtotal       decimal.Decimal // Σ gross
	DiscountAmount decimal.Decimal // descuentos de línea + descuento de cabecera
	TaxAmount      decimal.Decimal // impuestos de línea + impuesto de cabecera
	NetAmount      decimal.Decimal
}

// HeaderInput parámetros de cabecera que afectan el total.
type HeaderInput struct {
	Discount     decimal.Decimal
	DiscountType string // percentage | fixed
	TaxRate      decimal.Decimal
}

// ComputeLine calcula bruto, descuento e impuesto de una línea:
// gross = qty×price; discount = gross×disc%/100; tax = (gross−discount)×tax%/100.
func ComputeLine(l LineInput) LineTotals {
	gross := decimal.NewFromInt(l.Quantity).Mul(l.Price)
	disc := gross.Mul(l.DiscountPercent).Div(hundred)
	tax := gross.Sub(disc).Mul(l.TaxPercent).Div(hundred)
	return LineTotals{
		Gross:    gross.Round(2),
		Discount: disc.Round(2),
		Tax:      tax.Round(2),
		Total:    gross.Sub(disc).Add(tax).Round(2),
	}
}

// ComputeTotals aplica las reglas de líneas y luego el descuento y el impuesto de cabecera:
// el descuento (porcentaje o monto fijo) se aplica sobre el neto de líneas y el impuesto
// de cabecera sobre el monto ya descontado. Todo se redondea a 2 decimales.
func ComputeTotals(lines []LineInput, h HeaderInput) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, domain.NewValidationError("items", "la factura debe tener al menos una línea")
	}
	if err := validateHeader(h); err != nil {
		return Totals{}, err
	}
	var t Totals
	subtotal, lineDisc, lineTax, linesNet := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, domain.ErrInvalidQuantity
		}
		if l.Price.IsNegative() {
			return Totals{}, domain.NewValidationError("items", "el precio no puede ser negativo")
		}
		if l.DiscountPercent.IsNegative() || l.DiscountPercent.GreaterThan(hundred) || l.TaxPercent.IsNegative() {
			return Totals{}, domain.NewValidationError("items", "porcentaje de descuento o impuesto inválido en la línea "+strconv.Itoa(i+1))
		}
		lt := ComputeLine(l)
		t.Lines = append(t.Lines, lt)
		subtotal = subtotal.Add(lt.Gross)
		lineDisc = lineDisc.Add(lt.Discount)
		lineTax = lineTax.Add(lt.Tax)
		linesNet = linesNet.Add(lt.Total)
	}

	headerDisc := decimal.Zero
	switch h.DiscountType {
	case entity.DiscountTypeFixed:
		headerDisc = h.Discount
	default:
		headerDisc = linesNet.Mul(h.Discount).Div(hundred)
	}
	if headerDisc.GreaterThan(linesNet) {
		headerDisc = linesNet
	}
	discounted := linesNet.Sub(headerDisc)
	headerTax := discounted.Mul(h.TaxRate).Div(hundred)

	t.Subtotal = subtotal.Round(2)
	t.DiscountAmount = lineDisc.Add(headerDisc).Round(2)
	t.TaxAmount = lineTax.Add(headerTax).Round(2)
	t.NetAmount = discounted.Add(headerTax).Round(2)
	return t, nil
}

func validateHeader(h HeaderInput) error {
	switch h.DiscountType {
	case "", entity.DiscountTypePercentage:
		if h.Discount.IsNegative() || h.Discount.GreaterThan(hundred) {
			return domain.NewValidationError("discount", "el porcentaje de descuento debe estar entre 0 y 100")
		}
	case entity.DiscountTypeFixed:
		if h.Discount.IsNegative() {
			return domain.NewValidationError("discount", "el descuento no puede ser negativo")
		}
	default:
		return domain.NewValidationError("discount_type", "tipo de descuento desconocido")
	}
	if h.TaxRate.IsNegative() {
		return domain.NewValidationError("tax_rate", "la tasa de impuesto no puede ser negativa")
	}
	return nil
}

// PaymentStatus deriva el estado de pago: paid si paid ≥ net, partial si 0 < paid < net, unpaid si paid = 0.
func PaymentStatus(net, paid decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(net):
		return entity.PaymentStatusPaid
	case paid.IsPositive():
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusUnpaid
	}
}

// ValidatePaid exige 0 ≤ paid ≤ net.
func ValidatePaid(net, paid decimal.Decimal) error {
	if paid.IsNegative() || paid.GreaterThan(net) {
		return domain.NewValidationError("paid_amount", "el monto pagado debe estar entre 0 y el total neto")
	}
	return nil
}

// Remaining devuelve net − paid.
func Remaining(net, paid decimal.Decimal) decimal.Decimal {
	return net.Sub(paid).Round(2)
}

