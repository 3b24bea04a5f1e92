// Package pdf genera la representación imprimible de los comprobantes de pago.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  COMPROBANTE DE PAGO        │  N° + Fecha      │
//	│  ───────────────────────────────────────────  │
//	│  Factura: tipo + número + fecha               │
//	│  TABLA: Concepto | Valor                      │
//	│  ───────────────────────────────────────────  │
//	│  QR con el ID del comprobante + leyenda       │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ ports.VoucherPDFRenderer = (*MarotoVoucherRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var billKindLabels = map[entity.BillKind]string{
	entity.BillKindSale:     "Venta",
	entity.BillKindPurchase: "Compra",
	entity.BillKindReturn:   "Devolución",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoVoucherRenderer implementa ports.VoucherPDFRenderer usando Maroto v2.
type MarotoVoucherRenderer struct {
	issuer  string
	printer *message.Printer
}

// NewMarotoVoucherRenderer construye el renderer. issuer es el nombre que encabeza el comprobante;
// tag fija el formato de los montos (separador de miles y decimales).
func NewMarotoVoucherRenderer(issuer string, tag language.Tag) *MarotoVoucherRenderer {
	return &MarotoVoucherRenderer{issuer: issuer, printer: message.NewPrinter(tag)}
}

// RenderVoucher genera el PDF y devuelve sus bytes. bill puede ser nil si la factura fue eliminada.
func (g *MarotoVoucherRenderer) RenderVoucher(v *entity.PaymentVoucher, bill *entity.Bill) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pago "+v.ID, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.billRow(v, bill))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range g.amountRows(v, bill) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(v))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoVoucherRenderer) headerRow(v *entity.PaymentVoucher) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1}),
			text.New("COMPROBANTE DE PAGO", props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(shortID(v.ID), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2}),
			text.New("Fecha: "+v.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoVoucherRenderer) billRow(v *entity.PaymentVoucher, bill *entity.Bill) core.Row {
	kind := billKindLabels[v.BillKind]
	detail := "Factura eliminada"
	if bill != nil {
		detail = "Fecha factura: " + bill.Date.Format("02/01/2006") + "   |   Estado: " + bill.PaymentStatus
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("FACTURA DE "+strings.ToUpper(kind)+" "+v.BillNumber, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
			}),
			text.New(detail, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func (g *MarotoVoucherRenderer) amountRows(v *entity.PaymentVoucher, bill *entity.Bill) []core.Row {
	entry := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(7).Add(
			col.New(7).Add(text.New(label, props.Text{Size: 9, Style: style, Top: 1, Left: 1})),
			col.New(5).Add(text.New(value, props.Text{Size: 9, Style: style, Align: align.Right, Top: 1, Right: 1})),
		)
	}
	rows := []core.Row{
		entry("Valor recibido", g.FormatMoney(v.Amount), true),
		entry("Medio de pago", nonEmpty(v.PaymentMethod, "—"), false),
	}
	if bill != nil {
		rows = append(rows,
			entry("Total factura", g.FormatMoney(bill.NetAmount), false),
			entry("Pagado a la fecha", g.FormatMoney(bill.PaidAmount), false),
			entry("Saldo pendiente", g.FormatMoney(bill.RemainingAmount), true),
		)
	}
	return rows
}

func footerRow(v *entity.PaymentVoucher) core.Row {
	return row.New(35).Add(
		col.New(4).Add(code.NewQr(v.ID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("ID: "+v.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Conserve este comprobante como soporte del pago.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// FormatMoney formatea el monto con dos decimales y los separadores del idioma del renderer.
func (g *MarotoVoucherRenderer) FormatMoney(d decimal.Decimal) string {
	return "$" + g.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return "N° " + id[:8]
	}
	return "N° " + id
}
