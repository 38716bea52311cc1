// Package pdf genera el resumen imprimible de una orden a proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proveedor            │  N° Orden + Fecha + Estado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cantidad                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGOS DE LA ORDEN: Instrucción | Fecha | Monto              │
//	│  ENTREGAS: Fecha + pagos de cada entrega                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Pagos / Entregas / Total / Costo unitario          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/inventario-admin/internal/application/supplier"
	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/inventory"
)

var _ supplier.OrderRenderer = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa supplier.OrderRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// SupplierOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) SupplierOrderPDF(order *entity.SupplierOrder, totals inventory.OrderTotals) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden a proveedor "+order.OrderNumber, true).
		WithAuthor(order.SupplierName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("PRODUCTOS"))
	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(order.OrderItems)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("PAGOS DE LA ORDEN"))
	m.AddRows(paymentRows(order.PaymentInstructions)...)

	for i, d := range order.Deliveries {
		m.AddRows(sectionTitle(fmt.Sprintf("ENTREGA %d  ·  %s", i+1, formatDate(d.DeliveryDate))))
		if d.Remarks != "" {
			m.AddRows(row.New(5).Add(col.New(12).Add(
				text.New(d.Remarks, props.Text{Size: 8, Color: colorGray, Left: 2}),
			)))
		}
		m.AddRows(paymentRows(d.PaymentInstructions)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(totals))

	if order.Remarks != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Observaciones: "+order.Remarks, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: proveedor (izq) y N° orden + fecha + estado (der).
func headerRow(order *entity.SupplierOrder) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(order.SupplierName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Proveedor", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ORDEN A PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(order.OrderNumber, "—"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+formatDate(order.OrderDate)+"   Estado: "+nonEmpty(order.OverallStatus, entity.OrderStatusPending), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Producto", 9, align.Left),
		h("Cantidad", 3, align.Right),
	)
}

func itemRows(items []entity.OrderItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("Producto #%d", it.ProductID)
		}
		out = append(out, row.New(6).Add(
			col.New(9).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func paymentRows(list []entity.PaymentInstruction) []core.Row {
	if len(list) == 0 {
		return []core.Row{row.New(5).Add(col.New(12).Add(
			text.New("Sin pagos registrados", props.Text{Size: 8, Color: colorGray, Left: 2}),
		))}
	}
	out := make([]core.Row, 0, len(list))
	for _, p := range list {
		out = append(out, row.New(6).Add(
			col.New(6).Add(text.New(nonEmpty(p.Instruction, "—"), props.Text{Size: 8, Top: 1, Left: 2})),
			col.New(3).Add(text.New(formatDate(p.PaymentDate), props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(3).Add(text.New(money(p.Amount.Decimal), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return out
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(t inventory.OrderTotals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(30).Add(
		col.New(4),
		col.New(4).Add(
			label("Pagos de la orden:"),
			label("Pagos de entregas:"),
			label("TOTAL:"),
			label("Cantidad total:"),
			label("Costo unitario:"),
		),
		col.New(4).Add(
			value(money(t.PaymentTotal)),
			value(money(t.DeliveryTotal)),
			value(money(t.OverallTotal)),
			value(t.TotalQuantity.String()),
			value(money(t.UnitCost)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(v datetime.Value) string {
	if !v.Valid {
		return "—"
	}
	return v.Time.Format("02/01/2006")
}

// money "$" + miles con punto + dos decimales con coma. Ej: 1234567.5 → "$1.234.567,50".
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + formatMoney(intPart) + "," + frac
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
