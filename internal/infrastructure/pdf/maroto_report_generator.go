// Package pdf implementa el reporte de trazabilidad de un producto: ficha
// del producto, timeline completo y movimientos del ledger, en A4.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + N° rastreo  │  Estado + Fecha              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FICHA: categoría / cantidad / precio / ubicación / dueño    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TIMELINE: fecha | estado | ubicación | responsable          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LEDGER: id | de → para | cant | monto | estado              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/tu-usuario/cadena-pro/internal/application/usecase"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implementa usecase.TrackingReportGenerator usando
// Maroto v2.
type MarotoReportGenerator struct{}

var _ usecase.TrackingReportGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateTrackingReport genera el PDF y devuelve sus bytes. names mapea
// id de usuario → nombre legible; los ids sin nombre se imprimen tal cual.
func (g *MarotoReportGenerator) GenerateTrackingReport(
	_ context.Context,
	product *entity.Product,
	transactions []*entity.Transaction,
	names map[string]string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Trazabilidad", true).
		Build()

	m := maroto.New(cfg)

	display := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	m.AddRows(headerRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(product, display))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitleRow("HISTORIAL DEL PRODUCTO"))
	m.AddRows(timelineHeaderRow())
	for _, r := range timelineRows(product, display) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitleRow("MOVIMIENTOS DEL LEDGER"))
	m.AddRows(ledgerHeaderRow())
	for _, r := range ledgerRows(transactions, display) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre + número de rastreo (izq), estado + fecha (der).
func headerRow(p *entity.Product) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° rastreo: "+p.TrackingNumber, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE TRAZABILIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+string(p.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+p.UpdatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRow: ficha resumida del producto.
func summaryRow(p *entity.Product, display func(string) string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("FICHA DEL PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Categoría: %s   |   Cantidad: %d   |   Precio: $%s",
				p.Category, p.Quantity, p.Price.StringFixed(2),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
			text.New(fmt.Sprintf("Ubicación: %s   |   Dueño actual: %s",
				p.CurrentLocation, display(p.CurrentOwnerID),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		})),
	)
}

func timelineHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Fecha", 2, align.Left),
		h("Estado", 2, align.Left),
		h("Ubicación", 4, align.Left),
		h("Responsable", 4, align.Left),
	)
}

// timelineRows: una fila por entrada del timeline, en orden cronológico.
func timelineRows(p *entity.Product, display func(string) string) []core.Row {
	result := make([]core.Row, 0, len(p.Timeline))
	for _, e := range p.Timeline {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(e.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(string(e.Status), props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(e.Location, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(display(e.HandlerID), props.Text{Size: 8, Top: 1})),
		))
	}
	return result
}

func ledgerHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Transacción", 3, align.Left),
		h("De → Para", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Monto", 2, align.Right),
		h("Estado", 2, align.Right),
	)
}

// ledgerRows: una fila por transacción del ledger.
func ledgerRows(transactions []*entity.Transaction, display func(string) string) []core.Row {
	result := make([]core.Row, 0, len(transactions))
	for _, t := range transactions {
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(t.ID, props.Text{Size: 7, Top: 1})),
			col.New(4).Add(text.New(
				display(t.FromUserID)+" → "+display(t.ToUserID),
				props.Text{Size: 8, Top: 1},
			)),
			col.New(1).Add(text.New(fmt.Sprintf("%d", t.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+t.TotalAmount.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(string(t.Status), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return result
}
