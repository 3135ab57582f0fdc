// Package pdf genera el kardex (historial de movimientos) de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + SKU          │  KARDEX + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: stock actual / mínimo / estado                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cant | Anterior → Nuevo | Motivo | Usuario │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de movimientos y leyenda                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	appinventory "github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.MovementPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateMovementReport genera el PDF y devuelve sus bytes. lines viene del más reciente al más antiguo.
func (g *MarotoPDFGenerator) GenerateMovementReport(
	_ context.Context,
	product *entity.Product,
	lines []appinventory.MovementLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableMovementRows(lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(lines)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(product *entity.Product, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+product.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func productRow(product *entity.Product) core.Row {
	status := "Activo"
	if !product.IsActive() {
		status = "Inactivo"
	}
	stockColor := colorGray
	if inventory.IsLowStock(product) {
		stockColor = colorRed
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Stock actual: %d %s   |   Mínimo: %d   |   Estado: %s",
				product.CurrentStock, nonEmpty(product.UnitMeasure, "und"), product.MinStock, status,
			), props.Text{Size: 8, Top: 7, Color: stockColor}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Anterior -> Nuevo", 2, align.Center),
		h("Motivo", 4, align.Left),
		h("Usuario", 2, align.Left),
	)
}

// tableMovementRows: una fila por movimiento.
func tableMovementRows(lines []appinventory.MovementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		mv := l.Movement
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				mv.CreatedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 7, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				kindLabel(mv.Kind),
				props.Text{Size: 7, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				signed(mv.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d -> %d", mv.PreviousStock, mv.NewStock),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				mv.Reason,
				props.Text{Size: 7, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.ActorName,
				props.Text{Size: 7, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

func footerRow(total int) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Movimientos listados: %d. El historial es inmutable; las correcciones se registran como movimientos nuevos.", total),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func kindLabel(k entity.MovementKind) string {
	switch k {
	case entity.MovementKindIn:
		return "Entrada"
	case entity.MovementKindOut:
		return "Salida"
	default:
		return "Ajuste"
	}
}

// signed antepone "+" a las cantidades positivas.
func signed(q int64) string {
	if q > 0 {
		return "+" + strconv.FormatInt(q, 10)
	}
	return strconv.FormatInt(q, 10)
}
