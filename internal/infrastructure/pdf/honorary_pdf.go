// Package pdf genera el informe de honorarios en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título               │  Fecha + N° de empresas      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  GRUPO: nombre                                               │
//	│  TABLA: Empresa | CNPJ | Regime | Honorário                  │
//	│  Subtotal del grupo                                          │
//	│  ... (un bloque por grupo económico)                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL GERAL                                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
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

	"github.com/jhoicas/Honorarios-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 235, Green: 241, Blue: 247}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.HonoraryPDFGenerator = (*HonoraryPDFGenerator)(nil)

// HonoraryPDFGenerator implementa ports.HonoraryPDFGenerator usando Maroto v2.
type HonoraryPDFGenerator struct {
	author string
}

// NewHonoraryPDFGenerator construye el generador. author aparece en los metadatos del PDF.
func NewHonoraryPDFGenerator(author string) *HonoraryPDFGenerator {
	return &HonoraryPDFGenerator{author: author}
}

// GenerateHonoraryPDF genera el PDF y devuelve sus bytes.
func (g *HonoraryPDFGenerator) GenerateHonoraryPDF(ctx context.Context, report ports.HonoraryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, grp := range report.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddRows(groupRows(grp)...)
	}
	if len(report.Groups) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Nenhuma empresa para os filtros selecionados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(totalRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r ports.HonoraryReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Emitido em "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d empresas", r.Companies), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// groupRows título del grupo, cabecera de la tabla, una fila por empresa y subtotal.
func groupRows(g ports.HonoraryGroup) []core.Row {
	rows := []core.Row{
		row.New(4),
		row.New(8).Add(col.New(12).Add(
			text.New(g.Name, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
		)),
		tableHeaderRow(),
	}
	for _, l := range g.Lines {
		rows = append(rows, row.New(6).Add(
			col.New(5).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(l.CNPJ, "-"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(l.TaxRegime, "-"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(valueText(l.Value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	rows = append(rows, row.New(7).Add(
		col.New(10).Add(text.New("Subtotal", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1.5, Right: 2,
		})),
		col.New(2).Add(text.New(FormatBRL(g.Subtotal), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1.5, Right: 1,
		})),
	).WithStyle(&props.Cell{BackgroundColor: colorLight}))
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Empresa", 5, align.Left),
		h("CNPJ", 3, align.Left),
		h("Regime", 2, align.Left),
		h("Honorário", 2, align.Right),
	)
}

func totalRow(r ports.HonoraryReport) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL GERAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(FormatBRL(r.Total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func valueText(v *decimal.Decimal) string {
	if v == nil {
		return "-"
	}
	return FormatBRL(*v)
}

// FormatBRL formatea en reales con punto de miles y coma decimal.
// Ej: 1234567.5 → "R$ 1.234.567,50"
func FormatBRL(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
