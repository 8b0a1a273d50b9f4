// Package reporting agrega la colección de empresas para gráficos, tablas cruzadas
// y el resumen del dashboard. Todas las funciones son puras: se recalculan completas
// sobre el snapshot actual en cada petición.
package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
)

// Valores de agrupación para campos vacíos.
const (
	NotInformed   = "Não informado"
	NoGroup       = "Sem grupo"
	NoResponsible = "Sem responsável"
)

// Dimension campo categórico por el que se agrupa.
type Dimension string

const (
	DimSector                Dimension = "sector"
	DimSegment               Dimension = "segment"
	DimTaxRegime             Dimension = "tax_regime"
	DimClassification        Dimension = "classification"
	DimComplexity            Dimension = "complexity"
	DimClientClass           Dimension = "client_class"
	DimMunicipality          Dimension = "municipality"
	DimGroup                 Dimension = "group"
	DimSituation             Dimension = "situation"
	DimResponsibleFiscal     Dimension = "responsible_fiscal"
	DimResponsiblePersonnel  Dimension = "responsible_personnel"
	DimResponsibleAccounting Dimension = "responsible_accounting"
	DimResponsibleBilling    Dimension = "responsible_billing"
)

type extractor struct {
	value    func(c *entity.Company) string
	fallback string
}

func field(get func(c *entity.Company) string) extractor {
	return extractor{value: get, fallback: NotInformed}
}

func responsible(a entity.Area) extractor {
	return extractor{
		value:    func(c *entity.Company) string { return c.Responsible(a) },
		fallback: NoResponsible,
	}
}

var extractors = map[Dimension]extractor{
	DimSector:                field(func(c *entity.Company) string { return c.Sector }),
	DimSegment:               field(func(c *entity.Company) string { return c.Segment }),
	DimTaxRegime:             field(func(c *entity.Company) string { return c.TaxRegime }),
	DimClassification:        field(func(c *entity.Company) string { return c.Classification }),
	DimComplexity:            field(func(c *entity.Company) string { return c.ComplexityLevel }),
	DimClientClass:           field(func(c *entity.Company) string { return c.ClientClass }),
	DimMunicipality:          field(func(c *entity.Company) string { return c.Municipality }),
	DimSituation:             field(func(c *entity.Company) string { return c.Situation }),
	DimGroup:                 {value: func(c *entity.Company) string { return c.Group }, fallback: NoGroup},
	DimResponsibleFiscal:     responsible(entity.AreaFiscal),
	DimResponsiblePersonnel:  responsible(entity.AreaPersonnel),
	DimResponsibleAccounting: responsible(entity.AreaAccounting),
	DimResponsibleBilling:    responsible(entity.AreaBilling),
}

// Dimensions todas las dimensiones disponibles, ordenadas.
func Dimensions() []Dimension {
	out := make([]Dimension, 0, len(extractors))
	for d := range extractors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseDimension valida el nombre de una dimensión.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := extractors[d]; !ok {
		return "", fmt.Errorf("dimensión desconocida: %q", s)
	}
	return d, nil
}

// IsResponsible informa si la dimensión agrupa por responsable (la clave es un id de profile).
func (d Dimension) IsResponsible() bool {
	return strings.HasPrefix(string(d), "responsible_")
}

// Key devuelve la clave de agrupación de la empresa: el valor recortado o el valor de reemplazo.
func (d Dimension) Key(c *entity.Company) string {
	ex, ok := extractors[d]
	if !ok {
		return NotInformed
	}
	if v := strings.TrimSpace(ex.value(c)); v != "" {
		return v
	}
	return ex.fallback
}

// Fallback valor asignado a las empresas sin dato en la dimensión.
func (d Dimension) Fallback() string {
	if ex, ok := extractors[d]; ok {
		return ex.fallback
	}
	return NotInformed
}

// ── Agrupación ────────────────────────────────────────────────────────────────

// Group un grupo de empresas. Los porcentajes van de 0 a 100 con dos decimales.
type Group struct {
	Key      string
	Count    int
	Total    decimal.Decimal // suma de honorarios
	CountPct decimal.Decimal
	TotalPct decimal.Decimal
}

// Options opciones de GroupBy.
type Options struct {
	SortByTotal bool // ordena por suma de honorarios descendente
	TopN        int  // 0 = sin límite
	// Label traduce la clave (p. ej. id de responsable -> nombre). No se aplica a los valores de reemplazo.
	Label func(key string) string
}

var hundred = decimal.NewFromInt(100)

// GroupBy agrupa las empresas por la dimensión. Cada empresa cae en exactamente un grupo,
// por lo que la suma de Count es len(companies). Orden por defecto: Count desc, Key asc.
func GroupBy(companies []entity.Company, dim Dimension, opts Options) []Group {
	idx := make(map[string]int)
	var groups []Group
	grand := decimal.Zero
	for i := range companies {
		c := &companies[i]
		key := dim.Key(c)
		if opts.Label != nil && key != dim.Fallback() {
			if l := strings.TrimSpace(opts.Label(key)); l != "" {
				key = l
			}
		}
		pos, ok := idx[key]
		if !ok {
			pos = len(groups)
			idx[key] = pos
			groups = append(groups, Group{Key: key, Total: decimal.Zero})
		}
		groups[pos].Count++
		if c.HonoraryValue != nil {
			groups[pos].Total = groups[pos].Total.Add(*c.HonoraryValue)
			grand = grand.Add(*c.HonoraryValue)
		}
	}

	n := decimal.NewFromInt(int64(len(companies)))
	for i := range groups {
		if len(companies) > 0 {
			groups[i].CountPct = decimal.NewFromInt(int64(groups[i].Count)).Mul(hundred).Div(n).Round(2)
		}
		if !grand.IsZero() {
			groups[i].TotalPct = groups[i].Total.Mul(hundred).Div(grand).Round(2)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if opts.SortByTotal {
			if c := a.Total.Cmp(b.Total); c != 0 {
				return c > 0
			}
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})
	if opts.TopN > 0 && len(groups) > opts.TopN {
		groups = groups[:opts.TopN]
	}
	return groups
}

// ── Tabla cruzada ─────────────────────────────────────────────────────────────

// Cell celda de la tabla cruzada (clave compuesta fila × columna).
type Cell struct {
	Row   string
	Col   string
	Count int
	Total decimal.Decimal
}

// CrossTable tabla cruzada. Rows y Cols ordenadas alfabéticamente; solo celdas no vacías.
type CrossTable struct {
	Rows  []string
	Cols  []string
	Cells []Cell
}

// CrossTab agrupa por la clave compuesta (rowDim, colDim).
func CrossTab(companies []entity.Company, rowDim, colDim Dimension) CrossTable {
	type pair struct{ r, c string }
	cells := make(map[pair]*Cell)
	rows := make(map[string]struct{})
	cols := make(map[string]struct{})
	for i := range companies {
		c := &companies[i]
		k := pair{rowDim.Key(c), colDim.Key(c)}
		cell, ok := cells[k]
		if !ok {
			cell = &Cell{Row: k.r, Col: k.c, Total: decimal.Zero}
			cells[k] = cell
			rows[k.r] = struct{}{}
			cols[k.c] = struct{}{}
		}
		cell.Count++
		if c.HonoraryValue != nil {
			cell.Total = cell.Total.Add(*c.HonoraryValue)
		}
	}
	out := CrossTable{Rows: sortedKeys(rows), Cols: sortedKeys(cols)}
	for _, cell := range cells {
		out.Cells = append(out.Cells, *cell)
	}
	sort.Slice(out.Cells, func(i, j int) bool {
		if out.Cells[i].Row != out.Cells[j].Row {
			return out.Cells[i].Row < out.Cells[j].Row
		}
		return out.Cells[i].Col < out.Cells[j].Col
	})
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── Resumen ───────────────────────────────────────────────────────────────────

// Summary indicadores del dashboard.
type Summary struct {
	Companies       int
	WithHonorary    int
	WithAlerts      int
	HonoraryTotal   decimal.Decimal
	HonoraryAverage decimal.Decimal // promedio entre las empresas con honorario informado
	BySituation     []Group
	ByTaxRegime     []Group
	TopByHonorary   []Group // grupos económicos con mayor honorario
}

// SummaryTopGroups cantidad de grupos económicos en Summary.TopByHonorary.
const SummaryTopGroups = 5

// Summarize calcula los indicadores del dashboard.
func Summarize(companies []entity.Company) Summary {
	s := Summary{
		Companies:       len(companies),
		HonoraryTotal:   decimal.Zero,
		HonoraryAverage: decimal.Zero,
	}
	for i := range companies {
		c := &companies[i]
		if c.HonoraryValue != nil {
			s.WithHonorary++
			s.HonoraryTotal = s.HonoraryTotal.Add(*c.HonoraryValue)
		}
		if len(c.Alerts) > 0 {
			s.WithAlerts++
		}
	}
	if s.WithHonorary > 0 {
		s.HonoraryAverage = s.HonoraryTotal.Div(decimal.NewFromInt(int64(s.WithHonorary))).Round(2)
	}
	s.BySituation = GroupBy(companies, DimSituation, Options{})
	s.ByTaxRegime = GroupBy(companies, DimTaxRegime, Options{})
	s.TopByHonorary = GroupBy(companies, DimGroup, Options{SortByTotal: true, TopN: SummaryTopGroups})
	return s
}
