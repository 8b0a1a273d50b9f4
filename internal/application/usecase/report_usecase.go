package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/application/ports"
	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/reporting"
	"github.com/jhoicas/Honorarios-api/pkg/brdoc"
)

// Content types de los archivos generados.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ExportFile archivo listo para descargar.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportNames prefijos de los archivos exportados (<prefix>_<YYYY-MM-DD>.xlsx).
type ExportNames struct {
	CompaniesPrefix string
	HonoraryPrefix  string
}

// ReportUseCase gráficos, tablas cruzadas y exportaciones sobre las empresas visibles.
type ReportUseCase struct {
	companies *CompanyUseCase
	profiles  *ProfileUseCase
	exporter  ports.SpreadsheetExporter
	pdf       ports.HonoraryPDFGenerator
	names     ExportNames
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	companies *CompanyUseCase,
	profiles *ProfileUseCase,
	exporter ports.SpreadsheetExporter,
	pdf ports.HonoraryPDFGenerator,
	names ExportNames,
) *ReportUseCase {
	if names.CompaniesPrefix == "" {
		names.CompaniesPrefix = "empresas"
	}
	if names.HonoraryPrefix == "" {
		names.HonoraryPrefix = "honorarios"
	}
	return &ReportUseCase{
		companies: companies,
		profiles:  profiles,
		exporter:  exporter,
		pdf:       pdf,
		names:     names,
		now:       time.Now,
	}
}

// Chart agrupa las empresas visibles por la dimensión. Para colaboradores se omiten
// los totales de honorario y se ignora el orden por total.
func (uc *ReportUseCase) Chart(ctx context.Context, viewer *entity.Profile, dimension string, q dto.ChartQuery, f dto.CompanyFilter) (*dto.ChartResponse, error) {
	dim, err := reporting.ParseDimension(dimension)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if q.Top < 0 {
		return nil, fmt.Errorf("%w: top debe ser positivo", domain.ErrInvalidInput)
	}
	list, err := uc.companies.Visible(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	opts := reporting.Options{
		SortByTotal: strings.EqualFold(q.Sort, "total") && viewer.IsPrivileged(),
		TopN:        q.Top,
	}
	if dim.IsResponsible() {
		dir, err := uc.profiles.Directory(ctx)
		if err != nil {
			return nil, err
		}
		opts.Label = dir.Name
	}
	groups := reporting.GroupBy(list, dim, opts)
	return &dto.ChartResponse{
		Dimension: string(dim),
		Total:     len(list),
		Groups:    ToChartGroups(groups, viewer.IsPrivileged()),
	}, nil
}

// CrossTab tabla cruzada de las empresas visibles por dos dimensiones.
func (uc *ReportUseCase) CrossTab(ctx context.Context, viewer *entity.Profile, rows, cols string, f dto.CompanyFilter) (*dto.CrossTabResponse, error) {
	rowDim, err := reporting.ParseDimension(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	colDim, err := reporting.ParseDimension(cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, err := uc.companies.Visible(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	tab := reporting.CrossTab(list, rowDim, colDim)

	rowLabel, colLabel := identity, identity
	if rowDim.IsResponsible() || colDim.IsResponsible() {
		dir, err := uc.profiles.Directory(ctx)
		if err != nil {
			return nil, err
		}
		if rowDim.IsResponsible() {
			rowLabel = dir.Name
		}
		if colDim.IsResponsible() {
			colLabel = dir.Name
		}
	}

	out := &dto.CrossTabResponse{
		RowDimension: string(rowDim),
		ColDimension: string(colDim),
		Rows:         mapStrings(tab.Rows, rowLabel),
		Cols:         mapStrings(tab.Cols, colLabel),
		Cells:        make([]dto.CrossTabCellDTO, 0, len(tab.Cells)),
	}
	for _, c := range tab.Cells {
		cell := dto.CrossTabCellDTO{Row: rowLabel(c.Row), Col: colLabel(c.Col), Count: c.Count}
		if viewer.IsPrivileged() {
			t := c.Total
			cell.Total = &t
		}
		out.Cells = append(out.Cells, cell)
	}
	return out, nil
}

// ── Exportaciones ─────────────────────────────────────────────────────────────

var companyExportHeaders = []string{
	"Nome", "CNPJ", "CPF", "Setor", "Segmento", "Regime Tributário", "Complexidade",
	"Classe", "Classificação", "Grupo", "Município", "Situação", "Honorário",
	"Resp. Fiscal", "Resp. Pessoal", "Resp. Contábil", "Resp. Faturamento", "Alertas",
}

const honoraryColumn = "Honorário"

// ExportCompanies exporta las empresas visibles. La columna de honorario solo
// aparece para root y manager; los responsables se exportan por nombre.
func (uc *ReportUseCase) ExportCompanies(ctx context.Context, viewer *entity.Profile, f dto.CompanyFilter) (*ExportFile, error) {
	list, err := uc.companies.Visible(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	dir, err := uc.profiles.Directory(ctx)
	if err != nil {
		return nil, err
	}
	withHonorary := viewer.IsPrivileged()

	headers := make([]string, 0, len(companyExportHeaders))
	for _, h := range companyExportHeaders {
		if h == honoraryColumn && !withHonorary {
			continue
		}
		headers = append(headers, h)
	}

	sheet := ports.Sheet{Name: "Empresas", Headers: headers, Rows: make([][]any, 0, len(list))}
	for i := range list {
		c := &list[i]
		r := []any{
			c.Name, c.CNPJ, c.CPF, c.Sector, c.Segment, c.TaxRegime, c.ComplexityLevel,
			c.ClientClass, c.Classification, c.Group, c.Municipality, c.Situation,
		}
		if withHonorary {
			r = append(r, honoraryCell(c.HonoraryValue))
		}
		for _, a := range entity.Areas {
			r = append(r, responsibleName(dir, c.Responsible(a)))
		}
		r = append(r, strings.Join(c.Alerts, "; "))
		sheet.Rows = append(sheet.Rows, r)
	}
	return uc.xlsx(uc.names.CompaniesPrefix, sheet)
}

// ExportHonorary exporta el listado de honorarios con fila TOTAL (solo root y manager).
func (uc *ReportUseCase) ExportHonorary(ctx context.Context, viewer *entity.Profile, f dto.CompanyFilter) (*ExportFile, error) {
	if !viewer.IsPrivileged() {
		return nil, fmt.Errorf("%w: solo root o manager acceden a honorarios", domain.ErrForbidden)
	}
	list, err := uc.companies.Visible(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	sheet := ports.Sheet{
		Name:    "Honorários",
		Headers: []string{"Nome", "CNPJ", "Grupo", "Regime Tributário", honoraryColumn},
		Rows:    make([][]any, 0, len(list)),
	}
	for i := range list {
		c := &list[i]
		if c.HonoraryValue != nil {
			total = total.Add(*c.HonoraryValue)
		}
		sheet.Rows = append(sheet.Rows, []any{c.Name, c.CNPJ, c.Group, c.TaxRegime, honoraryCell(c.HonoraryValue)})
	}
	sheet.Total = []any{"TOTAL", "", "", "", total.InexactFloat64()}
	return uc.xlsx(uc.names.HonoraryPrefix, sheet)
}

// HonoraryPDF informe de honorarios en PDF agrupado por grupo económico (solo root y manager).
func (uc *ReportUseCase) HonoraryPDF(ctx context.Context, viewer *entity.Profile, f dto.CompanyFilter) (*ExportFile, error) {
	if !viewer.IsPrivileged() {
		return nil, fmt.Errorf("%w: solo root o manager acceden a honorarios", domain.ErrForbidden)
	}
	list, err := uc.companies.Visible(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	report := BuildHonoraryReport(list, now)
	data, err := uc.pdf.GenerateHonoraryPDF(ctx, report)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        fmt.Sprintf("%s_%s.pdf", uc.names.HonoraryPrefix, now.Format("2006-01-02")),
		ContentType: ContentTypePDF,
		Data:        data,
	}, nil
}

// BuildHonoraryReport agrupa las empresas por grupo económico ("Sem grupo" para las
// que no tienen) con subtotales. Grupos ordenados por subtotal descendente.
func BuildHonoraryReport(list []entity.Company, now time.Time) ports.HonoraryReport {
	report := ports.HonoraryReport{
		Title:       "Relatório de Honorários",
		GeneratedAt: now,
		Companies:   len(list),
		Total:       decimal.Zero,
	}
	idx := make(map[string]int)
	for i := range list {
		c := &list[i]
		key := reporting.DimGroup.Key(c)
		pos, ok := idx[key]
		if !ok {
			pos = len(report.Groups)
			idx[key] = pos
			report.Groups = append(report.Groups, ports.HonoraryGroup{Name: key, Subtotal: decimal.Zero})
		}
		g := &report.Groups[pos]
		line := ports.HonoraryLine{Name: c.Name, CNPJ: brdoc.FormatCNPJ(c.CNPJ), TaxRegime: c.TaxRegime}
		if c.HonoraryValue != nil {
			v := *c.HonoraryValue
			line.Value = &v
			g.Subtotal = g.Subtotal.Add(v)
			report.Total = report.Total.Add(v)
		}
		g.Lines = append(g.Lines, line)
	}
	sort.SliceStable(report.Groups, func(i, j int) bool {
		if c := report.Groups[i].Subtotal.Cmp(report.Groups[j].Subtotal); c != 0 {
			return c > 0
		}
		return report.Groups[i].Name < report.Groups[j].Name
	})
	return report
}

func (uc *ReportUseCase) xlsx(prefix string, sheet ports.Sheet) (*ExportFile, error) {
	data, err := uc.exporter.Export(sheet)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        ExportFileName(prefix, uc.now()),
		ContentType: ContentTypeXLSX,
		Data:        data,
	}, nil
}

// ExportFileName devuelve "<prefix>_<YYYY-MM-DD>.xlsx".
func ExportFileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("2006-01-02"))
}

// ToChartGroups convierte los grupos en la salida HTTP; withTotals=false omite los honorarios.
func ToChartGroups(groups []reporting.Group, withTotals bool) []dto.ChartGroupDTO {
	out := make([]dto.ChartGroupDTO, 0, len(groups))
	for _, g := range groups {
		item := dto.ChartGroupDTO{Key: g.Key, Count: g.Count, CountPct: g.CountPct}
		if withTotals {
			total, pct := g.Total, g.TotalPct
			item.Total = &total
			item.TotalPct = &pct
		}
		out = append(out, item)
	}
	return out
}

func honoraryCell(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}
	return v.InexactFloat64()
}

func responsibleName(dir *Directory, id string) string {
	if id == "" {
		return ""
	}
	return dir.Name(id)
}

func identity(s string) string { return s }

func mapStrings(in []string, fn func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fn(s)
	}
	return out
}
