package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Honorarios-api/internal/application/ports"
)

var _ ports.SpreadsheetExporter = (*Exporter)(nil)

const (
	defaultSheet = "Sheet1"
	minColWidth  = 8
	maxColWidth  = 80
)

// Exporter escribe planillas XLSX de una hoja con excelize.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export escribe encabezado, filas y la fila de total opcional. El ancho de cada
// columna se ajusta a su celda más larga; los números usan formato "#,##0.00".
func (e *Exporter) Export(sheet ports.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = defaultSheet
	}
	if name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return nil, fmt.Errorf("xlsx: nombrar hoja: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	numFmt := "#,##0.00"
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	boldMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	widths := make([]int, len(sheet.Headers))
	track := func(col int, v any) {
		for col >= len(widths) {
			widths = append(widths, 0)
		}
		if w := cellWidth(v); w > widths[col] {
			widths[col] = w
		}
	}

	head := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		head[i] = h
		track(i, h)
	}
	if err := f.SetSheetRow(name, "A1", &head); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	if len(head) > 0 {
		if err := styleRow(f, name, 1, len(head), bold); err != nil {
			return nil, err
		}
	}

	rowNum := 1
	write := func(values []any, totalRow bool) error {
		rowNum++
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		row := append([]any(nil), values...)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", rowNum, err)
		}
		if totalRow {
			if err := styleRow(f, name, rowNum, len(row), bold); err != nil {
				return err
			}
		}
		for j, v := range row {
			track(j, v)
			if !isNumber(v) {
				continue
			}
			style := money
			if totalRow {
				style = boldMoney
			}
			ref, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if err := f.SetCellStyle(name, ref, ref, style); err != nil {
				return fmt.Errorf("xlsx: estilo %s: %w", ref, err)
			}
		}
		return nil
	}
	for _, r := range sheet.Rows {
		if err := write(r, false); err != nil {
			return nil, err
		}
	}
	if sheet.Total != nil {
		if err := write(sheet.Total, true); err != nil {
			return nil, err
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, float64(clampWidth(w+2))); err != nil {
			return nil, fmt.Errorf("xlsx: ancho de columna %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	if cols == 0 {
		return nil
	}
	from, _ := excelize.CoordinatesToCellName(1, row)
	to, _ := excelize.CoordinatesToCellName(cols, row)
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("xlsx: estilo fila %d: %w", row, err)
	}
	return nil
}

func cellWidth(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(t)
	case float64:
		// "#,##0.00" agrega separadores y dos decimales
		digits := len(strconv.FormatInt(int64(math.Abs(t)), 10))
		return digits + digits/3 + 3
	default:
		return utf8.RuneCountInString(fmt.Sprint(t))
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64:
		return true
	}
	return false
}

func clampWidth(w int) int {
	if w < minColWidth {
		return minColWidth
	}
	if w > maxColWidth {
		return maxColWidth
	}
	return w
}
