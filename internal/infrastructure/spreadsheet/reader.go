// Package spreadsheet lee planillas de importación (CSV, XLSX, XLS) y escribe
// las exportaciones XLSX.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/schollz/closestmatch"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Honorarios-api/internal/application/ports"
	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/importer"
)

var _ ports.SpreadsheetReader = (*Reader)(nil)

// csvEncoding codificación candidata del CSV; enc nil = UTF-8.
type csvEncoding struct {
	name string
	enc  encoding.Encoding
}

// Orden fijo de intento. UTF-8 solo se intenta si los bytes son UTF-8 válido.
var csvEncodings = []csvEncoding{
	{name: "utf-8"},
	{name: "windows-1252", enc: charmap.Windows1252},
	{name: "iso-8859-1", enc: charmap.ISO8859_1},
}

// headerScanRows filas del CSV revisadas buscando el encabezado.
const headerScanRows = 20

// Reader implementa ports.SpreadsheetReader.
type Reader struct{}

// NewReader construye el lector.
func NewReader() *Reader { return &Reader{} }

// ReadRows lee el archivo según su extensión (.csv, .xlsx, .xls).
func (r *Reader) ReadRows(filename string, data []byte) ([]importer.Row, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.ErrEmptyFile
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return readCSV(data)
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q (se aceptan .csv, .xlsx y .xls)", domain.ErrUnsupportedFile, ext)
	}
}

// ── CSV ───────────────────────────────────────────────────────────────────────

// readCSV prueba cada codificación hasta encontrar una fila con un encabezado de nombre.
// Esa fila es el encabezado; las siguientes son datos.
func readCSV(data []byte) ([]importer.Row, error) {
	var seen []string
	var lastErr error
	for _, ce := range csvEncodings {
		text, err := decode(data, ce)
		if err != nil {
			lastErr = err
			continue
		}
		records, err := parseCSV(text)
		if err != nil {
			lastErr = fmt.Errorf("csv (%s): %w", ce.name, err)
			continue
		}
		if len(records) == 0 {
			return nil, domain.ErrEmptyFile
		}
		if h := findHeader(records, headerScanRows); h >= 0 {
			return tableToRows(records[h], records[h+1:]), nil
		}
		if seen == nil {
			seen = candidateHeaders(records, headerScanRows)
		}
	}
	if seen == nil && lastErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoRecognizedHeader, lastErr)
	}
	return nil, noHeaderError(seen)
}

func decode(data []byte, ce csvEncoding) (string, error) {
	if ce.enc == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("csv: el archivo no es UTF-8")
		}
		return string(data), nil
	}
	out, err := ce.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("csv (%s): %w", ce.name, err)
	}
	return string(out), nil
}

func parseCSV(text string) ([][]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	var out [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ── XLSX / XLS ────────────────────────────────────────────────────────────────

// readXLSX lee la primera hoja; la primera fila es el encabezado.
func readXLSX(data []byte) ([]importer.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w: %w", domain.ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrEmptyFile
	}
	sheet := sheets[0]
	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: hoja %q: %w: %w", sheet, domain.ErrUnreadableFile, err)
	}
	for i, rec := range records {
		for j, v := range rec {
			if v == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			// Solo las celdas numéricas traen el número crudo; el texto queda tal cual.
			if t, err := f.GetCellType(sheet, ref); err == nil && (t == excelize.CellTypeNumber || t == excelize.CellTypeUnset) {
				rec[j] = localizeNumber(v)
			}
		}
	}
	return firstRowTable(records)
}

// readXLS lee la primera hoja de un libro Excel 97-2003; la primera fila es el encabezado.
func readXLS(data []byte) (rows []importer.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("xls: %w: %v", domain.ErrUnreadableFile, r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("xls: %w: %w", domain.ErrUnreadableFile, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("xls: %w: sin flujo Workbook", domain.ErrUnreadableFile)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, domain.ErrEmptyFile
	}
	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = xlsNumber(row.Col(j))
		}
		records = append(records, cells)
	}
	return firstRowTable(records)
}

// xlsRow devuelve nil para las filas ausentes; WorkSheet.Row entra en pánico con ellas.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func firstRowTable(records [][]string) ([]importer.Row, error) {
	for len(records) > 0 && blankRecord(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if findHeader(records, 1) != 0 {
		return nil, noHeaderError(candidateHeaders(records, 1))
	}
	return tableToRows(records[0], records[1:]), nil
}

var (
	// brThousands texto con puntos de milhar ("1.234", "12.345.678").
	brThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	rawNumber   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// localizeNumber reescribe un número crudo ("1234.5", "1.2E4") con coma decimal,
// el formato que espera importer.ParseHonorary.
func localizeNumber(v string) string {
	t := strings.TrimSpace(v)
	if !strings.ContainsAny(t, ".eE") || !rawNumber.MatchString(t) {
		return v
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return v
	}
	return strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", ",", 1)
}

// xlsNumber localiza los valores de un libro .xls. extrame/xls no expone el tipo de
// la celda, así que "1.234" se toma como texto con milhar: un número real con tres
// decimales no es un honorário.
func xlsNumber(v string) string {
	if brThousands.MatchString(strings.TrimSpace(v)) {
		return v
	}
	return localizeNumber(v)
}

// ── Encabezados ───────────────────────────────────────────────────────────────

// NormalizeHeader recorta, quita el BOM y normaliza a NFC.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(h))
}

// findHeader devuelve el índice de la primera fila (entre las primeras limit) con un
// encabezado de nombre reconocido, o -1.
func findHeader(records [][]string, limit int) int {
	for i, rec := range records {
		if i >= limit {
			break
		}
		for _, cell := range rec {
			if importer.IsNameHeader(NormalizeHeader(cell)) {
				return i
			}
		}
	}
	return -1
}

func tableToRows(header []string, data [][]string) []importer.Row {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = NormalizeHeader(h)
	}
	rows := make([]importer.Row, 0, len(data))
	for i, rec := range data {
		cells := make(map[string]string, len(names))
		for j, name := range names {
			if name == "" || j >= len(rec) {
				continue
			}
			if _, dup := cells[name]; dup {
				continue
			}
			cells[name] = rec[j]
		}
		rows = append(rows, importer.Row{Line: i + 1, Cells: cells})
	}
	return rows
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func candidateHeaders(records [][]string, limit int) []string {
	var out []string
	seen := make(map[string]struct{})
	for i, rec := range records {
		if i >= limit {
			break
		}
		for _, c := range rec {
			h := NormalizeHeader(c)
			if h == "" {
				continue
			}
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}

// noHeaderError sugiere la columna del archivo más parecida a "Nome".
func noHeaderError(seen []string) error {
	if len(seen) == 0 {
		return domain.ErrNoRecognizedHeader
	}
	cm := closestmatch.New(seen, []int{2, 3})
	if s := cm.Closest(importer.Aliases(importer.FieldName)[0]); s != "" {
		return fmt.Errorf("%w; ¿la columna %q es el nombre? use \"Nome\" o \"Razão Social\"", domain.ErrNoRecognizedHeader, s)
	}
	return domain.ErrNoRecognizedHeader
}
