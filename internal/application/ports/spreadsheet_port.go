package ports

import "github.com/jhoicas/Honorarios-api/internal/domain/importer"

// SpreadsheetReader convierte un archivo subido (CSV, XLSX o XLS) en filas crudas.
// El formato se decide por la extensión de filename. Un fallo de lectura devuelve
// error y ninguna fila: no se aceptan datos parciales.
type SpreadsheetReader interface {
	ReadRows(filename string, data []byte) ([]importer.Row, error)
}

// Sheet hoja a exportar. Las celdas pueden ser string, números o nil (celda vacía).
// Total, si no es nil, se agrega como última fila.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
	Total   []any
}

// SpreadsheetExporter escribe una planilla de una sola hoja y devuelve sus bytes.
type SpreadsheetExporter interface {
	Export(sheet Sheet) ([]byte, error)
}
