package spreadsheet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/importer"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/spreadsheet"
)

func TestReadRows_CSVUTF8ConBOM(t *testing.T) {
	data := []byte("\ufeffRazão Social;CNPJ;Município\nPadaria Central;12.345.678/0001-95;Goiânia\n")
	rows, err := spreadsheet.NewReader().ReadRows("empresas.CSV", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, "Padaria Central", importer.Resolve(rows[0], importer.FieldName))
	assert.Equal(t, "Goiânia", importer.Resolve(rows[0], importer.FieldMunicipality))
}

// Un CSV en Windows-1252 no es UTF-8 válido: se decodifica con la siguiente codificación.
func TestReadRows_CSVWindows1252(t *testing.T) {
	text := "Título;Nome;Honorário\nx;Construtora Ação;R$ 1.234,56\n"
	data, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	rows, err := spreadsheet.NewReader().ReadRows("planilha.csv", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Construtora Ação", importer.Resolve(rows[0], importer.FieldName))
	assert.Equal(t, "R$ 1.234,56", importer.Resolve(rows[0], importer.FieldHonorary))
}

// El encabezado puede estar después de filas de título.
func TestReadRows_CSVEncabezadoNoEnPrimeraFila(t *testing.T) {
	data := []byte("Relatório de clientes;;\n;;\nNOME;CNPJ;Regime\nAlfa;1;Simples\nBeta;2;Real\n")
	rows, err := spreadsheet.NewReader().ReadRows("clientes.csv", data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].Line)
	assert.Equal(t, "Beta", importer.Resolve(rows[1], importer.FieldName))
}

func TestReadRows_CSVSinEncabezadoSugiereColumna(t *testing.T) {
	data := []byte("Nomes;Documento\nAlfa;1\n")
	_, err := spreadsheet.NewReader().ReadRows("clientes.csv", data)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRecognizedHeader)
	assert.Contains(t, err.Error(), "Nomes")
}

func TestReadRows_Errores(t *testing.T) {
	r := spreadsheet.NewReader()

	_, err := r.ReadRows("clientes.pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)

	_, err = r.ReadRows("clientes.csv", []byte("  \n"))
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = r.ReadRows("clientes.xls", []byte("no es un libro xls"))
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)

	_, err = r.ReadRows("clientes.xlsx", []byte("no es un zip"))
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)
}

func TestReadRows_XLSXNumerosCrudos(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Nome", "CNPJ", "Valor Honorário"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Alfa", "12.345.678/0001-95", 1234.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Beta", "", 800}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := spreadsheet.NewReader().ReadRows("clientes.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	v := importer.ParseHonorary(importer.Resolve(rows[0], importer.FieldHonorary))
	require.NotNil(t, v)
	assert.Equal(t, "1234.5", v.String())

	v = importer.ParseHonorary(importer.Resolve(rows[1], importer.FieldHonorary))
	require.NotNil(t, v)
	assert.Equal(t, "800", v.String())
}

// Un honorário escrito como texto "1.234" es 1234, igual que en el CSV; solo las
// celdas numéricas se leen como número crudo.
func TestReadRows_XLSXTextoConMilharNoEsDecimal(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Nome", "Honorário"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"ACME", "1.234"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Beta", 1234.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := spreadsheet.NewReader().ReadRows("clientes.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	fromXLSX := importer.ParseHonorary(importer.Resolve(rows[0], importer.FieldHonorary))
	require.NotNil(t, fromXLSX)
	assert.Equal(t, "1234", fromXLSX.String())

	csvRows, err := spreadsheet.NewReader().ReadRows("clientes.csv", []byte("Nome;Honorário\nACME;1.234\n"))
	require.NoError(t, err)
	fromCSV := importer.ParseHonorary(importer.Resolve(csvRows[0], importer.FieldHonorary))
	require.NotNil(t, fromCSV)
	assert.True(t, fromCSV.Equal(*fromXLSX))

	num := importer.ParseHonorary(importer.Resolve(rows[1], importer.FieldHonorary))
	require.NotNil(t, num)
	assert.Equal(t, "1234.5", num.String())
}

func TestReadRows_XLSXSinEncabezadoDeNombre(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Codigo", "Valor"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = spreadsheet.NewReader().ReadRows("clientes.xlsx", buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrNoRecognizedHeader)
}

func TestNormalizeHeader(t *testing.T) {
	// "Município" con la í descompuesta (i + acento combinante)
	assert.Equal(t, "Munic\u00edpio", spreadsheet.NormalizeHeader("\ufeff Munici\u0301pio "))
}

func TestReadRows_XLS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "clientes.xls"))
	require.NoError(t, err)

	rows, err := spreadsheet.NewReader().ReadRows("clientes.xls", data)
	require.NoError(t, err)
	// La fila 4 de la hoja no existe: queda como fila vacía y no corre la numeración.
	require.Len(t, rows, 4)

	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, "Alfa Comércio", importer.Resolve(rows[0], importer.FieldName))
	assert.Equal(t, "12.345.678/0001-95", importer.Resolve(rows[0], importer.FieldCNPJ))
	v := importer.ParseHonorary(importer.Resolve(rows[0], importer.FieldHonorary))
	require.NotNil(t, v)
	assert.Equal(t, "1234.5", v.String())

	assert.Equal(t, "Beta Serviços", importer.Resolve(rows[1], importer.FieldName))
	assert.Empty(t, importer.Resolve(rows[1], importer.FieldCNPJ))
	v = importer.ParseHonorary(importer.Resolve(rows[1], importer.FieldHonorary))
	require.NotNil(t, v)
	assert.Equal(t, "1234", v.String())

	assert.Empty(t, importer.Resolve(rows[2], importer.FieldName))
	assert.Len(t, importer.Valid(rows), 3)

	assert.Equal(t, 4, rows[3].Line)
	assert.Equal(t, "Gama Ltda", importer.Resolve(rows[3], importer.FieldName))
	v = importer.ParseHonorary(importer.Resolve(rows[3], importer.FieldHonorary))
	require.NotNil(t, v)
	assert.Equal(t, "800", v.String())
}

func TestReadRows_XLSSinEncabezadoDeNombre(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "sem_nome.xls"))
	require.NoError(t, err)

	_, err = spreadsheet.NewReader().ReadRows("sem_nome.xls", data)
	assert.ErrorIs(t, err, domain.ErrNoRecognizedHeader)
}
