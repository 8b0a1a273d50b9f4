// Package importer contiene el pipeline puro de importación de empresas:
// resolución de encabezados, validación de filas, coerción de campos tipados y
// conciliación contra la colección existente.
package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field campo lógico de una empresa reconocido en la planilla.
type Field int

const (
	FieldName Field = iota
	FieldCNPJ
	FieldCPF
	FieldSector
	FieldSegment
	FieldTaxRegime
	FieldComplexity
	FieldClientClass
	FieldClassification
	FieldGroup
	FieldMunicipality
	FieldSituation
	FieldHonorary
	FieldResponsibleFiscal
	FieldResponsiblePersonnel
	FieldResponsibleAccounting
	FieldResponsibleBilling
	FieldAlerts
)

// Fields todos los campos, en orden de declaración.
var Fields = []Field{
	FieldName, FieldCNPJ, FieldCPF, FieldSector, FieldSegment, FieldTaxRegime,
	FieldComplexity, FieldClientClass, FieldClassification, FieldGroup,
	FieldMunicipality, FieldSituation, FieldHonorary,
	FieldResponsibleFiscal, FieldResponsiblePersonnel, FieldResponsibleAccounting, FieldResponsibleBilling,
	FieldAlerts,
}

var fieldNames = map[Field]string{
	FieldName:                  "name",
	FieldCNPJ:                  "cnpj",
	FieldCPF:                   "cpf",
	FieldSector:                "sector",
	FieldSegment:               "segment",
	FieldTaxRegime:             "tax_regime",
	FieldComplexity:            "complexity_level",
	FieldClientClass:           "client_class",
	FieldClassification:        "classification",
	FieldGroup:                 "group",
	FieldMunicipality:          "municipality",
	FieldSituation:             "situation",
	FieldHonorary:              "honorary_value",
	FieldResponsibleFiscal:     "responsible_fiscal",
	FieldResponsiblePersonnel:  "responsible_personnel",
	FieldResponsibleAccounting: "responsible_accounting",
	FieldResponsibleBilling:    "responsible_billing",
	FieldAlerts:                "alerts",
}

func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return "unknown"
}

// declaredAliases encabezados aceptados por campo, en orden de prioridad.
// Cada alias se expande luego con su forma sin acentos y sus formas mal codificadas.
var declaredAliases = map[Field][]string{
	FieldName:                  {"Nome", "NOME", "nome", "Razão Social", "RAZÃO SOCIAL", "Razão social", "Empresa", "EMPRESA", "Cliente", "CLIENTE"},
	FieldCNPJ:                  {"CNPJ", "cnpj", "Cnpj", "CNPJ/CPF"},
	FieldCPF:                   {"CPF", "cpf", "Cpf"},
	FieldSector:                {"Setor", "SETOR", "setor", "Ramo de Atividade"},
	FieldSegment:               {"Segmento", "SEGMENTO", "segmento"},
	FieldTaxRegime:             {"Regime Tributário", "REGIME TRIBUTÁRIO", "Regime tributário", "Regime", "REGIME", "Tributação", "TRIBUTAÇÃO"},
	FieldComplexity:            {"Complexidade", "COMPLEXIDADE", "Nível de Complexidade", "NÍVEL DE COMPLEXIDADE"},
	FieldClientClass:           {"Classe", "CLASSE", "Classe do Cliente", "CLASSE DO CLIENTE"},
	FieldClassification:        {"Classificação", "CLASSIFICAÇÃO", "classificação"},
	FieldGroup:                 {"Grupo", "GRUPO", "grupo", "Grupo Econômico", "GRUPO ECONÔMICO"},
	FieldMunicipality:          {"Município", "MUNICÍPIO", "município", "Cidade", "CIDADE"},
	FieldSituation:             {"Situação", "SITUAÇÃO", "situação", "Status", "STATUS"},
	FieldHonorary:              {"Honorário", "HONORÁRIO", "Honorários", "HONORÁRIOS", "Valor Honorário", "VALOR HONORÁRIO", "Valor do Honorário", "Valor"},
	FieldResponsibleFiscal:     {"Responsável Fiscal", "RESPONSÁVEL FISCAL", "Fiscal", "FISCAL"},
	FieldResponsiblePersonnel:  {"Responsável Pessoal", "RESPONSÁVEL PESSOAL", "Pessoal", "PESSOAL", "DP"},
	FieldResponsibleAccounting: {"Responsável Contábil", "RESPONSÁVEL CONTÁBIL", "Contábil", "CONTÁBIL"},
	FieldResponsibleBilling:    {"Responsável Faturamento", "RESPONSÁVEL FATURAMENTO", "Faturamento", "FATURAMENTO"},
	FieldAlerts:                {"Alertas", "ALERTAS", "Alerta", "Observações", "OBSERVAÇÕES"},
}

var schema = buildSchema(declaredAliases)

func buildSchema(declared map[Field][]string) map[Field][]string {
	out := make(map[Field][]string, len(declared))
	for f, aliases := range declared {
		out[f] = withVariants(aliases)
	}
	return out
}

// Aliases devuelve los encabezados aceptados para el campo, en orden de prioridad.
func Aliases(f Field) []string {
	return append([]string(nil), schema[f]...)
}

// IsNameHeader informa si h es un encabezado aceptado para el nombre.
func IsNameHeader(h string) bool {
	for _, a := range schema[FieldName] {
		if a == h {
			return true
		}
	}
	return false
}

// Row fila cruda de la planilla: encabezado -> valor de la celda.
// Line es la posición 1-based de la fila de datos en el archivo (sin contar el encabezado).
type Row struct {
	Line  int
	Cells map[string]string
}

// Resolve devuelve el primer valor no vacío (recortado) entre los alias del campo, o "".
func Resolve(row Row, f Field) string {
	for _, alias := range schema[f] {
		v, ok := row.Cells[alias]
		if !ok {
			continue
		}
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// ── Variantes de escritura ────────────────────────────────────────────────────

// withVariants expande cada alias con su forma sin acentos y con las formas que
// produce leer su UTF-8 como Windows-1252 o ISO-8859-1. Conserva el orden y no repite.
func withVariants(aliases []string) []string {
	seen := make(map[string]struct{}, len(aliases)*4)
	out := make([]string, 0, len(aliases)*4)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, a := range aliases {
		add(a)
		add(foldAccents(a))
		add(mojibake(a, charmap.Windows1252))
		add(mojibake(a, charmap.ISO8859_1))
	}
	return out
}

// foldAccents elimina las marcas diacríticas ("Município" -> "Municipio").
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// mojibake reproduce el texto que aparece al leer los bytes UTF-8 de s con otra codificación.
func mojibake(s string, cm *charmap.Charmap) string {
	out, err := cm.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
