package importer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
)

// vocabulary vocabulario cerrado: variante en mayúsculas -> valor canónico.
type vocabulary map[string]string

func newVocabulary(entries map[string][]string) vocabulary {
	v := make(vocabulary)
	for canonical, words := range entries {
		forms := append([]string{canonical, strings.ToLower(canonical)}, words...)
		for _, w := range withVariants(forms) {
			v[strings.ToUpper(w)] = canonical
		}
	}
	return v
}

func (v vocabulary) match(raw string) (string, bool) {
	c, ok := v[strings.ToUpper(strings.TrimSpace(raw))]
	return c, ok
}

var (
	complexityVocabulary = newVocabulary(map[string][]string{
		entity.ComplexityHigh:   {"Alta", "Alto"},
		entity.ComplexityMedium: {"Média", "Médio", "Media", "Medio"},
		entity.ComplexityLow:    {"Baixa", "Baixo"},
	})

	classificationVocabulary = newVocabulary(map[string][]string{
		"ESTRATÉGICO": {"Estratégica", "Estrategico"},
		"PRIORITÁRIO": {"Prioritária", "Prioritario"},
		"PADRÃO":      {"Padrao", "Regular"},
		"BÁSICO":      {"Básica", "Basico"},
	})

	sectorVocabulary = newVocabulary(map[string][]string{
		"COMÉRCIO":         {"Comercio", "Comercial"},
		"SERVIÇOS":         {"Serviço", "Servicos", "Servico"},
		"INDÚSTRIA":        {"Industria", "Industrial"},
		"AGRONEGÓCIO":      {"Agro", "Agronegocio", "Rural"},
		"CONSTRUÇÃO CIVIL": {"Construção", "Construcao Civil", "Construcao"},
		"TERCEIRO SETOR":   {"ONG", "Associação", "Associacao"},
	})

	municipalityVocabulary = newVocabulary(map[string][]string{
		"GOIÂNIA":              {"Goiania", "GYN"},
		"APARECIDA DE GOIÂNIA": {"Aparecida de Goiania", "Aparecida"},
		"ANÁPOLIS":             {"Anapolis"},
		"SENADOR CANEDO":       {},
		"TRINDADE":             {},
		"BRASÍLIA":             {"Brasilia", "DF"},
		"SÃO PAULO":            {"Sao Paulo", "SP"},
	})

	taxRegimeVocabulary = newVocabulary(map[string][]string{
		"Simples Nacional": {"Simples", "SN"},
		"Lucro Presumido":  {"Presumido", "LP"},
		"Lucro Real":       {"Real", "LR"},
		"MEI":              {"Microempreendedor Individual"},
	})
)

// ParseHonorary convierte un valor monetario en formato brasileño ("R$ 1.234,56") a decimal.
// Quita el prefijo de moneda, los separadores de miles (".") y usa "," como separador decimal.
// Devuelve nil si el valor está vacío o no es numérico.
func ParseHonorary(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && strings.EqualFold(s[:2], "R$") {
		s = strings.TrimSpace(s[2:])
	}
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// CoerceComplexity es estricta: devuelve "" si el valor no pertenece al vocabulario.
func CoerceComplexity(raw string) string {
	c, _ := complexityVocabulary.match(raw)
	return c
}

// CoerceClassification, CoerceSector y CoerceMunicipality son permisivas:
// si el valor no está en el vocabulario se devuelve en mayúsculas tal cual.
func CoerceClassification(raw string) string { return permissive(classificationVocabulary, raw) }

func CoerceSector(raw string) string { return permissive(sectorVocabulary, raw) }

func CoerceMunicipality(raw string) string { return permissive(municipalityVocabulary, raw) }

// CoerceTaxRegime normaliza al nombre canónico del régimen; si no lo reconoce, devuelve el valor recortado.
func CoerceTaxRegime(raw string) string {
	if c, ok := taxRegimeVocabulary.match(raw); ok {
		return c
	}
	return strings.TrimSpace(raw)
}

func permissive(v vocabulary, raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}
	if c, ok := v.match(t); ok {
		return c
	}
	return strings.ToUpper(t)
}

// ParseAlerts separa la celda de alertas por ";", "|" o salto de línea.
func ParseAlerts(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '|' || r == '\n' || r == '\r'
	})
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ── Registro tipado ───────────────────────────────────────────────────────────

// Record valores ya normalizados y tipados de una fila. Vacío / nil = no informado.
type Record struct {
	Name            string
	CNPJ            string
	CPF             string
	Sector          string
	Segment         string
	TaxRegime       string
	ComplexityLevel string
	ClientClass     string
	Classification  string
	Group           string
	Municipality    string
	Situation       string
	HonoraryValue   *decimal.Decimal
	Responsibles    map[entity.Area]string
	Alerts          []string
}

var responsibleFields = map[entity.Area]Field{
	entity.AreaFiscal:     FieldResponsibleFiscal,
	entity.AreaPersonnel:  FieldResponsiblePersonnel,
	entity.AreaAccounting: FieldResponsibleAccounting,
	entity.AreaBilling:    FieldResponsibleBilling,
}

// ResponsibleResolver traduce lo escrito en la planilla (nombre, email o id) al id del profile.
// Devuelve ok=false si no lo reconoce.
type ResponsibleResolver func(raw string) (id string, ok bool)

// Coerce resuelve todos los campos de la fila y aplica la coerción de cada uno.
// Responsables no reconocidos por resolve se guardan con el texto original.
func Coerce(row Row, resolve ResponsibleResolver) Record {
	rec := Record{
		Name:            Resolve(row, FieldName),
		CNPJ:            Resolve(row, FieldCNPJ),
		CPF:             Resolve(row, FieldCPF),
		Sector:          CoerceSector(Resolve(row, FieldSector)),
		Segment:         Resolve(row, FieldSegment),
		TaxRegime:       CoerceTaxRegime(Resolve(row, FieldTaxRegime)),
		ComplexityLevel: CoerceComplexity(Resolve(row, FieldComplexity)),
		ClientClass:     Resolve(row, FieldClientClass),
		Classification:  CoerceClassification(Resolve(row, FieldClassification)),
		Group:           Resolve(row, FieldGroup),
		Municipality:    CoerceMunicipality(Resolve(row, FieldMunicipality)),
		Situation:       Resolve(row, FieldSituation),
		HonoraryValue:   ParseHonorary(Resolve(row, FieldHonorary)),
		Alerts:          ParseAlerts(Resolve(row, FieldAlerts)),
	}
	for _, area := range entity.Areas {
		raw := Resolve(row, responsibleFields[area])
		if raw == "" {
			continue
		}
		if resolve != nil {
			if id, ok := resolve(raw); ok {
				raw = id
			}
		}
		if rec.Responsibles == nil {
			rec.Responsibles = make(map[entity.Area]string)
		}
		rec.Responsibles[area] = raw
	}
	return rec
}

// ApplyTo actualización parcial: solo los campos informados sobrescriben la empresa.
func (r Record) ApplyTo(c *entity.Company) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Name, r.Name)
	set(&c.CNPJ, r.CNPJ)
	set(&c.CPF, r.CPF)
	set(&c.Sector, r.Sector)
	set(&c.Segment, r.Segment)
	set(&c.TaxRegime, r.TaxRegime)
	set(&c.ComplexityLevel, r.ComplexityLevel)
	set(&c.ClientClass, r.ClientClass)
	set(&c.Classification, r.Classification)
	set(&c.Group, r.Group)
	set(&c.Municipality, r.Municipality)
	set(&c.Situation, r.Situation)
	if r.HonoraryValue != nil {
		v := *r.HonoraryValue
		c.HonoraryValue = &v
	}
	for area, id := range r.Responsibles {
		if c.Responsibles == nil {
			c.Responsibles = make(map[entity.Area]string)
		}
		c.Responsibles[area] = id
	}
	if len(r.Alerts) > 0 {
		c.Alerts = append([]string(nil), r.Alerts...)
	}
}

// NewCompany construye una empresa nueva a partir del registro.
// Sin régimen informado se asigna entity.DefaultTaxRegime.
func (r Record) NewCompany() entity.Company {
	var c entity.Company
	r.ApplyTo(&c)
	if c.TaxRegime == "" {
		c.TaxRegime = entity.DefaultTaxRegime
	}
	if c.Alerts == nil {
		c.Alerts = []string{}
	}
	return c
}
