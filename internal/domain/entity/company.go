package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Area área interna del escritorio responsable por la empresa cliente.
type Area string

// Áreas con responsable asignado (columnas responsible_* de la tabla companies).
const (
	AreaFiscal     Area = "fiscal"
	AreaPersonnel  Area = "personnel"
	AreaAccounting Area = "accounting"
	AreaBilling    Area = "billing"
)

// Areas lista ordenada de todas las áreas.
var Areas = []Area{AreaFiscal, AreaPersonnel, AreaAccounting, AreaBilling}

// ValidArea informa si a es una de las áreas conocidas.
func ValidArea(a Area) bool {
	for _, v := range Areas {
		if v == a {
			return true
		}
	}
	return false
}

// Niveles de complejidad válidos.
const (
	ComplexityHigh   = "High"
	ComplexityMedium = "Medium"
	ComplexityLow    = "Low"
)

// DefaultTaxRegime régimen asignado a las empresas nuevas importadas sin régimen.
const DefaultTaxRegime = "Simples Nacional"

// Company empresa cliente del escritorio (registro, clasificación y honorario).
// Los campos opcionales vacíos ("" / nil) se persisten como NULL.
type Company struct {
	ID              string
	Name            string
	CNPJ            string
	CPF             string
	Sector          string
	Segment         string
	TaxRegime       string
	ComplexityLevel string // High, Medium, Low o vacío
	ClientClass     string
	Classification  string
	Group           string
	Municipality    string
	Situation       string
	HonoraryValue   *decimal.Decimal // honorario mensual; nil = no informado
	Responsibles    map[Area]string  // área -> id del profile responsable
	Alerts          []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TaxID devuelve el CNPJ o, en su defecto, el CPF.
func (c *Company) TaxID() string {
	if c.CNPJ != "" {
		return c.CNPJ
	}
	return c.CPF
}

// Responsible devuelve el id del responsable del área ("" si no hay).
func (c *Company) Responsible(a Area) string {
	if c.Responsibles == nil {
		return ""
	}
	return c.Responsibles[a]
}

// HasResponsible informa si profileID es responsable de alguna área.
func (c *Company) HasResponsible(profileID string) bool {
	if profileID == "" {
		return false
	}
	for _, id := range c.Responsibles {
		if id == profileID {
			return true
		}
	}
	return false
}

// Clone copia profunda (mapas, slices y punteros no se comparten).
func (c Company) Clone() Company {
	out := c
	if c.HonoraryValue != nil {
		v := *c.HonoraryValue
		out.HonoraryValue = &v
	}
	if c.Responsibles != nil {
		out.Responsibles = make(map[Area]string, len(c.Responsibles))
		for k, v := range c.Responsibles {
			out.Responsibles[k] = v
		}
	}
	if c.Alerts != nil {
		out.Alerts = append([]string(nil), c.Alerts...)
	}
	return out
}
