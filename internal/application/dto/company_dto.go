package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest entrada para crear una empresa desde el formulario.
// Responsibles: área (fiscal, personnel, accounting, billing) -> id del profile.
type CreateCompanyRequest struct {
	Name            string            `json:"name" validate:"required,min=1,max=200"`
	CNPJ            string            `json:"cnpj"`
	CPF             string            `json:"cpf"`
	Sector          string            `json:"sector"`
	Segment         string            `json:"segment"`
	TaxRegime       string            `json:"tax_regime"`
	ComplexityLevel string            `json:"complexity_level" validate:"omitempty,oneof=High Medium Low"`
	ClientClass     string            `json:"client_class"`
	Classification  string            `json:"classification"`
	Group           string            `json:"group"`
	Municipality    string            `json:"municipality"`
	Situation       string            `json:"situation"`
	HonoraryValue   *decimal.Decimal  `json:"honorary_value"`
	Responsibles    map[string]string `json:"responsibles"`
	Alerts          []string          `json:"alerts"`
}

// UpdateCompanyRequest edición en línea (PATCH): solo los campos presentes cambian.
// Un string vacío limpia el campo; ClearHonorary borra el honorario.
type UpdateCompanyRequest struct {
	Name            *string           `json:"name" validate:"omitempty,min=1,max=200"`
	CNPJ            *string           `json:"cnpj"`
	CPF             *string           `json:"cpf"`
	Sector          *string           `json:"sector"`
	Segment         *string           `json:"segment"`
	TaxRegime       *string           `json:"tax_regime"`
	ComplexityLevel *string           `json:"complexity_level" validate:"omitempty,oneof=High Medium Low"`
	ClientClass     *string           `json:"client_class"`
	Classification  *string           `json:"classification"`
	Group           *string           `json:"group"`
	Municipality    *string           `json:"municipality"`
	Situation       *string           `json:"situation"`
	HonoraryValue   *decimal.Decimal  `json:"honorary_value"`
	ClearHonorary   bool              `json:"clear_honorary"`
	Responsibles    map[string]string `json:"responsibles"`
	Alerts          []string          `json:"alerts"`
}

// AddAlertRequest entrada para agregar una alerta a la empresa.
type AddAlertRequest struct {
	Text string `json:"text" validate:"required"`
}

// CompanyFilter filtros del listado (query string). Igualdad sin distinguir mayúsculas;
// Q busca en nombre, CNPJ, CPF y grupo.
type CompanyFilter struct {
	Q               string `query:"q"`
	Sector          string `query:"sector"`
	Segment         string `query:"segment"`
	TaxRegime       string `query:"tax_regime"`
	Classification  string `query:"classification"`
	ComplexityLevel string `query:"complexity"`
	ClientClass     string `query:"client_class"`
	Group           string `query:"group"`
	Municipality    string `query:"municipality"`
	Situation       string `query:"situation"`
	Responsible     string `query:"responsible"` // id del profile en cualquier área
}

// CompanyResponse salida de una empresa. HonoraryValue se omite para colaboradores.
type CompanyResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	CNPJ            string            `json:"cnpj,omitempty"`
	CPF             string            `json:"cpf,omitempty"`
	Sector          string            `json:"sector,omitempty"`
	Segment         string            `json:"segment,omitempty"`
	TaxRegime       string            `json:"tax_regime,omitempty"`
	ComplexityLevel string            `json:"complexity_level,omitempty"`
	ClientClass     string            `json:"client_class,omitempty"`
	Classification  string            `json:"classification,omitempty"`
	Group           string            `json:"group,omitempty"`
	Municipality    string            `json:"municipality,omitempty"`
	Situation       string            `json:"situation,omitempty"`
	HonoraryValue   *decimal.Decimal  `json:"honorary_value,omitempty"`
	Responsibles    map[string]string `json:"responsibles"`
	Alerts          []string          `json:"alerts"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
