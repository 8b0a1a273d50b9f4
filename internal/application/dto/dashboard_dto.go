package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Los campos de honorario se omiten para colaboradores.
type DashboardSummaryDTO struct {
	Companies    int `json:"companies"`
	WithAlerts   int `json:"with_alerts"`
	WithHonorary int `json:"with_honorary"`

	HonoraryTotal   *decimal.Decimal `json:"honorary_total,omitempty"`
	HonoraryAverage *decimal.Decimal `json:"honorary_average,omitempty"`

	BySituation   []ChartGroupDTO `json:"by_situation"`
	ByTaxRegime   []ChartGroupDTO `json:"by_tax_regime"`
	TopByHonorary []ChartGroupDTO `json:"top_groups_by_honorary,omitempty"`

	GeneratedAt string `json:"generated_at"` // RFC3339 del snapshot
}
