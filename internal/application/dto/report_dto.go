package dto

import "github.com/shopspring/decimal"

// ChartQuery parámetros de GET /api/reports/charts/:dimension.
type ChartQuery struct {
	Top  int    `query:"top"`
	Sort string `query:"sort"` // "total" ordena por suma de honorarios
}

// ChartGroupDTO un grupo del gráfico. Total y TotalPct se omiten para colaboradores.
type ChartGroupDTO struct {
	Key      string           `json:"key"`
	Count    int              `json:"count"`
	CountPct decimal.Decimal  `json:"count_pct"`
	Total    *decimal.Decimal `json:"total,omitempty"`
	TotalPct *decimal.Decimal `json:"total_pct,omitempty"`
}

// ChartResponse datos de un gráfico.
type ChartResponse struct {
	Dimension string          `json:"dimension"`
	Total     int             `json:"total"`
	Groups    []ChartGroupDTO `json:"groups"`
}

// CrossTabCellDTO celda de la tabla cruzada.
type CrossTabCellDTO struct {
	Row   string           `json:"row"`
	Col   string           `json:"col"`
	Count int              `json:"count"`
	Total *decimal.Decimal `json:"total,omitempty"`
}

// CrossTabResponse tabla cruzada rows × cols.
type CrossTabResponse struct {
	RowDimension string            `json:"row_dimension"`
	ColDimension string            `json:"col_dimension"`
	Rows         []string          `json:"rows"`
	Cols         []string          `json:"cols"`
	Cells        []CrossTabCellDTO `json:"cells"`
}
