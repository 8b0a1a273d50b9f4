package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// HonoraryLine una empresa en el informe de honorarios.
type HonoraryLine struct {
	Name      string
	CNPJ      string
	TaxRegime string
	Value     *decimal.Decimal
}

// HonoraryGroup empresas de un mismo grupo económico con su subtotal.
type HonoraryGroup struct {
	Name     string
	Lines    []HonoraryLine
	Subtotal decimal.Decimal
}

// HonoraryReport datos del informe de honorarios en PDF.
type HonoraryReport struct {
	Title       string
	GeneratedAt time.Time
	Groups      []HonoraryGroup
	Companies   int
	Total       decimal.Decimal
}

// HonoraryPDFGenerator genera la representación en PDF del informe de honorarios.
type HonoraryPDFGenerator interface {
	GenerateHonoraryPDF(ctx context.Context, report HonoraryReport) ([]byte, error)
}
