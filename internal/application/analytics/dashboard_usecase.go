// Package analytics contiene el caso de uso del resumen del dashboard.
package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/reporting"
)

// CompanySource fuente de las empresas visibles para el viewer.
type CompanySource interface {
	Visible(ctx context.Context, viewer *entity.Profile, f dto.CompanyFilter) ([]entity.Company, error)
	LoadedAt() time.Time
}

// DashboardUseCase genera los indicadores del dashboard sobre las empresas visibles.
//
// Se recalcula completo en cada petición a partir del snapshot actual.
type DashboardUseCase struct {
	companies CompanySource
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(companies CompanySource) *DashboardUseCase {
	return &DashboardUseCase{companies: companies}
}

// GetSummary construye el DashboardSummaryDTO. Para colaboradores se omiten los
// honorarios y el ranking de grupos por honorario.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, viewer *entity.Profile, f dto.CompanyFilter) (*dto.DashboardSummaryDTO, error) {
	list, err := uc.companies.Visible(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	s := reporting.Summarize(list)
	privileged := viewer.IsPrivileged()

	out := &dto.DashboardSummaryDTO{
		Companies:    s.Companies,
		WithAlerts:   s.WithAlerts,
		WithHonorary: s.WithHonorary,
		BySituation:  usecase.ToChartGroups(s.BySituation, privileged),
		ByTaxRegime:  usecase.ToChartGroups(s.ByTaxRegime, privileged),
	}
	if privileged {
		total, avg := s.HonoraryTotal, s.HonoraryAverage
		out.HonoraryTotal = &total
		out.HonoraryAverage = &avg
		out.TopByHonorary = usecase.ToChartGroups(s.TopByHonorary, true)
	} else {
		out.WithHonorary = 0
	}
	if t := uc.companies.LoadedAt(); !t.IsZero() {
		out.GeneratedAt = t.Format(time.RFC3339)
	}
	return out, nil
}
