package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Honorarios-api/internal/application/analytics"
	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
)

type stubSource struct {
	list     []entity.Company
	err      error
	loadedAt time.Time
}

func (s *stubSource) Visible(_ context.Context, _ *entity.Profile, _ dto.CompanyFilter) ([]entity.Company, error) {
	return s.list, s.err
}

func (s *stubSource) LoadedAt() time.Time { return s.loadedAt }

func money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func fixture() *stubSource {
	return &stubSource{
		loadedAt: time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC),
		list: []entity.Company{
			{ID: "1", Name: "A", Situation: "Ativa", TaxRegime: "Simples Nacional", Group: "G1", HonoraryValue: money(1000)},
			{ID: "2", Name: "B", Situation: "Ativa", TaxRegime: "Lucro Real", Group: "G1", HonoraryValue: money(500), Alerts: []string{"DCTF"}},
			{ID: "3", Name: "C", Situation: "Baixada", TaxRegime: "Simples Nacional"},
		},
	}
}

func TestDashboard_GetSummaryPrivilegiado(t *testing.T) {
	uc := analytics.NewDashboardUseCase(fixture())

	out, err := uc.GetSummary(context.Background(), &entity.Profile{ID: "r", Role: entity.RoleRoot}, dto.CompanyFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Companies)
	assert.Equal(t, 1, out.WithAlerts)
	assert.Equal(t, 2, out.WithHonorary)
	require.NotNil(t, out.HonoraryTotal)
	assert.True(t, decimal.NewFromInt(1500).Equal(*out.HonoraryTotal))
	assert.True(t, decimal.NewFromInt(750).Equal(*out.HonoraryAverage))
	require.Len(t, out.BySituation, 2)
	assert.Equal(t, "Ativa", out.BySituation[0].Key)
	require.NotEmpty(t, out.TopByHonorary)
	assert.Equal(t, "G1", out.TopByHonorary[0].Key)
	assert.Equal(t, "2024-05-02T08:30:00Z", out.GeneratedAt)
}

// El colaborador recibe conteos pero ningún dato de honorario.
func TestDashboard_GetSummaryColaborador(t *testing.T) {
	uc := analytics.NewDashboardUseCase(fixture())

	out, err := uc.GetSummary(context.Background(), &entity.Profile{ID: "c", Role: entity.RoleCollaborator}, dto.CompanyFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Companies)
	assert.Zero(t, out.WithHonorary)
	assert.Nil(t, out.HonoraryTotal)
	assert.Nil(t, out.HonoraryAverage)
	assert.Empty(t, out.TopByHonorary)
	for _, g := range out.ByTaxRegime {
		assert.Nil(t, g.Total)
	}
}

func TestDashboard_GetSummaryError(t *testing.T) {
	src := fixture()
	src.err = errors.New("sin conexión")
	uc := analytics.NewDashboardUseCase(src)

	_, err := uc.GetSummary(context.Background(), &entity.Profile{Role: entity.RoleRoot}, dto.CompanyFilter{})
	assert.EqualError(t, err, "sin conexión")
}
