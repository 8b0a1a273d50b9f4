package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Honorarios-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los indicadores sobre las empresas visibles.
// GET /api/dashboard/summary
//
// Acepta los mismos filtros que GET /api/companies. Los honorarios solo se
// incluyen para root y manager.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	summary, err := h.uc.GetSummary(c.UserContext(), GetProfile(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
