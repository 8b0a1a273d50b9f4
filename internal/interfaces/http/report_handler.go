package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
)

// ReportHandler gráficos, tabla cruzada e informes de honorarios.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Chart godoc
// @Summary      Agrupar empresas visibles por una dimensión
// @Tags         reports
// @Produce      json
// @Param        dimension  path   string  true   "sector, segment, tax_regime, classification, complexity, client_class, municipality, group, situation, responsible_<área>"
// @Param        top        query  int     false  "Cantidad máxima de grupos"
// @Param        sort       query  string  false  "total = ordenar por honorarios"
// @Success      200  {object}  dto.ChartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/charts/{dimension} [get]
func (h *ReportHandler) Chart(c *fiber.Ctx) error {
	var q dto.ChartQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "VALIDATION", "parámetros inválidos")
	}
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	out, err := h.uc.Chart(c.UserContext(), GetProfile(c), c.Params("dimension"), q, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CrossTab godoc
// @Summary      Tabla cruzada de dos dimensiones
// @Tags         reports
// @Produce      json
// @Param        rows  query  string  true  "Dimensión de las filas"
// @Param        cols  query  string  true  "Dimensión de las columnas"
// @Success      200  {object}  dto.CrossTabResponse
// @Router       /api/reports/crosstab [get]
func (h *ReportHandler) CrossTab(c *fiber.Ctx) error {
	rows, cols := c.Query("rows"), c.Query("cols")
	if rows == "" || cols == "" {
		return badRequest(c, "VALIDATION", "rows y cols son requeridos")
	}
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	out, err := h.uc.CrossTab(c.UserContext(), GetProfile(c), rows, cols, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// HonoraryExport godoc
// @Summary      Exportar honorarios a XLSX con fila TOTAL (root y manager)
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/honorary/export [get]
func (h *ReportHandler) HonoraryExport(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	file, err := h.uc.ExportHonorary(c.UserContext(), GetProfile(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file)
}

// HonoraryPDF godoc
// @Summary      Informe de honorarios en PDF agrupado por grupo económico (root y manager)
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}  file
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/honorary/pdf [get]
func (h *ReportHandler) HonoraryPDF(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	file, err := h.uc.HonoraryPDF(c.UserContext(), GetProfile(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file)
}
