package http

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
	"github.com/jhoicas/Honorarios-api/internal/domain"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Company.
type CompanyHandler struct {
	uc        *usecase.CompanyUseCase
	importer  *usecase.ImportUseCase
	reports   *usecase.ReportUseCase
	maxUpload int64
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
// maxUpload es el tamaño máximo en bytes del archivo de importación.
func NewCompanyHandler(uc *usecase.CompanyUseCase, importer *usecase.ImportUseCase, reports *usecase.ReportUseCase, maxUpload int64) *CompanyHandler {
	return &CompanyHandler{uc: uc, importer: importer, reports: reports, maxUpload: maxUpload}
}

// List godoc
// @Summary      Listar empresas visibles
// @Tags         companies
// @Produce      json
// @Param        q            query  string  false  "Busca en nombre, CNPJ, CPF y grupo"
// @Param        sector       query  string  false  "Setor"
// @Param        tax_regime   query  string  false  "Regime tributário"
// @Param        responsible  query  string  false  "Id del profile responsable"
// @Success      200  {object}  dto.ListResponse[dto.CompanyResponse]
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	out, err := h.uc.List(c.UserContext(), GetProfile(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetProfile(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if strings.TrimSpace(in.Name) == "" {
		return badRequest(c, "VALIDATION", "name es requerido")
	}
	out, err := h.uc.Create(c.UserContext(), GetProfile(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Edición en línea de una empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [patch]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), GetProfile(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar empresa (root y manager)
// @Tags         companies
// @Param        id   path  string  true  "ID de la empresa"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetProfile(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddAlert POST /api/companies/:id/alerts
func (h *CompanyHandler) AddAlert(c *fiber.Ctx) error {
	var in dto.AddAlertRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.AddAlert(c.UserContext(), GetProfile(c), c.Params("id"), in.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveAlert DELETE /api/companies/:id/alerts/:index
func (h *CompanyHandler) RemoveAlert(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "VALIDATION", "index debe ser numérico")
	}
	out, err := h.uc.RemoveAlert(c.UserContext(), GetProfile(c), c.Params("id"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar empresas desde planilla (.csv, .xlsx, .xls)
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Param        file             formData  file  true   "Planilla"
// @Param        update_existing  formData  bool  false  "Actualizar empresas ya registradas"
// @Param        dry_run          formData  bool  false  "Simular sin escribir"
// @Success      200  {object}  dto.ImportResult
// @Failure      415  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/companies/import [post]
func (h *CompanyHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "campo file requerido")
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo supera %d MB", h.maxUpload/(1024*1024)),
		})
	}
	opts, err := importOptions(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.importer.Import(c.UserContext(), GetProfile(c), fh.Filename, data, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar empresas visibles a XLSX
// @Tags         companies
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/companies/export [get]
func (h *CompanyHandler) Export(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	file, err := h.reports.ExportCompanies(c.UserContext(), GetProfile(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func parseFilter(c *fiber.Ctx) (dto.CompanyFilter, error) {
	var f dto.CompanyFilter
	err := c.QueryParser(&f)
	return f, err
}

func importOptions(c *fiber.Ctx) (dto.ImportOptions, error) {
	var opts dto.ImportOptions
	for name, dst := range map[string]*bool{
		"update_existing": &opts.UpdateExisting,
		"dry_run":         &opts.DryRun,
	} {
		raw := strings.TrimSpace(c.FormValue(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("%w: %s debe ser true o false", domain.ErrInvalidInput, name)
		}
		*dst = v
	}
	return opts, nil
}

func sendFile(c *fiber.Ctx, file *usecase.ExportFile) error {
	c.Attachment(file.Name)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}
