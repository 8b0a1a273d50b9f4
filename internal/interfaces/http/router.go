package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Honorarios-api/internal/application/analytics"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC      *usecase.CompanyUseCase
	ImportUC       *usecase.ImportUseCase
	ReportUC       *usecase.ReportUseCase
	ProfileUC      *usecase.ProfileUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	JWTSecret      string
	JWTVerify      jwt.VerifyOptions
	MaxUploadBytes int64
	ServiceName    string
}

// Router registra /health y las rutas de la API. Todo /api exige token y profile.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTVerify), LoadProfile(deps.ProfileUC))
	privileged := RequireRole(entity.RoleRoot, entity.RoleManager)

	profileHandler := NewProfileHandler(deps.ProfileUC)
	api.Get("/me", profileHandler.Me)
	api.Get("/profiles", profileHandler.List)
	api.Patch("/profiles/:id", privileged, profileHandler.Update)

	// Companies: rutas fijas antes de /:id
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ImportUC, deps.ReportUC, deps.MaxUploadBytes)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/export", companyHandler.Export)
	companies.Post("/import", privileged, companyHandler.Import)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Patch("/:id", companyHandler.Update)
	companies.Delete("/:id", privileged, companyHandler.Delete)
	companies.Post("/:id/alerts", companyHandler.AddAlert)
	companies.Delete("/:id/alerts/:index", companyHandler.RemoveAlert)

	// Reports
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/charts/:dimension", reportHandler.Chart)
	reports.Get("/crosstab", reportHandler.CrossTab)
	reports.Get("/honorary/export", privileged, reportHandler.HonoraryExport)
	reports.Get("/honorary/pdf", privileged, reportHandler.HonoraryPDF)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
