package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Honorarios-api/internal/application/analytics"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Honorarios-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/Honorarios-api/internal/interfaces/http"
	"github.com/jhoicas/Honorarios-api/pkg/config"
	"github.com/jhoicas/Honorarios-api/pkg/jwt"
	"github.com/jhoicas/Honorarios-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)

	snap := usecase.NewCompanySnapshot(companyRepo, log)
	if err := snap.Refresh(ctx); err != nil {
		// La siguiente lectura reintenta; no se aborta el arranque.
		log.Error().Err(err).Msg("carga inicial de empresas")
	}

	companyUC := usecase.NewCompanyUseCase(snap)
	profileUC := usecase.NewProfileUseCase(profileRepo)
	importUC := usecase.NewImportUseCase(snap, profileUC, spreadsheet.NewReader(), log)
	reportUC := usecase.NewReportUseCase(
		companyUC, profileUC,
		spreadsheet.NewExporter(),
		infrapdf.NewHonoraryPDFGenerator(cfg.App.Name),
		usecase.ExportNames{
			CompaniesPrefix: cfg.Export.CompaniesPrefix,
			HonoraryPrefix:  cfg.Export.HonoraryPrefix,
		},
	)
	dashboardUC := appanalytics.NewDashboardUseCase(companyUC)

	refreshJob := scheduler.NewRefreshJob(snap, cfg.Scheduler.RefreshSpec, log)
	if err := refreshJob.Start(); err != nil {
		log.Fatal().Err(err).Msg("programar refresco del snapshot")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Honorários API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		ImportUC:    importUC,
		ReportUC:    reportUC,
		ProfileUC:   profileUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTVerify: jwt.VerifyOptions{
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
		},
		MaxUploadBytes: cfg.Import.MaxUploadBytes(),
		ServiceName:    cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	refreshJob.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
