// import_companies importa una planilla de empresas directamente en la base, sin
// pasar por la API. Útil para la carga inicial del escritorio.
//
// Uso: go run ./cmd/import_companies -file clientes.xlsx [-update] [-dry-run]
//
// Usa la misma configuración que la API (DATABASE_URL o DB_*). Las instancias de la
// API ven los cambios en el siguiente refresco programado.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Honorarios-api/pkg/config"
	"github.com/jhoicas/Honorarios-api/pkg/logger"
)

func main() {
	file := flag.String("file", "", "planilla .csv, .xlsx o .xls")
	update := flag.Bool("update", false, "actualizar empresas ya registradas")
	dryRun := flag.Bool("dry-run", false, "simular sin escribir")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "uso: import_companies -file <planilla> [-update] [-dry-run]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer planilla")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	snap := usecase.NewCompanySnapshot(postgres.NewCompanyRepository(pool), log)
	profiles := usecase.NewProfileUseCase(postgres.NewProfileRepository(pool))
	importUC := usecase.NewImportUseCase(snap, profiles, spreadsheet.NewReader(), log)

	// El CLI opera con permisos de root.
	operator := &entity.Profile{ID: "cli", Name: "import_companies", Role: entity.RoleRoot}
	res, err := importUC.Import(ctx, operator, filepath.Base(*file), data, dto.ImportOptions{
		UpdateExisting: *update,
		DryRun:         *dryRun,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("importación")
	}

	fmt.Printf("Importadas: %d  Actualizadas: %d  Omitidas: %d  Errores: %d\n",
		res.Imported, res.Updated, res.Skipped, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Println("  " + e)
	}
	if *dryRun {
		fmt.Println("(simulación: no se escribió nada)")
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}
