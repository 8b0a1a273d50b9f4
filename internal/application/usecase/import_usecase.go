package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/application/ports"
	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/importer"
	"github.com/jhoicas/Honorarios-api/internal/domain/repository"
	"github.com/jhoicas/Honorarios-api/pkg/logger"
)

// ImportUseCase importa empresas desde una planilla.
//
// Flujo: leer archivo -> validar filas -> conciliar contra el snapshot ->
// persistir cada alta/actualización -> releer el snapshot.
// No es atómico: las filas ya persistidas quedan aplicadas aunque otras fallen.
type ImportUseCase struct {
	snap     *CompanySnapshot
	profiles *ProfileUseCase
	reader   ports.SpreadsheetReader
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	snap *CompanySnapshot,
	profiles *ProfileUseCase,
	reader ports.SpreadsheetReader,
	log *logger.Logger,
) *ImportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportUseCase{
		snap:     snap,
		profiles: profiles,
		reader:   reader,
		log:      log.Component("import"),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Import procesa el archivo y devuelve el resumen. Un archivo ilegible devuelve error
// sin aplicar nada; los fallos por fila van en ImportResult.Errors ("Linha N: motivo").
// Solo root y manager importan.
func (uc *ImportUseCase) Import(
	ctx context.Context,
	viewer *entity.Profile,
	filename string,
	data []byte,
	opts dto.ImportOptions,
) (*dto.ImportResult, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthorized
	}
	if !viewer.IsPrivileged() {
		return nil, fmt.Errorf("%w: solo root o manager importan empresas", domain.ErrForbidden)
	}

	rows, err := uc.reader.ReadRows(filename, data)
	if err != nil {
		uc.log.Warn().Err(err).Str("file", filename).Msg("archivo de importación ilegible")
		return nil, err
	}
	valid := importer.Valid(rows)

	existing, err := uc.snap.All(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := uc.profiles.Directory(ctx)
	if err != nil {
		return nil, err
	}

	batch := importer.Reconcile(valid, existing, importer.Options{
		UpdateExisting: opts.UpdateExisting,
		Resolve:        dir.Resolver(),
		NewID:          uc.newID,
		Now:            uc.now,
	})

	failed := append([]importer.RowError(nil), batch.Failed...)
	result := &dto.ImportResult{DryRun: opts.DryRun, Errors: []string{}}

	if opts.DryRun {
		result.Imported = batch.Count(importer.OutcomeCreated)
		result.Updated = batch.Count(importer.OutcomeUpdated)
		result.Skipped = batch.Count(importer.OutcomeSkipped)
	} else {
		persistErr := uc.snap.Persist(ctx, func(repo repository.CompanyRepository) error {
			for i, a := range batch.Applied {
				if err := ctx.Err(); err != nil {
					// Lo ya escrito queda; el resto se informa fila por fila.
					for _, rest := range batch.Applied[i:] {
						if rest.Outcome == importer.OutcomeSkipped {
							result.Skipped++
							continue
						}
						failed = append(failed, importer.RowError{Line: rest.Line, Reason: "importación cancelada: " + err.Error()})
					}
					return nil
				}
				c := a.Company
				var err error
				switch a.Outcome {
				case importer.OutcomeCreated:
					err = repo.Create(ctx, &c)
				case importer.OutcomeUpdated:
					err = repo.Update(ctx, &c)
				}
				if err != nil {
					failed = append(failed, importer.RowError{Line: a.Line, Reason: err.Error()})
					continue
				}
				switch a.Outcome {
				case importer.OutcomeCreated:
					result.Imported++
				case importer.OutcomeUpdated:
					result.Updated++
				case importer.OutcomeSkipped:
					result.Skipped++
				}
			}
			return nil
		})
		if persistErr != nil {
			return nil, persistErr
		}
		if ctx.Err() != nil {
			uc.log.Warn().Err(ctx.Err()).Str("file", filename).Int("imported", result.Imported).Int("updated", result.Updated).Msg("importación interrumpida")
		}
	}

	sort.SliceStable(failed, func(i, j int) bool { return failed[i].Line < failed[j].Line })
	for _, f := range failed {
		uc.log.Warn().Int("row", f.Line).Str("reason", f.Reason).Str("file", filename).Msg("fila no importada")
		result.Errors = append(result.Errors, f.Error())
	}
	uc.log.Info().
		Str("file", filename).
		Str("user", viewer.ID).
		Int("rows", len(rows)).
		Int("valid", len(valid)).
		Int("imported", result.Imported).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Bool("dry_run", opts.DryRun).
		Msg("importación finalizada")
	return result, nil
}
