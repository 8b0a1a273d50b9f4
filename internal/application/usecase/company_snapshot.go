package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/repository"
	"github.com/jhoicas/Honorarios-api/pkg/logger"
)

// CompanySnapshot mantiene la última lectura completa de la colección de empresas.
//
// Las lecturas reciben una copia profunda: nadie comparte el estado interno.
// Cada mutación es una llamada independiente al repositorio seguida de una
// relectura completa que reemplaza el snapshot; no hay merge ni actualización optimista.
type CompanySnapshot struct {
	repo repository.CompanyRepository
	log  *logger.Logger

	mu        sync.RWMutex
	companies []entity.Company
	loadedAt  time.Time
	stale     bool
	readSeq   uint64 // relecturas iniciadas
	shownSeq  uint64 // relectura instalada
	failedSeq uint64 // última relectura fallida
}

// NewCompanySnapshot construye el snapshot vacío; la primera lectura lo carga.
func NewCompanySnapshot(repo repository.CompanyRepository, log *logger.Logger) *CompanySnapshot {
	if log == nil {
		log = logger.Nop()
	}
	return &CompanySnapshot{repo: repo, log: log.Component("company_snapshot"), stale: true}
}

// Refresh relee la colección completa y reemplaza el snapshot. Una relectura que
// termina después de otra iniciada más tarde se descarta: sus datos son más viejos.
func (s *CompanySnapshot) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.readSeq++
	seq := s.readSeq
	s.mu.Unlock()

	list, err := s.repo.ListAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.failedSeq = max(s.failedSeq, seq)
		s.stale = true
		s.mu.Unlock()
		return fmt.Errorf("snapshot: listar empresas: %w", err)
	}
	fresh := make([]entity.Company, 0, len(list))
	for _, c := range list {
		if c != nil {
			fresh = append(fresh, c.Clone())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.shownSeq {
		return nil
	}
	s.companies = fresh
	s.shownSeq = seq
	s.loadedAt = time.Now()
	s.stale = s.failedSeq > seq
	return nil
}

// All devuelve una copia de la colección. Si el snapshot nunca se cargó, o la última
// relectura falló, lo carga antes.
func (s *CompanySnapshot) All(ctx context.Context) ([]entity.Company, error) {
	s.mu.RLock()
	stale := s.stale
	s.mu.RUnlock()
	if stale {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Company, len(s.companies))
	for i := range s.companies {
		out[i] = s.companies[i].Clone()
	}
	return out, nil
}

// Find devuelve una copia de la empresa con el id, o nil.
func (s *CompanySnapshot) Find(ctx context.Context, id string) (*entity.Company, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// LoadedAt momento de la última relectura exitosa.
func (s *CompanySnapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Persist ejecuta fn contra el repositorio y luego relee la colección completa.
// El error de fn se devuelve tal cual. Si fn tuvo éxito pero la relectura falla,
// la escritura ya quedó hecha: se registra el fallo y el snapshot queda marcado
// para recargarse en la próxima lectura.
func (s *CompanySnapshot) Persist(ctx context.Context, fn func(repo repository.CompanyRepository) error) error {
	fnErr := fn(s.repo)
	if err := s.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("relectura del snapshot tras escritura")
	}
	return fnErr
}

// Create persiste una empresa nueva y relee la colección.
func (s *CompanySnapshot) Create(ctx context.Context, c *entity.Company) error {
	return s.Persist(ctx, func(repo repository.CompanyRepository) error {
		return repo.Create(ctx, c)
	})
}

// Update persiste los cambios de una empresa y relee la colección.
func (s *CompanySnapshot) Update(ctx context.Context, c *entity.Company) error {
	return s.Persist(ctx, func(repo repository.CompanyRepository) error {
		return repo.Update(ctx, c)
	})
}

// Delete elimina una empresa y relee la colección.
func (s *CompanySnapshot) Delete(ctx context.Context, id string) error {
	return s.Persist(ctx, func(repo repository.CompanyRepository) error {
		return repo.Delete(ctx, id)
	})
}
