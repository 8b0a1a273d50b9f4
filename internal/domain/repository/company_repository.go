package repository

import (
	"context"

	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Cada llamada es independiente:
// no hay transacciones que abarquen varias empresas. Las lecturas por id se
// resuelven sobre el snapshot (usecase.CompanySnapshot.Find).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, id string) error
	// ListAll devuelve la colección completa ordenada por nombre.
	ListAll(ctx context.Context) ([]*entity.Company, error)
}
