package repository

import (
	"context"

	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile.
// Crear o borrar perfiles es responsabilidad del servicio de autenticación.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	List(ctx context.Context) ([]*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
}
