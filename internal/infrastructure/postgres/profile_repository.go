package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo perfiles sobre PostgreSQL. Las filas las crea el servicio de autenticación.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, COALESCE(email, ''), COALESCE(name, ''), role, sector, COALESCE(can_manage_users, false), created_at, updated_at`

// GetByID devuelve nil, nil si el profile no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// List devuelve todos los perfiles.
func (r *ProfileRepo) List(ctx context.Context) ([]*entity.Profile, error) {
	rows, err := r.q.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza nombre, rol, sector y delegación.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE profiles SET name = $2, role = $3, sector = $4, can_manage_users = $5, updated_at = $6 WHERE id = $1`,
		p.ID, p.Name, p.Role, nullText(p.Sector), p.CanManageUsers, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func scanProfile(row rowScanner) (*entity.Profile, error) {
	var (
		p      entity.Profile
		sector *string
	)
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &sector, &p.CanManageUsers, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Sector = textOrEmpty(sector)
	return &p, nil
}
