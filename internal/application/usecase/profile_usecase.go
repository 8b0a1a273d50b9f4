package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/importer"
	"github.com/jhoicas/Honorarios-api/internal/domain/repository"
)

// ProfileUseCase lectura de perfiles y administración de rol, sector y delegación.
// Crear usuarios o cambiar contraseñas es tarea del servicio de autenticación.
type ProfileUseCase struct {
	repo repository.ProfileRepository
	now  func() time.Time
}

// NewProfileUseCase construye el caso de uso con el puerto de persistencia.
func NewProfileUseCase(repo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{repo: repo, now: time.Now}
}

// Load obtiene el profile del usuario autenticado. Devuelve domain.ErrProfileNotFound si no existe.
func (uc *ProfileUseCase) Load(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

// List lista todos los perfiles ordenados por nombre.
func (uc *ProfileUseCase) List(ctx context.Context) ([]dto.ProfileResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	out := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		if p != nil {
			out = append(out, ToProfileResponse(p))
		}
	}
	return out, nil
}

// Update aplica cambios de nombre, rol, sector o delegación.
//
// Reglas: solo root o manager con can_manage_users administran perfiles; solo root
// otorga el rol root o cambia can_manage_users; un profile root solo lo edita root.
func (uc *ProfileUseCase) Update(ctx context.Context, actor *entity.Profile, id string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if !actor.CanAdministerUsers() {
		return nil, fmt.Errorf("%w: sin permiso para administrar usuarios", domain.ErrForbidden)
	}
	target, err := uc.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	isRoot := actor.Role == entity.RoleRoot
	if target.Role == entity.RoleRoot && !isRoot {
		return nil, fmt.Errorf("%w: solo root edita un perfil root", domain.ErrForbidden)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		target.Name = name
	}
	if in.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*in.Role))
		if !entity.ValidRole(role) {
			return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, *in.Role)
		}
		if role == entity.RoleRoot && !isRoot {
			return nil, fmt.Errorf("%w: solo root otorga el rol root", domain.ErrForbidden)
		}
		target.Role = role
	}
	if in.Sector != nil {
		sector := strings.ToLower(strings.TrimSpace(*in.Sector))
		if sector != "" && !entity.ValidArea(entity.Area(sector)) {
			return nil, fmt.Errorf("%w: sector %q desconocido", domain.ErrInvalidInput, *in.Sector)
		}
		target.Sector = sector
	}
	if in.CanManageUsers != nil && *in.CanManageUsers != target.CanManageUsers {
		if !isRoot {
			return nil, fmt.Errorf("%w: solo root cambia la delegación de usuarios", domain.ErrForbidden)
		}
		target.CanManageUsers = *in.CanManageUsers
	}

	target.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	out := ToProfileResponse(target)
	return &out, nil
}

// Directory índice de perfiles para traducir ids a nombres y reconocer responsables
// escritos en planillas (id, email o nombre).
type Directory struct {
	names map[string]string
	keys  map[string]string
}

// Directory carga el índice de perfiles.
func (uc *ProfileUseCase) Directory(ctx context.Context) (*Directory, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewDirectory(list), nil
}

// NewDirectory construye el índice a partir de la lista de perfiles.
func NewDirectory(list []*entity.Profile) *Directory {
	d := &Directory{names: make(map[string]string), keys: make(map[string]string)}
	for _, p := range list {
		if p == nil {
			continue
		}
		d.names[p.ID] = p.Name
		for _, k := range []string{p.ID, p.Email, p.Name} {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if _, ok := d.keys[k]; !ok {
				d.keys[k] = p.ID
			}
		}
	}
	return d
}

// Name nombre del profile; si el id no es un profile conocido devuelve el texto tal cual.
func (d *Directory) Name(id string) string {
	if d == nil {
		return id
	}
	if n, ok := d.names[id]; ok && n != "" {
		return n
	}
	return id
}

// Resolver devuelve el resolvedor de responsables para la importación.
func (d *Directory) Resolver() importer.ResponsibleResolver {
	return func(raw string) (string, bool) {
		if d == nil {
			return "", false
		}
		id, ok := d.keys[strings.ToLower(strings.TrimSpace(raw))]
		return id, ok
	}
}

// ToProfileResponse convierte la entidad en la salida HTTP.
func ToProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:             p.ID,
		Email:          p.Email,
		Name:           p.Name,
		Role:           p.Role,
		Sector:         p.Sector,
		CanManageUsers: p.CanManageUsers,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
