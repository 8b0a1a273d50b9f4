package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
)

// memCompanyRepo implementación en memoria de repository.CompanyRepository.
type memCompanyRepo struct {
	mu        sync.Mutex
	items     map[string]entity.Company
	listCalls int
	failOn    map[string]error // nombre de empresa -> error al crear/actualizar
	listErr   error
	afterSave func(c *entity.Company)
}

func newMemCompanyRepo(seed ...entity.Company) *memCompanyRepo {
	r := &memCompanyRepo{items: make(map[string]entity.Company), failOn: make(map[string]error)}
	for _, c := range seed {
		r.items[c.ID] = c.Clone()
	}
	return r
}

func (r *memCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	if err := r.failOn[c.Name]; err != nil {
		r.mu.Unlock()
		return err
	}
	if _, ok := r.items[c.ID]; ok {
		r.mu.Unlock()
		return domain.ErrDuplicate
	}
	r.items[c.ID] = c.Clone()
	r.mu.Unlock()
	r.saved(c)
	return nil
}

func (r *memCompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	if err := r.failOn[c.Name]; err != nil {
		r.mu.Unlock()
		return err
	}
	if _, ok := r.items[c.ID]; !ok {
		r.mu.Unlock()
		return domain.ErrNotFound
	}
	r.items[c.ID] = c.Clone()
	r.mu.Unlock()
	r.saved(c)
	return nil
}

func (r *memCompanyRepo) saved(c *entity.Company) {
	if r.afterSave != nil {
		r.afterSave(c)
	}
}

func (r *memCompanyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memCompanyRepo) ListAll(_ context.Context) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*entity.Company, 0, len(r.items))
	for _, c := range r.items {
		cp := c.Clone()
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCompanyRepo) byID(id string) *entity.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil
	}
	cp := c.Clone()
	return &cp
}

func (r *memCompanyRepo) byName(name string) *entity.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Name == name {
			cp := c.Clone()
			return &cp
		}
	}
	return nil
}

// memProfileRepo implementación en memoria de repository.ProfileRepository.
type memProfileRepo struct {
	mu    sync.Mutex
	items map[string]entity.Profile
}

func newMemProfileRepo(seed ...entity.Profile) *memProfileRepo {
	r := &memProfileRepo{items: make(map[string]entity.Profile)}
	for _, p := range seed {
		r.items[p.ID] = p
	}
	return r
}

func (r *memProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProfileRepo) List(_ context.Context) ([]*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Profile, 0, len(r.items))
	for _, p := range r.items {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	r.items[p.ID] = *p
	return nil
}

var errStore = errors.New("store caído")

var (
	rootProfile    = &entity.Profile{ID: "root-1", Name: "Raquel Root", Email: "root@escritorio.com.br", Role: entity.RoleRoot}
	managerProfile = &entity.Profile{ID: "mgr-1", Name: "Marcos Gerente", Email: "marcos@escritorio.com.br", Role: entity.RoleManager}
	anaProfile     = &entity.Profile{ID: "ana-1", Name: "Ana Fiscal", Email: "ana@escritorio.com.br", Role: entity.RoleCollaborator, Sector: "fiscal"}
)

func profileSeed() []entity.Profile {
	return []entity.Profile{*rootProfile, *managerProfile, *anaProfile}
}
