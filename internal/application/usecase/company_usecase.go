package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/importer"
	"github.com/jhoicas/Honorarios-api/pkg/brdoc"
)

// CompanyUseCase aplica reglas de negocio para empresas: filtros, visibilidad por rol,
// alta, edición en línea, baja y alertas. Lee siempre del snapshot.
type CompanyUseCase struct {
	snap  *CompanySnapshot
	now   func() time.Time
	newID func() string
}

// NewCompanyUseCase construye el caso de uso sobre el snapshot de empresas.
func NewCompanyUseCase(snap *CompanySnapshot) *CompanyUseCase {
	return &CompanyUseCase{
		snap:  snap,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Visible devuelve las empresas que el viewer puede ver y que cumplen el filtro.
func (uc *CompanyUseCase) Visible(ctx context.Context, viewer *entity.Profile, f dto.CompanyFilter) ([]entity.Company, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthorized
	}
	all, err := uc.snap.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Company, 0, len(all))
	for i := range all {
		c := &all[i]
		if viewer.CanSee(c) && matchFilter(c, f) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// LoadedAt momento de la última lectura de la colección.
func (uc *CompanyUseCase) LoadedAt() time.Time {
	return uc.snap.LoadedAt()
}

// List lista las empresas visibles según el filtro.
func (uc *CompanyUseCase) List(ctx context.Context, viewer *entity.Profile, f dto.CompanyFilter) (*dto.ListResponse[dto.CompanyResponse], error) {
	list, err := uc.Visible(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for i := range list {
		items = append(items, ToCompanyResponse(&list[i], viewer))
	}
	return &dto.ListResponse[dto.CompanyResponse]{Items: items, Total: len(items)}, nil
}

// GetByID obtiene una empresa visible. Devuelve domain.ErrNotFound si no existe o no es visible.
func (uc *CompanyUseCase) GetByID(ctx context.Context, viewer *entity.Profile, id string) (*dto.CompanyResponse, error) {
	c, err := uc.visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	out := ToCompanyResponse(c, viewer)
	return &out, nil
}

// Create crea una empresa desde el formulario. Devuelve domain.ErrDuplicate si ya existe
// una empresa con el mismo CNPJ/CPF.
func (uc *CompanyUseCase) Create(ctx context.Context, viewer *entity.Profile, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthorized
	}
	if in.HonoraryValue != nil && !viewer.IsPrivileged() {
		return nil, fmt.Errorf("%w: solo root o manager definen honorarios", domain.ErrForbidden)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	complexity, err := complexityInput(in.ComplexityLevel)
	if err != nil {
		return nil, err
	}
	if err := validateHonorary(in.HonoraryValue); err != nil {
		return nil, err
	}
	responsibles, err := responsiblesInput(in.Responsibles)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	c := &entity.Company{
		ID:              uc.newID(),
		Name:            name,
		CNPJ:            strings.TrimSpace(in.CNPJ),
		CPF:             strings.TrimSpace(in.CPF),
		Sector:          importer.CoerceSector(in.Sector),
		Segment:         strings.TrimSpace(in.Segment),
		TaxRegime:       importer.CoerceTaxRegime(in.TaxRegime),
		ComplexityLevel: complexity,
		ClientClass:     strings.TrimSpace(in.ClientClass),
		Classification:  importer.CoerceClassification(in.Classification),
		Group:           strings.TrimSpace(in.Group),
		Municipality:    importer.CoerceMunicipality(in.Municipality),
		Situation:       strings.TrimSpace(in.Situation),
		HonoraryValue:   in.HonoraryValue,
		Responsibles:    responsibles,
		Alerts:          cleanAlerts(in.Alerts),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.ensureUniqueTaxID(ctx, c); err != nil {
		return nil, err
	}
	if err := uc.snap.Create(ctx, c); err != nil {
		return nil, err
	}
	out := ToCompanyResponse(c, viewer)
	return &out, nil
}

// Update edición en línea: solo cambian los campos presentes. Los colaboradores no
// pueden cambiar el honorario.
func (uc *CompanyUseCase) Update(ctx context.Context, viewer *entity.Profile, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	c, err := uc.visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if (in.HonoraryValue != nil || in.ClearHonorary) && !viewer.IsPrivileged() {
		return nil, fmt.Errorf("%w: solo root o manager cambian honorarios", domain.ErrForbidden)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		c.Name = name
	}
	if in.ComplexityLevel != nil {
		complexity, err := complexityInput(*in.ComplexityLevel)
		if err != nil {
			return nil, err
		}
		c.ComplexityLevel = complexity
	}
	setTrimmed(&c.CNPJ, in.CNPJ)
	setTrimmed(&c.CPF, in.CPF)
	setTrimmed(&c.Segment, in.Segment)
	setTrimmed(&c.ClientClass, in.ClientClass)
	setTrimmed(&c.Group, in.Group)
	setTrimmed(&c.Situation, in.Situation)
	setCoerced(&c.Sector, in.Sector, importer.CoerceSector)
	setCoerced(&c.TaxRegime, in.TaxRegime, importer.CoerceTaxRegime)
	setCoerced(&c.Classification, in.Classification, importer.CoerceClassification)
	setCoerced(&c.Municipality, in.Municipality, importer.CoerceMunicipality)

	switch {
	case in.ClearHonorary:
		c.HonoraryValue = nil
	case in.HonoraryValue != nil:
		if err := validateHonorary(in.HonoraryValue); err != nil {
			return nil, err
		}
		c.HonoraryValue = in.HonoraryValue
	}
	if in.Responsibles != nil {
		changes, err := responsiblesInput(in.Responsibles)
		if err != nil {
			return nil, err
		}
		if c.Responsibles == nil {
			c.Responsibles = make(map[entity.Area]string)
		}
		for area := range in.Responsibles {
			a := entity.Area(strings.ToLower(strings.TrimSpace(area)))
			if id := changes[a]; id != "" {
				c.Responsibles[a] = id
			} else {
				delete(c.Responsibles, a)
			}
		}
	}
	if in.Alerts != nil {
		c.Alerts = cleanAlerts(in.Alerts)
	}

	if in.CNPJ != nil || in.CPF != nil {
		if err := uc.ensureUniqueTaxID(ctx, c); err != nil {
			return nil, err
		}
	}
	c.UpdatedAt = uc.now()
	if err := uc.snap.Update(ctx, c); err != nil {
		return nil, err
	}
	out := ToCompanyResponse(c, viewer)
	return &out, nil
}

// Delete elimina una empresa (solo root y manager).
func (uc *CompanyUseCase) Delete(ctx context.Context, viewer *entity.Profile, id string) error {
	if viewer == nil {
		return domain.ErrUnauthorized
	}
	if !viewer.IsPrivileged() {
		return fmt.Errorf("%w: solo root o manager eliminan empresas", domain.ErrForbidden)
	}
	if _, err := uc.visible(ctx, viewer, id); err != nil {
		return err
	}
	return uc.snap.Delete(ctx, id)
}

// AddAlert agrega una alerta al final de la lista.
func (uc *CompanyUseCase) AddAlert(ctx context.Context, viewer *entity.Profile, id, text string) (*dto.CompanyResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: la alerta está vacía", domain.ErrInvalidInput)
	}
	c, err := uc.visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	c.Alerts = append(c.Alerts, text)
	return uc.saveAlerts(ctx, viewer, c)
}

// RemoveAlert quita la alerta en la posición index (0-based).
func (uc *CompanyUseCase) RemoveAlert(ctx context.Context, viewer *entity.Profile, id string, index int) (*dto.CompanyResponse, error) {
	c, err := uc.visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Alerts) {
		return nil, fmt.Errorf("%w: alerta %d inexistente", domain.ErrInvalidInput, index)
	}
	c.Alerts = append(c.Alerts[:index:index], c.Alerts[index+1:]...)
	return uc.saveAlerts(ctx, viewer, c)
}

func (uc *CompanyUseCase) saveAlerts(ctx context.Context, viewer *entity.Profile, c *entity.Company) (*dto.CompanyResponse, error) {
	c.UpdatedAt = uc.now()
	if err := uc.snap.Update(ctx, c); err != nil {
		return nil, err
	}
	out := ToCompanyResponse(c, viewer)
	return &out, nil
}

// visible busca la empresa en el snapshot y aplica la visibilidad del viewer.
// Una empresa no visible se reporta como inexistente.
func (uc *CompanyUseCase) visible(ctx context.Context, viewer *entity.Profile, id string) (*entity.Company, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthorized
	}
	c, err := uc.snap.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !viewer.CanSee(c) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *CompanyUseCase) ensureUniqueTaxID(ctx context.Context, c *entity.Company) error {
	key := importer.TaxIDKey(c.TaxID())
	if key == "" {
		return nil
	}
	all, err := uc.snap.All(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID != c.ID && importer.TaxIDKey(all[i].TaxID()) == key {
			return fmt.Errorf("%w: ya existe una empresa con el documento %s", domain.ErrDuplicate, brdoc.FormatCNPJ(c.TaxID()))
		}
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// ToCompanyResponse convierte la entidad en la salida HTTP. El honorario solo se
// incluye para root y manager.
func ToCompanyResponse(c *entity.Company, viewer *entity.Profile) dto.CompanyResponse {
	out := dto.CompanyResponse{
		ID:              c.ID,
		Name:            c.Name,
		CNPJ:            c.CNPJ,
		CPF:             c.CPF,
		Sector:          c.Sector,
		Segment:         c.Segment,
		TaxRegime:       c.TaxRegime,
		ComplexityLevel: c.ComplexityLevel,
		ClientClass:     c.ClientClass,
		Classification:  c.Classification,
		Group:           c.Group,
		Municipality:    c.Municipality,
		Situation:       c.Situation,
		Responsibles:    make(map[string]string, len(c.Responsibles)),
		Alerts:          append([]string{}, c.Alerts...),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	for area, id := range c.Responsibles {
		out.Responsibles[string(area)] = id
	}
	if viewer.IsPrivileged() && c.HonoraryValue != nil {
		v := *c.HonoraryValue
		out.HonoraryValue = &v
	}
	return out
}

func matchFilter(c *entity.Company, f dto.CompanyFilter) bool {
	eq := func(want, got string) bool {
		want = strings.TrimSpace(want)
		return want == "" || strings.EqualFold(want, strings.TrimSpace(got))
	}
	if !eq(f.Sector, c.Sector) || !eq(f.Segment, c.Segment) || !eq(f.TaxRegime, c.TaxRegime) ||
		!eq(f.Classification, c.Classification) || !eq(f.ComplexityLevel, c.ComplexityLevel) ||
		!eq(f.ClientClass, c.ClientClass) || !eq(f.Group, c.Group) ||
		!eq(f.Municipality, c.Municipality) || !eq(f.Situation, c.Situation) {
		return false
	}
	if r := strings.TrimSpace(f.Responsible); r != "" && !c.HasResponsible(r) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Q)); q != "" {
		hay := strings.ToLower(strings.Join([]string{c.Name, c.CNPJ, c.CPF, c.Group}, " "))
		if !strings.Contains(hay, q) {
			digits := brdoc.Digits(q)
			if digits == "" || !strings.Contains(brdoc.Digits(c.CNPJ+" "+c.CPF), digits) {
				return false
			}
		}
	}
	return true
}

func complexityInput(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	c := importer.CoerceComplexity(raw)
	if c == "" {
		return "", fmt.Errorf("%w: complejidad %q no reconocida", domain.ErrInvalidInput, raw)
	}
	return c, nil
}

func responsiblesInput(in map[string]string) (map[entity.Area]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[entity.Area]string, len(in))
	for k, v := range in {
		a := entity.Area(strings.ToLower(strings.TrimSpace(k)))
		if !entity.ValidArea(a) {
			return nil, fmt.Errorf("%w: área %q desconocida", domain.ErrInvalidInput, k)
		}
		if id := strings.TrimSpace(v); id != "" {
			out[a] = id
		}
	}
	return out, nil
}

func validateHonorary(v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return fmt.Errorf("%w: el honorario no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func cleanAlerts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if t := strings.TrimSpace(a); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setCoerced(dst *string, v *string, coerce func(string) string) {
	if v != nil {
		*dst = coerce(*v)
	}
}
