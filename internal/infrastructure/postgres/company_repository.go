package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, cnpj, cpf, sector, segment, tax_regime, complexity_level,
	client_class, classification, company_group, municipality, situation, honorary_value,
	responsible_fiscal, responsible_personnel, responsible_accounting, responsible_billing,
	COALESCE(alerts, '{}'), created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, cnpj, cpf, sector, segment, tax_regime, complexity_level,
			client_class, classification, company_group, municipality, situation, honorary_value,
			responsible_fiscal, responsible_personnel, responsible_accounting, responsible_billing,
			alerts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	args := append([]any{c.ID}, companyValues(c)...)
	args = append(args, c.CreatedAt, c.UpdatedAt)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// Update reescribe todos los campos editables de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, cnpj = $3, cpf = $4, sector = $5, segment = $6, tax_regime = $7,
			complexity_level = $8, client_class = $9, classification = $10, company_group = $11,
			municipality = $12, situation = $13, honorary_value = $14, responsible_fiscal = $15,
			responsible_personnel = $16, responsible_accounting = $17, responsible_billing = $18,
			alerts = $19, updated_at = $20
		WHERE id = $1`
	args := append([]any{c.ID}, companyValues(c)...)
	args = append(args, c.UpdatedAt)
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una empresa por ID.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAll devuelve la colección completa ordenada por nombre.
func (r *CompanyRepo) ListAll(ctx context.Context) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY lower(name), id`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// companyValues columnas $2..$19 en el orden de companyColumns (sin id ni timestamps).
func companyValues(c *entity.Company) []any {
	honorary := decimal.NullDecimal{}
	if c.HonoraryValue != nil {
		honorary = decimal.NewNullDecimal(*c.HonoraryValue)
	}
	alerts := c.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return []any{
		c.Name, nullText(c.CNPJ), nullText(c.CPF), nullText(c.Sector), nullText(c.Segment),
		nullText(c.TaxRegime), nullText(c.ComplexityLevel), nullText(c.ClientClass),
		nullText(c.Classification), nullText(c.Group), nullText(c.Municipality), nullText(c.Situation),
		honorary,
		nullText(c.Responsible(entity.AreaFiscal)), nullText(c.Responsible(entity.AreaPersonnel)),
		nullText(c.Responsible(entity.AreaAccounting)), nullText(c.Responsible(entity.AreaBilling)),
		alerts,
	}
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var (
		c        entity.Company
		text     [11]*string
		resp     [4]*string
		honorary decimal.NullDecimal
	)
	err := row.Scan(
		&c.ID, &c.Name,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5], &text[6], &text[7], &text[8], &text[9], &text[10],
		&honorary,
		&resp[0], &resp[1], &resp[2], &resp[3],
		&c.Alerts, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for i, dst := range []*string{
		&c.CNPJ, &c.CPF, &c.Sector, &c.Segment, &c.TaxRegime, &c.ComplexityLevel,
		&c.ClientClass, &c.Classification, &c.Group, &c.Municipality, &c.Situation,
	} {
		*dst = textOrEmpty(text[i])
	}
	if honorary.Valid {
		v := honorary.Decimal
		c.HonoraryValue = &v
	}
	for i, area := range entity.Areas {
		if id := textOrEmpty(resp[i]); id != "" {
			if c.Responsibles == nil {
				c.Responsibles = make(map[entity.Area]string, len(entity.Areas))
			}
			c.Responsibles[area] = id
		}
	}
	if c.Alerts == nil {
		c.Alerts = []string{}
	}
	return &c, nil
}
