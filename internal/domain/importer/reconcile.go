package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/pkg/brdoc"
)

// Valid devuelve las filas importables: aquellas cuyo nombre no queda vacío tras recortar.
// Las demás se descartan sin reportarse.
func Valid(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if Resolve(r, FieldName) != "" {
			out = append(out, r)
		}
	}
	return out
}

// Outcome resultado aplicado a una fila.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}

// Applied fila conciliada. Company es el estado completo de la empresa tras aplicar la fila
// (para Skipped, la empresa existente que coincidió).
type Applied struct {
	Line    int
	Outcome Outcome
	Company entity.Company
}

// RowError fallo aislado de una fila; el lote continúa.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("Linha %d: %s", e.Line, e.Reason)
}

// BatchResult resultado de conciliar un lote: filas aplicadas y filas fallidas.
type BatchResult struct {
	Applied []Applied
	Failed  []RowError
}

// Count cuenta las filas aplicadas con el resultado indicado.
func (b BatchResult) Count(o Outcome) int {
	n := 0
	for _, a := range b.Applied {
		if a.Outcome == o {
			n++
		}
	}
	return n
}

// Options parámetros de la conciliación.
type Options struct {
	UpdateExisting bool
	Resolve        ResponsibleResolver
	NewID          func() string
	Now            func() time.Time
}

// Reconcile concilia las filas válidas contra las empresas existentes.
//
// Una fila coincide con una empresa por CNPJ/CPF si la fila trae documento;
// si no, por nombre sin distinguir mayúsculas. Con coincidencia y UpdateExisting
// se aplica una actualización parcial (Updated); sin UpdateExisting la fila se omite
// (Skipped); sin coincidencia se crea una empresa nueva (Created). Las empresas creadas
// en el mismo lote también pueden coincidir con filas posteriores.
//
// Un fallo en una fila se registra en Failed con su número y no detiene el lote.
// existing no se modifica.
func Reconcile(rows []Row, existing []entity.Company, opts Options) BatchResult {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	idx := newMatchIndex(existing)
	var res BatchResult
	for _, row := range rows {
		applied, err := reconcileRow(row, idx, opts)
		if err != nil {
			res.Failed = append(res.Failed, RowError{Line: row.Line, Reason: err.Error()})
			continue
		}
		res.Applied = append(res.Applied, applied)
	}
	return res
}

func reconcileRow(row Row, idx *matchIndex, opts Options) (applied Applied, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	rec := Coerce(row, opts.Resolve)
	if rec.Name == "" {
		return Applied{}, fmt.Errorf("nome vazio")
	}
	if rec.HonoraryValue != nil && rec.HonoraryValue.IsNegative() {
		return Applied{}, fmt.Errorf("honorário negativo: %s", rec.HonoraryValue.String())
	}
	now := opts.Now()

	if current := idx.find(rec); current != nil {
		if !opts.UpdateExisting {
			return Applied{Line: row.Line, Outcome: OutcomeSkipped, Company: current.Clone()}, nil
		}
		idx.forget(current)
		rec.ApplyTo(current)
		current.UpdatedAt = now
		idx.remember(current)
		return Applied{Line: row.Line, Outcome: OutcomeUpdated, Company: current.Clone()}, nil
	}

	if opts.NewID == nil {
		return Applied{}, fmt.Errorf("gerador de id não configurado")
	}
	c := rec.NewCompany()
	c.ID = opts.NewID()
	c.CreatedAt = now
	c.UpdatedAt = now
	idx.add(&c)
	return Applied{Line: row.Line, Outcome: OutcomeCreated, Company: c.Clone()}, nil
}

// ── Índice de coincidencias ───────────────────────────────────────────────────

type matchIndex struct {
	byTaxID map[string]*entity.Company
	byName  map[string]*entity.Company
}

func newMatchIndex(existing []entity.Company) *matchIndex {
	idx := &matchIndex{
		byTaxID: make(map[string]*entity.Company, len(existing)),
		byName:  make(map[string]*entity.Company, len(existing)),
	}
	for i := range existing {
		c := existing[i].Clone()
		idx.add(&c)
	}
	return idx
}

func (m *matchIndex) find(rec Record) *entity.Company {
	if key := TaxIDKey(firstNonEmpty(rec.CNPJ, rec.CPF)); key != "" {
		return m.byTaxID[key]
	}
	return m.byName[NameKey(rec.Name)]
}

// add registra una empresa nueva; la primera empresa con una clave dada es la que coincide.
func (m *matchIndex) add(c *entity.Company) {
	if key := TaxIDKey(c.TaxID()); key != "" {
		if _, ok := m.byTaxID[key]; !ok {
			m.byTaxID[key] = c
		}
	}
	if key := NameKey(c.Name); key != "" {
		if _, ok := m.byName[key]; !ok {
			m.byName[key] = c
		}
	}
}

func (m *matchIndex) forget(c *entity.Company) {
	if key := TaxIDKey(c.TaxID()); key != "" && m.byTaxID[key] == c {
		delete(m.byTaxID, key)
	}
	if key := NameKey(c.Name); key != "" && m.byName[key] == c {
		delete(m.byName, key)
	}
}

func (m *matchIndex) remember(c *entity.Company) {
	m.add(c)
}

// TaxIDKey clave de coincidencia por documento: solo dígitos; si no hay dígitos, el texto en mayúsculas.
func TaxIDKey(taxID string) string {
	t := strings.TrimSpace(taxID)
	if t == "" {
		return ""
	}
	if d := brdoc.Digits(t); d != "" {
		return d
	}
	return strings.ToUpper(t)
}

// NameKey clave de coincidencia por nombre (sin distinguir mayúsculas).
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
