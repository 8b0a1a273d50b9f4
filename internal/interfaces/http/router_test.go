package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Honorarios-api/internal/application/analytics"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Honorarios-api/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/Honorarios-api/internal/interfaces/http"
	"github.com/jhoicas/Honorarios-api/pkg/logger"
)

// ── Fakes de persistencia ─────────────────────────────────────────────────────

type memCompanies struct {
	mu    sync.Mutex
	items map[string]entity.Company
}

func (r *memCompanies) Create(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c.Clone()
	return nil
}

func (r *memCompanies) Update(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[c.ID] = c.Clone()
	return nil
}

func (r *memCompanies) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memCompanies) ListAll(_ context.Context) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Company, 0, len(r.items))
	for _, c := range r.items {
		cp := c.Clone()
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memProfiles struct {
	mu    sync.Mutex
	items map[string]entity.Profile
}

func (r *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProfiles) List(_ context.Context) ([]*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Profile, 0, len(r.items))
	for _, p := range r.items {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *memProfiles) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = *p
	return nil
}

// ── App completa ──────────────────────────────────────────────────────────────

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	fee := decimal.NewFromInt(2500)
	companies := &memCompanies{items: map[string]entity.Company{
		"c1": {ID: "c1", Name: "Alfa Comércio", CNPJ: "12.345.678/0001-95", TaxRegime: "Simples Nacional",
			HonoraryValue: &fee, Responsibles: map[entity.Area]string{entity.AreaFiscal: "u-colab"}, Alerts: []string{"DCTF"}},
		"c2": {ID: "c2", Name: "Beta Serviços", TaxRegime: "Lucro Presumido", Alerts: []string{}},
	}}
	profiles := &memProfiles{items: map[string]entity.Profile{
		"u-root":  {ID: "u-root", Name: "Raquel", Role: entity.RoleRoot},
		"u-mgr":   {ID: "u-mgr", Name: "Marcos", Role: entity.RoleManager},
		"u-colab": {ID: "u-colab", Name: "Ana", Email: "ana@escritorio.com.br", Role: entity.RoleCollaborator, Sector: "fiscal"},
	}}

	snap := usecase.NewCompanySnapshot(companies, logger.Nop())
	companyUC := usecase.NewCompanyUseCase(snap)
	profileUC := usecase.NewProfileUseCase(profiles)
	importUC := usecase.NewImportUseCase(snap, profileUC, spreadsheet.NewReader(), logger.Nop())
	reportUC := usecase.NewReportUseCase(companyUC, profileUC, spreadsheet.NewExporter(), pdf.NewHonoraryPDFGenerator("test"), usecase.ExportNames{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:      companyUC,
		ImportUC:       importUC,
		ReportUC:       reportUC,
		ProfileUC:      profileUC,
		DashboardUC:    analytics.NewDashboardUseCase(companyUC),
		JWTSecret:      testJWTSecret,
		JWTVerify:      testVerify,
		MaxUploadBytes: 1024 * 1024,
		ServiceName:    "honorarios-test",
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, user string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if user != "" {
		req.Header.Set("Authorization", tokenFor(t, user))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func jsonBody(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func multipartFile(t *testing.T, filename, content string, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	resp := call(t, newTestServer(t), http.MethodGet, "/health", "", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ApiExigeToken(t *testing.T) {
	resp := call(t, newTestServer(t), http.MethodGet, "/api/companies", "", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// El colaborador solo ve su empresa y sin honorario.
func TestRouter_ListCompaniesPorRol(t *testing.T) {
	app := newTestServer(t)

	resp := call(t, app, http.MethodGet, "/api/companies", "u-colab", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "c1", out.Items[0]["id"])
	assert.NotContains(t, out.Items[0], "honorary_value")

	resp2 := call(t, app, http.MethodGet, "/api/companies?tax_regime=lucro%20presumido", "u-mgr", nil, "")
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&out))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "c2", out.Items[0]["id"])
}

func TestRouter_CompanyNoVisibleDevuelve404(t *testing.T) {
	resp := call(t, newTestServer(t), http.MethodGet, "/api/companies/c2", "u-colab", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", bodyCode(t, resp))
}

func TestRouter_CreateYUpdate(t *testing.T) {
	app := newTestServer(t)

	resp := call(t, app, http.MethodPost, "/api/companies", "u-mgr",
		jsonBody(map[string]any{"name": "Gama Ltda", "cnpj": "11.222.333/0001-81"}), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	dup := call(t, app, http.MethodPost, "/api/companies", "u-mgr",
		jsonBody(map[string]any{"name": "Outra", "cnpj": "11222333000181"}), fiber.MIMEApplicationJSON)
	defer dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	upd := call(t, app, http.MethodPatch, "/api/companies/"+created["id"].(string), "u-mgr",
		jsonBody(map[string]any{"situation": "Ativa"}), fiber.MIMEApplicationJSON)
	defer upd.Body.Close()
	assert.Equal(t, http.StatusOK, upd.StatusCode)
}

func TestRouter_ColaboradorNoCambiaHonorario(t *testing.T) {
	resp := call(t, newTestServer(t), http.MethodPatch, "/api/companies/c1", "u-colab",
		jsonBody(map[string]any{"honorary_value": "10"}), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_DeleteSoloPrivilegiados(t *testing.T) {
	app := newTestServer(t)

	resp := call(t, app, http.MethodDelete, "/api/companies/c1", "u-colab", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp2 := call(t, app, http.MethodDelete, "/api/companies/c1", "u-root", nil, "")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp2.StatusCode)
}

func TestRouter_Alertas(t *testing.T) {
	app := newTestServer(t)

	resp := call(t, app, http.MethodPost, "/api/companies/c1/alerts", "u-colab",
		jsonBody(map[string]any{"text": "Certidão vencida"}), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out["alerts"], 2)

	bad := call(t, app, http.MethodDelete, "/api/companies/c1/alerts/x", "u-colab", nil, "")
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	ok := call(t, app, http.MethodDelete, "/api/companies/c1/alerts/0", "u-colab", nil, "")
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
}

func TestRouter_ImportCSV(t *testing.T) {
	app := newTestServer(t)
	csv := "Nome;CNPJ;Honorário;Responsável Fiscal\n" +
		"Alfa Comércio Nova;12345678000195;R$ 3.000,00;ana@escritorio.com.br\n" +
		"Delta ME;;R$ 800,00;\n"

	body, ct := multipartFile(t, "clientes.csv", csv, map[string]string{"update_existing": "true"})
	resp := call(t, app, http.MethodPost, "/api/companies/import", "u-mgr", body, ct)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Imported int      `json:"imported"`
		Updated  int      `json:"updated"`
		Skipped  int      `json:"skipped"`
		Errors   []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, 1, out.Updated)
	assert.Empty(t, out.Errors)

	list := call(t, app, http.MethodGet, "/api/companies?q=delta", "u-root", nil, "")
	defer list.Body.Close()
	var l struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&l))
	assert.Equal(t, 1, l.Total)
}

func TestRouter_ImportErrores(t *testing.T) {
	app := newTestServer(t)

	body, ct := multipartFile(t, "clientes.csv", "Nome\nAlfa\n", nil)
	resp := call(t, app, http.MethodPost, "/api/companies/import", "u-colab", body, ct)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, ct = multipartFile(t, "clientes.pdf", "Nome\nAlfa\n", nil)
	resp2 := call(t, app, http.MethodPost, "/api/companies/import", "u-mgr", body, ct)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp2.StatusCode)
	assert.Equal(t, "UNSUPPORTED_FILE", bodyCode(t, resp2))

	body, ct = multipartFile(t, "clientes.csv", "Codigo;Valor\n1;2\n", nil)
	resp3 := call(t, app, http.MethodPost, "/api/companies/import", "u-mgr", body, ct)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp3.StatusCode)
	assert.Equal(t, "PARSE_ERROR", bodyCode(t, resp3))

	for _, name := range []string{"clientes.xlsx", "clientes.xls"} {
		body, ct = multipartFile(t, name, "isto não é uma planilha", nil)
		resp := call(t, app, http.MethodPost, "/api/companies/import", "u-mgr", body, ct)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, name)
		assert.Equal(t, "PARSE_ERROR", bodyCode(t, resp), name)
	}

	body, ct = multipartFile(t, "clientes.csv", "Nome\nAlfa\n", map[string]string{"dry_run": "talvez"})
	resp4 := call(t, app, http.MethodPost, "/api/companies/import", "u-mgr", body, ct)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp4.StatusCode)
}

func TestRouter_ExportCompanies(t *testing.T) {
	resp := call(t, newTestServer(t), http.MethodGet, "/api/companies/export", "u-colab", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, usecase.ContentTypeXLSX, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "empresas_")

	data, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx es un zip")
}

func TestRouter_InformesDeHonorarios(t *testing.T) {
	app := newTestServer(t)

	for _, path := range []string{"/api/reports/honorary/export", "/api/reports/honorary/pdf"} {
		resp := call(t, app, http.MethodGet, path, "u-colab", nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := call(t, app, http.MethodGet, "/api/reports/honorary/pdf", "u-root", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, usecase.ContentTypePDF, resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, strings.Contains(resp.Header.Get(fiber.HeaderContentDisposition), ".pdf"))
}

func TestRouter_ChartsYCrossTab(t *testing.T) {
	app := newTestServer(t)

	resp := call(t, app, http.MethodGet, "/api/reports/charts/tax_regime?sort=total", "u-root", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chart struct {
		Groups []struct {
			Key string `json:"key"`
		} `json:"groups"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chart))
	require.Len(t, chart.Groups, 2)
	assert.Equal(t, "Simples Nacional", chart.Groups[0].Key)

	bad := call(t, app, http.MethodGet, "/api/reports/charts/color", "u-root", nil, "")
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	ct := call(t, app, http.MethodGet, "/api/reports/crosstab?rows=tax_regime&cols=responsible_fiscal", "u-root", nil, "")
	defer ct.Body.Close()
	assert.Equal(t, http.StatusOK, ct.StatusCode)

	missing := call(t, app, http.MethodGet, "/api/reports/crosstab?rows=tax_regime", "u-root", nil, "")
	defer missing.Body.Close()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestRouter_DashboardSummary(t *testing.T) {
	resp := call(t, newTestServer(t), http.MethodGet, "/api/dashboard/summary", "u-colab", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(1), out["companies"])
	assert.NotContains(t, out, "honorary_total")
}

func TestRouter_Perfiles(t *testing.T) {
	app := newTestServer(t)

	me := call(t, app, http.MethodGet, "/api/me", "u-colab", nil, "")
	defer me.Body.Close()
	var p map[string]any
	require.NoError(t, json.NewDecoder(me.Body).Decode(&p))
	assert.Equal(t, "Ana", p["name"])

	list := call(t, app, http.MethodGet, "/api/profiles", "u-colab", nil, "")
	defer list.Body.Close()
	assert.Equal(t, http.StatusOK, list.StatusCode)

	denied := call(t, app, http.MethodPatch, "/api/profiles/u-colab", "u-mgr",
		jsonBody(map[string]any{"sector": "billing"}), fiber.MIMEApplicationJSON)
	defer denied.Body.Close()
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)

	ok := call(t, app, http.MethodPatch, "/api/profiles/u-colab", "u-root",
		jsonBody(map[string]any{"sector": "billing"}), fiber.MIMEApplicationJSON)
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
}
