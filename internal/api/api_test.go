package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/store"
	"github.com/compayre/backend/internal/pkg/store/memstore"
	"github.com/compayre/backend/internal/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, s *memstore.Store) {
	t.Helper()
	ctx := context.Background()

	for _, c := range []*dto.CompanyDto{
		{CompanyID: "500001", Name: "Acme", Sector: ptr("Energy"), Industry: ptr("Power")},
		{CompanyID: "500002", Name: "Beta", Sector: ptr("Banking")},
	} {
		_, err := s.UpsertCompany(ctx, c)
		require.NoError(t, err)
	}

	ref, _, err := s.UpsertDirector(ctx, &dto.DirectorDto{DirectorID: "00012345", CompanyID: "500001", Name: "A. Person", Category: ptr("Executive")})
	require.NoError(t, err)

	for _, year := range []int{2012, 2014, 2013} {
		fy := time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC)
		_, err := s.UpsertRemuneration(ctx, &dto.RemunerationDto{CompanyID: "500001", DirectorRef: ref, FYEndDate: fy, FYLabel: "FY" + fy.Format("2006"), BasicSalary: ptr(10.0)})
		require.NoError(t, err)
		_, err = s.UpsertFinancial(ctx, &dto.FinancialDto{CompanyID: "500001", FYEndDate: fy, FYLabel: "FY" + fy.Format("2006"), PAT: ptr(1.0)})
		require.NoError(t, err)
	}

	_, err = s.UpsertPeer(ctx, &dto.PeerDto{CompanyID: "500001", PeerCompanyID: "500002", PeerPosition: 1})
	require.NoError(t, err)
}

func newTestAPI(t *testing.T) (*APIService, *memstore.Store) {
	t.Helper()
	s := memstore.New(store.PolicyFill)
	seed(t, s)

	svc, err := NewAPIService(s, Options{JWTSecret: testSecret, CORSOrigins: []string{"*"}, UploadDir: t.TempDir()})
	require.NoError(t, err)
	return svc, s
}

func token(t *testing.T, role string) string {
	t.Helper()
	signed, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: "1", Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return signed
}

func do(svc *APIService, req *http.Request, bearer string) *httptest.ResponseRecorder {
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, svc *APIService, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	return do(svc, httptest.NewRequest(http.MethodGet, path, nil), bearer)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAuthRequired(t *testing.T) {
	svc, _ := newTestAPI(t)

	rec := get(t, svc, "/api/v1/companies", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, decode[domain.ErrorResponse](t, rec).Code)

	rec = get(t, svc, "/api/v1/companies", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, svc, "/api/v1/companies", token(t, "guest"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListCompanies(t *testing.T) {
	svc, _ := newTestAPI(t)
	bearer := token(t, constants.RoleUser)

	rec := get(t, svc, "/api/v1/companies", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Company](t, rec), 2)

	rec = get(t, svc, "/api/v1/companies?sector=Energy", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	companies := decode[[]domain.Company](t, rec)
	require.Len(t, companies, 1)
	assert.Equal(t, "500001", companies[0].CompanyID)

	rec = get(t, svc, "/api/v1/companies/sectors", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Banking", "Energy"}, decode[[]string](t, rec))

	rec = get(t, svc, "/api/v1/companies/industries", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Power"}, decode[[]string](t, rec))
}

func TestGetCompanyNotFound(t *testing.T) {
	svc, _ := newTestAPI(t)
	bearer := token(t, constants.RoleSubscriber)

	rec := get(t, svc, "/api/v1/companies/500001", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", decode[domain.Company](t, rec).Name)

	rec = get(t, svc, "/api/v1/companies/999999", bearer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDirectors(t *testing.T) {
	svc, s := newTestAPI(t)
	bearer := token(t, constants.RoleUser)

	rec := get(t, svc, "/api/v1/directors?company=500001&category=Executive", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	directors := decode[[]domain.Director](t, rec)
	require.Len(t, directors, 1)
	assert.Equal(t, "00012345", directors[0].DirectorID)

	ref, err := s.GetDirectorID(context.Background(), "00012345", "500001")
	require.NoError(t, err)
	rec = get(t, svc, "/api/v1/directors/"+strconv.FormatInt(ref, 10), bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, svc, "/api/v1/directors/abc", bearer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimeseriesOrderedByFiscalYearDesc(t *testing.T) {
	svc, _ := newTestAPI(t)
	bearer := token(t, constants.RoleUser)

	rec := get(t, svc, "/api/v1/director-remuneration?company=500001", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	rems := decode[[]domain.Remuneration](t, rec)
	require.Len(t, rems, 3)
	assert.Equal(t, []string{"FY2014", "FY2013", "FY2012"}, []string{rems[0].FYLabel, rems[1].FYLabel, rems[2].FYLabel})

	rec = get(t, svc, "/api/v1/financial-timeseries?company=500001&fy_label=FY2013", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Financial](t, rec), 1)

	rec = get(t, svc, "/api/v1/peer-comparisons?company=500001&peer_position=1", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.PeerComparison](t, rec), 1)

	rec = get(t, svc, "/api/v1/peer-comparisons?peer_position=9", bearer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func workbookUpload(t *testing.T, rows [][]any) (*bytes.Buffer, string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Companies"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Companies", cell, &row))
	}
	book, err := f.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "companies.xlsx")
	require.NoError(t, err)
	_, err = io.Copy(part, book)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestAdminIngest(t *testing.T) {
	svc, s := newTestAPI(t)

	body, contentType := workbookUpload(t, [][]any{
		{"company_id", "name", "sector"},
		{"500003", "Gamma", "Retail"},
		{"500001", "Acme", "Energy"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ingest", bytes.NewReader(body.Bytes()))
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := do(svc, req, token(t, constants.RoleSubscriber))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/ingest", bytes.NewReader(body.Bytes()))
	req.Header.Set(echo.HeaderContentType, contentType)
	rec = do(svc, req, token(t, constants.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary struct {
		File   string `json:"file"`
		Totals struct {
			Companies struct {
				Created  int `json:"created"`
				Existing int `json:"existing"`
			} `json:"companies"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "companies.xlsx", summary.File)
	assert.Equal(t, 1, summary.Totals.Companies.Created)
	assert.Equal(t, 1, summary.Totals.Companies.Existing)

	_, err := s.GetCompany(context.Background(), "500003")
	assert.NoError(t, err)
}

func TestAdminIngestStructuralError(t *testing.T) {
	svc, _ := newTestAPI(t)

	body, contentType := workbookUpload(t, [][]any{
		{"sector"},
		{"Retail"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ingest", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := do(svc, req, token(t, constants.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/ingest", nil)
	rec = do(svc, req, token(t, constants.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
