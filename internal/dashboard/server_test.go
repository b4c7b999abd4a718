package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-io/persona/internal/config"
	"github.com/marlowe-io/persona/internal/engine"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "customers.csv")
	data := "campaign,previous,duration,housing,loan\n" +
		"1,0,0,no,no\n" +
		"2,0,0,yes,yes\n" +
		"3,0,0,no,no\n" +
		"4,0,0,no,no\n" +
		"10,0,0,no,no\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	pipeline := engine.New(config.DefaultColumns())
	_, err := pipeline.Run(context.Background(), path)
	require.NoError(t, err)

	return NewServer(pipeline, path, ":0")
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleKPIs(t *testing.T) {
	router := testServer(t).Router()

	rec := get(t, router, "/api/kpis")
	require.Equal(t, http.StatusOK, rec.Code)

	var kpis view.KPIs
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kpis))
	assert.Equal(t, 5, kpis.TotalCustomers)
	assert.Equal(t, 4, kpis.ActivePersonas)
}

func TestHandleRecordsFiltered(t *testing.T) {
	router := testServer(t).Router()

	target := "/api/records?personas=" + url.QueryEscape(string(model.PersonaLoyalist))
	rec := get(t, router, target)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []model.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, model.PersonaLoyalist, r.Persona)
	}
}

func TestHandleRecordsRange(t *testing.T) {
	router := testServer(t).Router()

	rec := get(t, router, "/api/records?min=2&max=4")
	require.Equal(t, http.StatusOK, rec.Code)

	var records []model.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 3)
	for _, r := range records {
		assert.GreaterOrEqual(t, r.Engagement, 2.0)
		assert.LessOrEqual(t, r.Engagement, 4.0)
	}
}

func TestHandleRecordsUnknownPersona(t *testing.T) {
	router := testServer(t).Router()

	rec := get(t, router, "/api/records?personas=Nobody")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRecordsBadRange(t *testing.T) {
	router := testServer(t).Router()

	rec := get(t, router, "/api/records?min=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIndex(t *testing.T) {
	router := testServer(t).Router()

	rec := get(t, router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer Persona Intelligence Dashboard")
	assert.Contains(t, rec.Body.String(), "Total Customers")
}

func TestHandleCharts(t *testing.T) {
	router := testServer(t).Router()

	rec := get(t, router, "/charts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Persona Distribution")
	assert.Contains(t, rec.Body.String(), "Risk vs Engagement")
}

func TestHandleUpload(t *testing.T) {
	server := testServer(t)
	router := server.Router()

	body := strings.NewReader("campaign,previous,duration,housing,loan\n7,0,0,no,no\n8,0,0,no,no\n")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var kpis view.KPIs
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kpis))
	assert.Equal(t, 2, kpis.TotalCustomers)

	// Later views read the uploaded dataset.
	result := server.pipeline.Current()
	require.NotNil(t, result)
	assert.Equal(t, "upload", result.Source)
	assert.Len(t, result.Records, 2)
}

func TestHandleUploadBadNumeric(t *testing.T) {
	router := testServer(t).Router()

	body := strings.NewReader("campaign,previous\nabc,0\n")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "campaign")
}

func TestHandleDistribution(t *testing.T) {
	router := testServer(t).Router()

	rec := get(t, router, "/api/distribution")
	require.Equal(t, http.StatusOK, rec.Code)

	var shares []view.Share
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shares))
	require.Len(t, shares, 4)

	total := 0.0
	for _, s := range shares {
		total += s.Pct
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}
