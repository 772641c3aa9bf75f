package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joeblew999/plat-visits/internal/config"
)

const boundary = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"NAME":"Idaho"},
"geometry":{"type":"Polygon","coordinates":[[[-117,42],[-111,42],[-111,49],[-117,49]]]}}]}`

// testConfig writes the boundary into <data_dir>/sources so the bare file
// name in the config resolves there.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Boundary.Path = "idaho.json"
	cfg.Boundary.RegionIndex = 0
	cfg.Cloud.Points = 10
	cfg.Cloud.Seed = 1

	sources := filepath.Join(cfg.DataDir, "sources")
	require.NoError(t, os.MkdirAll(sources, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sources, "idaho.json"), []byte(boundary), 0644))
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, `"plat-visits"`},
		{"/health", http.StatusOK, `"ok"`},
		{"/api/v1/info", http.StatusOK, `"config"`},
		{"/api/v1/deck", http.StatusOK, `"@@type":"PathLayer"`},
		{"/api/v1/flat?county=Ada", http.StatusOK, `"rows"`},
		{"/api/v1/sidebar", http.StatusOK, `"Bonneville"`},
		{"/api/v1/sources", http.StatusOK, `"idaho.json"`},
		{"/viewer", http.StatusOK, "View Church &amp; Temple Locations"},
		{"/openapi.json", http.StatusOK, "/api/v1/dashboard/deck"},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(srv, tt.path)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestServerRegionIndexOutOfRange(t *testing.T) {
	cfg := testConfig(t)
	cfg.Boundary.RegionIndex = 30
	srv := newTestServer(t, cfg)

	rec := get(srv, "/api/v1/deck")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServerDuckDBPOIs(t *testing.T) {
	cfg := testConfig(t)
	csvPath := filepath.Join(t.TempDir(), "pois.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"latitude,longitude,label,category,county\n"+
			"43.6150,-116.2023,Chapel A,church,Ada\n"+
			"43.6629,-116.1633,Temple A,temple,Ada\n"+
			"43.8250,-111.7892,Temple B,temple,Madison\n",
	), 0644))
	cfg.POISource.CSV = csvPath

	srv := newTestServer(t, cfg)
	_, err := os.Stat(filepath.Join(cfg.DataDir, "duckdb", "visits.duckdb"))
	require.NoError(t, err)

	rec := get(srv, "/api/v1/deck?county=madison")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Temple B")
	assert.NotContains(t, rec.Body.String(), "Chapel A")

	rec = get(srv, "/api/v1/info")
	assert.Contains(t, rec.Body.String(), `"duckdb"`)
	assert.Contains(t, rec.Body.String(), `"poi"`)
}

func TestServerBadPOICSV(t *testing.T) {
	cfg := testConfig(t)
	cfg.POISource.CSV = filepath.Join(t.TempDir(), "missing.csv")

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestDashboardThroughMiddleware(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/deck", strings.NewReader(`{"category":"church"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "datastar-patch-signals")
	assert.Contains(t, rec.Body.String(), "#legend")
}

func TestServerLogsConfiguration(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)

	cfg := testConfig(t)
	newTestServer(t, cfg)

	entries := logs.FilterMessage("server configured").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, filepath.Join(cfg.DataDir, "sources"), fields["sources_dir"])
	assert.Equal(t, filepath.Join(cfg.DataDir, "sources", "idaho.json"), fields["boundary"])
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/brew", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
}

func TestOpenAPIPaths(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	spec, err := json.Marshal(srv.OpenAPI())
	require.NoError(t, err)
	for _, p := range []string{"/api/v1/deck", "/api/v1/flat", "/api/v1/sidebar", "/api/v1/dashboard/counties"} {
		assert.Contains(t, string(spec), p)
	}
	assert.NotNil(t, srv.Composer())
}
