package dashboard

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joeblew999/plat-visits/internal/humastar"
	"github.com/joeblew999/plat-visits/internal/service"
	"github.com/joeblew999/plat-visits/internal/templates"
)

const boundary = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"NAME":"Idaho"},
"geometry":{"type":"Polygon","coordinates":[[[-117,42],[-111,42],[-111,49],[-117,49]]]}}]}`

func newTestMux(t *testing.T, boundaryPath string) *http.ServeMux {
	t.Helper()

	renderer, err := templates.New()
	require.NoError(t, err)

	pois := service.StaticPOISource{
		service.CategoryChurch: {
			{Latitude: 43.6150, Longitude: -116.2023, Label: "Church 1", County: "Ada"},
			{Latitude: 43.4919, Longitude: -112.0405, Label: "Church 2", County: "Bonneville"},
		},
		service.CategoryTemple: {
			{Latitude: 43.6629, Longitude: -116.1633, Label: "Temple 1", County: "Ada"},
		},
	}
	composer := service.NewComposer(service.ComposerConfig{
		BoundaryPath: boundaryPath,
		RegionName:   "Idaho",
		Cloud:        service.CloudConfig{Points: 10, SpreadLat: 0.02, SpreadLon: 0.02, Seed: 7},
	}, pois, zap.NewNop())

	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("test", "1.0.0"))
	NewDeckHandler(composer, []string{"Ada", "Bonneville"}, renderer).RegisterRoutes(api)
	return mux
}

func writeBoundary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idaho.json")
	require.NoError(t, os.WriteFile(path, []byte(boundary), 0644))
	return path
}

func post(mux http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestDeckStreamsSignalsAndLegend(t *testing.T) {
	mux := newTestMux(t, writeBoundary(t))

	rec := post(mux, "/api/v1/dashboard/deck", `{"county":"ada","category":"temple"}`)
	body := rec.Body.String()

	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"@@type":"PathLayer"`)
	assert.Contains(t, body, `"mapStyle"`)
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "#legend")
	assert.Contains(t, body, `id="legend-temple-columns"`)
	// church layers stay in the legend but are hidden
	assert.Contains(t, body, `legend-item legend-item--hidden" id="legend-church-labels"`)
	assert.NotContains(t, body, "Church 2")
}

func TestDeckReportsComposeFailure(t *testing.T) {
	mux := newTestMux(t, filepath.Join(t.TempDir(), "missing.json"))

	rec := post(mux, "/api/v1/dashboard/deck", `{}`)
	body := rec.Body.String()

	assert.Contains(t, body, "Map unavailable")
	assert.Contains(t, body, "empty-state")
	assert.NotContains(t, body, "@@type")
}

func TestDeckRejectsUnknownCategory(t *testing.T) {
	mux := newTestMux(t, writeBoundary(t))

	rec := post(mux, "/api/v1/dashboard/deck", `{"category":"mosque"}`)
	body := rec.Body.String()

	assert.Contains(t, body, "Unknown category: mosque")
	assert.NotContains(t, body, "@@type")
}

func TestDeckRejectsBadSignals(t *testing.T) {
	mux := newTestMux(t, writeBoundary(t))

	rec := post(mux, "/api/v1/dashboard/deck", `{"county":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountiesSelect(t *testing.T) {
	mux := newTestMux(t, writeBoundary(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/counties", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	body := rec.Body.String()

	assert.Contains(t, body, "#county")
	assert.Contains(t, body, `<option value="">All counties</option>`)
	assert.Contains(t, body, `<option value="Bonneville">Bonneville</option>`)
}

func TestFilterFromSignals(t *testing.T) {
	f := FilterFromSignals(humastar.Signals{"county": "Ada", "category": "church", "deck": map[string]any{}})
	assert.Equal(t, service.Filter{County: "Ada", Category: "church"}, f)

	assert.Equal(t, service.Filter{}, FilterFromSignals(humastar.Signals{"county": 3}))
}

func TestLegendItems(t *testing.T) {
	layers := service.ComposeLayers(service.LayerInput{
		Temples: service.Table{{Label: "Temple 1"}},
		Filter:  service.Filter{Category: service.CategoryChurch},
	})

	items := LegendItems(layers)
	require.Len(t, items, 5)

	border := items[0].(LegendItem)
	assert.Equal(t, "Region border", border.Title)
	assert.Equal(t, service.KindPath, border.Kind)
	assert.True(t, border.Visible)

	columns := items[3].(LegendItem)
	assert.Equal(t, "Temples", columns.Title)
	assert.Equal(t, 1, columns.Rows)
	assert.False(t, columns.Visible)
	assert.Equal(t, service.RGBA{0, 0, 255, 140}, columns.Color)
}
