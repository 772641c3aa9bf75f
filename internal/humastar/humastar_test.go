package humastar

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-visits/internal/templates"
)

func TestParseSignals(t *testing.T) {
	signals, err := ParseSignals([]byte(`{"county":"Ada","category":"temple","open":true,"zoom":6}`))
	require.NoError(t, err)

	assert.Equal(t, "Ada", signals.String("county"))
	assert.Equal(t, "temple", signals.String("category"))
	assert.Equal(t, "", signals.String("zoom"))
	assert.Equal(t, "", signals.String("missing"))
	// non-string values read as empty
	assert.Equal(t, "", signals.String("open"))

	empty, err := ParseSignals(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseSignals([]byte(`{"county":`))
	assert.Error(t, err)
}

func TestSignalsInputMustParse(t *testing.T) {
	in := &SignalsInput{RawBody: []byte(`not json`)}
	_, err := in.MustParse()
	require.Error(t, err)

	var statusErr huma.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.GetStatus())

	in = &SignalsInput{RawBody: []byte(`{"county":"Ada"}`)}
	signals, err := in.MustParse()
	require.NoError(t, err)
	assert.Equal(t, "Ada", signals.String("county"))
}

func TestRenderHelpers(t *testing.T) {
	r, err := templates.New()
	require.NoError(t, err)
	h := Handler{Renderer: r}

	html := h.RenderList("legend-item", nil, "No layers", "Nothing to draw.")
	assert.Contains(t, html, "empty-state")
	assert.Contains(t, html, "No layers")

	html = h.RenderSelect("All counties", []SelectOptionData{{Value: "Ada", Label: "Ada"}, {Value: "Gem"}})
	assert.Contains(t, html, `<option value="">All counties</option>`)
	assert.Contains(t, html, `<option value="Ada">Ada</option>`)
	assert.Contains(t, html, `<option value="Gem">Gem</option>`)

	// unknown templates are logged and skipped
	assert.Empty(t, RenderList(r, "missing", []any{1}, "", ""))
}
