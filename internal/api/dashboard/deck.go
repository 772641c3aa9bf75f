// Package dashboard contains the Datastar SSE handlers behind the viewer sidebar.
package dashboard

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/joeblew999/plat-visits/internal/humastar"
	"github.com/joeblew999/plat-visits/internal/service"
	"github.com/joeblew999/plat-visits/internal/templates"
)

// DeckHandler recomposes the map whenever a sidebar control changes.
type DeckHandler struct {
	humastar.Handler
	composer *service.Composer
	counties []string
	logger   *zap.Logger
}

func NewDeckHandler(composer *service.Composer, counties []string, renderer *templates.Renderer) *DeckHandler {
	return &DeckHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		composer: composer,
		counties: counties,
		logger:   zap.L().With(zap.String("component", "dashboard")),
	}
}

func (h *DeckHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/dashboard/deck", h.Deck, huma.OperationTags("dashboard"))
	huma.Get(api, "/api/v1/dashboard/counties", h.Counties, huma.OperationTags("dashboard"))
}

// Deck reads the county and category signals, composes the map and sends it
// back as the deck signal together with the legend.
func (h *DeckHandler) Deck(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	filter := FilterFromSignals(signals)

	return h.Stream(func(sse humastar.SSE) {
		if !filter.ValidCategory() {
			sse.Error("Unknown category: " + filter.Category)
			return
		}

		deck, err := h.composer.Compose(ctx, filter)
		if err != nil {
			h.logger.Error("compose failed", zap.Error(err))
			sse.Error("Map unavailable: " + err.Error())
			sse.Patch(h.RenderList("legend-item", nil, "Map unavailable", "The map could not be composed."), "#legend")
			return
		}

		if err := (SSERenderer{SSE: sse}).Render(ctx, deck); err != nil {
			h.logger.Error("render failed", zap.Error(err))
			return
		}
		sse.Patch(h.RenderList("legend-item", LegendItems(deck.Layers), "No layers", "Nothing to draw."), "#legend")
	}), nil
}

// Counties fills the county select.
func (h *DeckHandler) Counties(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		options := make([]humastar.SelectOptionData, len(h.counties))
		for i, c := range h.counties {
			options[i] = humastar.SelectOptionData{Value: c, Label: c}
		}
		sse.Patch(h.RenderSelect("All counties", options), "#county")
	}), nil
}

// FilterFromSignals maps the sidebar signals onto a composition filter.
func FilterFromSignals(s humastar.Signals) service.Filter {
	return service.Filter{
		County:   s.String("county"),
		Category: s.String("category"),
	}
}

// SSERenderer sends a deck to the browser as the deck signal.
type SSERenderer struct {
	SSE humastar.SSE
}

// Render implements service.Renderer.
func (r SSERenderer) Render(ctx context.Context, deck service.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return eris.Wrap(r.SSE.MarshalAndPatchSignals(map[string]any{"deck": deck, "error": ""}), "render deck")
}
