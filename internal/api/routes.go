// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/joeblew999/plat-visits/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Composer *service.Composer
	Source   *service.SourceService
	Counties []string
}

// Types

type DeckOutput struct {
	Body service.Deck
}

type FlatOutput struct {
	Body service.FlatView
}

// FlatInput filters the flat view. Every category is always listed there,
// so only the county applies.
type FlatInput struct {
	County string `query:"county" doc:"Only POIs in this county" example:"Ada"`
}

type SidebarBody struct {
	Counties   []string `json:"counties" doc:"Counties offered by the county filter"`
	Categories []string `json:"categories" doc:"Categories offered by the church/temple toggle"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc    *Services
	logger *zap.Logger
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc, logger: zap.L().With(zap.String("component", "api"))}
}

// RegisterRoutes registers every REST route of h on api.
func RegisterRoutes(api huma.API, svc *Services) {
	huma.AutoRegister(api, NewAPIHandler(svc))
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterMap registers the composed map routes.
func (h *APIHandler) RegisterMap(api huma.API) {
	huma.Get(api, "/api/v1/deck", h.GetDeck, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/flat", h.GetFlat, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/sidebar", h.GetSidebar, huma.OperationTags("map"))
}

// RegisterSources registers source listing routes.
func (h *APIHandler) RegisterSources(api huma.API) {
	huma.Get(api, "/api/v1/sources", h.GetSources, huma.OperationTags("sources"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetDeck(ctx context.Context, input *struct{ service.Filter }) (*DeckOutput, error) {
	if h.svc == nil || h.svc.Composer == nil {
		return nil, huma.Error503ServiceUnavailable("composer not available")
	}
	deck, err := h.svc.Composer.Compose(ctx, input.Filter)
	if err != nil {
		h.logger.Error("compose deck", zap.Error(err))
		return nil, huma.Error500InternalServerError("map composition failed", err)
	}
	return &DeckOutput{Body: deck}, nil
}

func (h *APIHandler) GetFlat(ctx context.Context, input *FlatInput) (*FlatOutput, error) {
	if h.svc == nil || h.svc.Composer == nil {
		return nil, huma.Error503ServiceUnavailable("composer not available")
	}
	flat, err := h.svc.Composer.Flat(ctx, service.Filter{County: input.County})
	if err != nil {
		h.logger.Error("compose flat view", zap.Error(err))
		return nil, huma.Error500InternalServerError("map composition failed", err)
	}
	return &FlatOutput{Body: flat}, nil
}

func (h *APIHandler) GetSidebar(ctx context.Context, input *struct{}) (*struct{ Body SidebarBody }, error) {
	counties := []string{}
	if h.svc != nil && h.svc.Counties != nil {
		counties = h.svc.Counties
	}
	return &struct{ Body SidebarBody }{Body: SidebarBody{
		Counties:   counties,
		Categories: []string{service.CategoryChurch, service.CategoryTemple},
	}}, nil
}

func (h *APIHandler) GetSources(ctx context.Context, input *struct{}) (*struct{ Body []service.SourceFile }, error) {
	if h.svc == nil || h.svc.Source == nil {
		return &struct{ Body []service.SourceFile }{Body: []service.SourceFile{}}, nil
	}
	sources, err := h.svc.Source.List()
	if err != nil {
		h.logger.Warn("list sources", zap.Error(err))
		return &struct{ Body []service.SourceFile }{Body: []service.SourceFile{}}, nil
	}
	return &struct{ Body []service.SourceFile }{Body: sources}, nil
}
