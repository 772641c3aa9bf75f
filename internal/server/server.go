package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/joeblew999/plat-visits/internal/api"
	"github.com/joeblew999/plat-visits/internal/api/dashboard"
	"github.com/joeblew999/plat-visits/internal/config"
	"github.com/joeblew999/plat-visits/internal/db"
	"github.com/joeblew999/plat-visits/internal/service"
	"github.com/joeblew999/plat-visits/internal/templates"
)

// Server is the visits HTTP server.
type Server struct {
	config   *config.Config
	mux      *http.ServeMux
	handler  http.Handler
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
	renderer *templates.Renderer
	logger   *zap.Logger
}

// New builds the server from cfg: it resolves the boundary resource, picks
// the POI source and registers every route.
func New(cfg *config.Config) (*Server, error) {
	logger := zap.L().With(zap.String("component", "server"))
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("plat-visits API", "1.0.0")
	humaConfig.Info.Description = "Church and temple visitation map: composed deck.gl layers, flat point view and sidebar data."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	sources := service.NewSourceService(cfg.DataDir)
	boundaryPath, err := resolveBoundary(cfg.Boundary.Path, sources)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humaAPI,
		logger:  logger,
	}

	var pois service.POISource = cfg.StaticPOIs()
	if cfg.POISource.Enabled() {
		conn, err := openPOIDatabase(cfg)
		if err != nil {
			return nil, err
		}
		s.db = conn
		pois = &service.SQLPOISource{DB: conn, Table: cfg.POISource.Table}
	}

	renderer, err := templates.New()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.renderer = renderer

	s.services = &api.Services{
		Composer: service.NewComposer(cfg.ComposerConfig(boundaryPath), pois, nil),
		Source:   sources,
		Counties: cfg.Counties,
	}
	logger.Info("server configured",
		zap.String("boundary", boundaryPath),
		zap.String("sources_dir", sources.SourcesDir()),
		zap.Int("region_index", cfg.Boundary.RegionIndex),
		zap.Bool("duckdb", s.db != nil),
	)

	s.routes()
	s.handler = RequestLogger(logger, mux)
	return s, nil
}

// resolveBoundary treats a bare file name as a file inside <data_dir>/sources.
func resolveBoundary(path string, sources *service.SourceService) (string, error) {
	if filepath.IsAbs(path) || strings.ContainsAny(path, `/\`) {
		return path, nil
	}
	return sources.Resolve(path)
}

func openPOIDatabase(cfg *config.Config) (*sql.DB, error) {
	conn, err := db.Open(db.Config{DataDir: cfg.DataDir, DBName: cfg.POISource.DBName})
	if err != nil {
		return nil, err
	}
	n, err := db.ImportCSV(context.Background(), conn, cfg.POISource.Table, cfg.POISource.CSV)
	if err != nil {
		conn.Close()
		return nil, eris.Wrap(err, "server: import points of interest")
	}
	zap.L().Info("imported points of interest",
		zap.String("csv", cfg.POISource.CSV),
		zap.String("table", cfg.POISource.Table),
		zap.Int64("rows", n),
	)
	return conn, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// OpenAPI returns the OpenAPI document of the registered routes.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Composer returns the composer serving the map routes.
func (s *Server) Composer() *service.Composer {
	return s.services.Composer
}

// Close closes server resources.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return eris.Wrap(s.db.Close(), "server: close duckdb")
}

func (s *Server) routes() {
	// Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.services)
	api.NewInfoHandler(s.config.DataDir, s.db).RegisterRoutes(s.humaAPI)

	// Dashboard SSE routes using Huma + Datastar SDK
	dashboard.NewDeckHandler(s.services.Composer, s.services.Counties, s.renderer).RegisterRoutes(s.humaAPI)

	// Page routes
	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-visits",
		"status":  "running",
		"viewer":  "/viewer",
	})
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	signals, _ := json.Marshal(map[string]any{
		"county":   "",
		"category": "",
		"deck":     map[string]any{},
		"error":    "",
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.renderer.Execute(w, "viewer", templates.ViewerData{
		Title:       "View Church & Temple Locations",
		DeckURL:     "/api/v1/dashboard/deck",
		CountiesURL: "/api/v1/dashboard/counties",
		Categories: []templates.Option{
			{Value: service.CategoryChurch, Label: "Church"},
			{Value: service.CategoryTemple, Label: "Temple"},
		},
		Signals: string(signals),
	})
	if err != nil {
		s.logger.Error("render viewer", zap.Error(err))
		http.Error(w, "viewer unavailable", http.StatusInternalServerError)
	}
}
