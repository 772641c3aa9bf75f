package api

import (
	"context"
	"database/sql"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/joeblew999/plat-visits/internal/db"
)

type InfoHandler struct {
	dataDir string
	conn    *sql.DB
}

// NewInfoHandler creates the info handler. conn is nil when POIs come from
// the configuration file.
func NewInfoHandler(dataDir string, conn *sql.DB) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, conn: conn}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name      string   `json:"name" doc:"Service name"`
	Version   string   `json:"version" doc:"Service version"`
	DataDir   string   `json:"data_dir" doc:"Data directory path"`
	POISource string   `json:"poi_source" doc:"Where POI tables come from" enum:"config,duckdb"`
	Tables    []string `json:"tables" doc:"DuckDB tables, empty without a database"`
	Features  []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	body := InfoBody{
		Name:      "plat-visits",
		Version:   "0.1.0",
		DataDir:   h.dataDir,
		POISource: "config",
		Tables:    []string{},
		Features:  []string{"deck", "flat", "dashboard"},
	}

	if h.conn != nil {
		body.POISource = "duckdb"
		tables, err := db.Tables(ctx, h.conn)
		if err != nil {
			zap.L().Warn("list tables", zap.Error(err))
		} else {
			body.Tables = tables
		}
	}

	return &struct{ Body InfoBody }{Body: body}, nil
}
