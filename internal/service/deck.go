package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// Deck is the complete input of the map rendering surface: a deck.gl JSON
// document plus the tooltip template.
type Deck struct {
	MapStyle         string   `json:"mapStyle" doc:"Base map style URL"`
	InitialViewState Viewport `json:"initialViewState" doc:"Initial camera"`
	Layers           []Layer  `json:"layers" doc:"Layer descriptors in draw order"`
	Tooltip          Tooltip  `json:"tooltip" doc:"Hover tooltip template"`
}

// NewDeck assembles the render value from composed layers.
func NewDeck(layers []Layer, viewport Viewport, tooltip Tooltip, mapStyle string) Deck {
	return Deck{
		MapStyle:         mapStyle,
		InitialViewState: viewport,
		Layers:           nonNil(layers),
		Tooltip:          tooltip,
	}
}

// Renderer hands a deck to a rendering surface.
type Renderer interface {
	Render(ctx context.Context, deck Deck) error
}

// JSONRenderer writes the deck as JSON, e.g. for a static viewer page.
type JSONRenderer struct {
	W      io.Writer
	Indent string
}

// Render implements Renderer.
func (r JSONRenderer) Render(ctx context.Context, deck Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(r.W)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	return eris.Wrap(enc.Encode(deck), "render deck")
}

// Flat view point styles.
var (
	FlatBorderStyle = PointStyle{Size: 50, Color: RGBA{0, 0, 128, 160}}
	FlatChurchStyle = PointStyle{Size: 20000, Color: RGBA{0, 128, 0, 160}}
	FlatTempleStyle = PointStyle{Size: 20000, Color: RGBA{128, 0, 0, 160}}
)

// PointStyle is a size and color applied to every row of a table.
type PointStyle struct {
	Size  float64
	Color RGBA
}

// FlatView is the single combined table drawn by the 2D point map.
type FlatView struct {
	Rows  Table `json:"rows" doc:"Border points, then churches, then temples"`
	Count int   `json:"count" doc:"Number of rows"`
}

// RenderFlatView styles the border, church and temple tables and
// concatenates them in that order.
func RenderFlatView(border, churches, temples Table) FlatView {
	rows := make(Table, 0, len(border)+len(churches)+len(temples))
	rows = append(rows, StyleTable(border, FlatBorderStyle.Size, FlatBorderStyle.Color)...)
	rows = append(rows, StyleTable(churches, FlatChurchStyle.Size, FlatChurchStyle.Color)...)
	rows = append(rows, StyleTable(temples, FlatTempleStyle.Size, FlatTempleStyle.Color)...)
	return FlatView{Rows: rows, Count: len(rows)}
}
