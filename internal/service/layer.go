package service

import "encoding/json"

// LayerKind is the deck.gl layer class a descriptor renders as.
type LayerKind string

const (
	KindPath    LayerKind = "PathLayer"
	KindHexagon LayerKind = "HexagonLayer"
	KindColumn  LayerKind = "ColumnLayer"
	KindText    LayerKind = "TextLayer"
)

// Layer is a renderable layer descriptor. Implementations marshal to the
// deck.gl JSON format, with the class in "@@type" and accessors as "@@=" expressions.
type Layer interface {
	Kind() LayerKind
	LayerID() string
	// Len is the number of data rows the layer renders.
	Len() int
}

// PathLayer draws region rings as connected lines.
type PathLayer struct {
	ID             string           `json:"id"`
	Data           []PathDescriptor `json:"data"`
	GetPath        string           `json:"getPath"`
	GetWidth       float64          `json:"getWidth"`
	GetColor       RGBA             `json:"getColor"`
	WidthScale     float64          `json:"widthScale"`
	WidthMinPixels float64          `json:"widthMinPixels"`
	Pickable       bool             `json:"pickable"`
	Visible        bool             `json:"visible"`
}

func (l PathLayer) Kind() LayerKind { return KindPath }
func (l PathLayer) LayerID() string { return l.ID }
func (l PathLayer) Len() int        { return len(l.Data) }

func (l PathLayer) MarshalJSON() ([]byte, error) {
	type plain PathLayer
	return json.Marshal(struct {
		Type LayerKind `json:"@@type"`
		plain
	}{KindPath, plain(l)})
}

// HexagonLayer aggregates the point cloud into extruded hexagon bins.
type HexagonLayer struct {
	ID             string       `json:"id"`
	Data           []CloudPoint `json:"data"`
	GetPosition    string       `json:"getPosition"`
	Radius         float64      `json:"radius"`
	ElevationScale float64      `json:"elevationScale"`
	ElevationRange [2]float64   `json:"elevationRange"`
	Pickable       bool         `json:"pickable"`
	Extruded       bool         `json:"extruded"`
	Visible        bool         `json:"visible"`
}

func (l HexagonLayer) Kind() LayerKind { return KindHexagon }
func (l HexagonLayer) LayerID() string { return l.ID }
func (l HexagonLayer) Len() int        { return len(l.Data) }

func (l HexagonLayer) MarshalJSON() ([]byte, error) {
	type plain HexagonLayer
	return json.Marshal(struct {
		Type LayerKind `json:"@@type"`
		plain
	}{KindHexagon, plain(l)})
}

// ColumnLayer draws one extruded column per row.
type ColumnLayer struct {
	ID            string  `json:"id"`
	Data          Table   `json:"data"`
	GetPosition   string  `json:"getPosition"`
	GetElevation  float64 `json:"getElevation"`
	GetFillColor  RGBA    `json:"getFillColor"`
	Pickable      bool    `json:"pickable"`
	AutoHighlight bool    `json:"autoHighlight"`
	Visible       bool    `json:"visible"`
}

func (l ColumnLayer) Kind() LayerKind { return KindColumn }
func (l ColumnLayer) LayerID() string { return l.ID }
func (l ColumnLayer) Len() int        { return len(l.Data) }

func (l ColumnLayer) MarshalJSON() ([]byte, error) {
	type plain ColumnLayer
	return json.Marshal(struct {
		Type LayerKind `json:"@@type"`
		plain
	}{KindColumn, plain(l)})
}

// TextLayer draws each row's label at its position.
type TextLayer struct {
	ID                   string  `json:"id"`
	Data                 Table   `json:"data"`
	GetPosition          string  `json:"getPosition"`
	GetText              string  `json:"getText"`
	GetSize              float64 `json:"getSize"`
	GetColor             RGBA    `json:"getColor"`
	GetAlignmentBaseline string  `json:"getAlignmentBaseline"`
	Visible              bool    `json:"visible"`
}

func (l TextLayer) Kind() LayerKind { return KindText }
func (l TextLayer) LayerID() string { return l.ID }
func (l TextLayer) Len() int        { return len(l.Data) }

func (l TextLayer) MarshalJSON() ([]byte, error) {
	type plain TextLayer
	return json.Marshal(struct {
		Type LayerKind `json:"@@type"`
		plain
	}{KindText, plain(l)})
}

// LayerInput holds the tables one composition pass draws from.
type LayerInput struct {
	Paths    []PathDescriptor
	Cloud    []CloudPoint
	Churches Table
	Temples  Table
	Filter   Filter
}

// ComposeLayers builds the layer list in draw order: region border,
// point-cloud hexagons, church labels, temple columns, temple labels.
// The sequence never depends on the table sizes; an empty table gives a
// layer with no rows.
func ComposeLayers(in LayerInput) []Layer {
	churches := in.Filter.Shows(CategoryChurch)
	temples := in.Filter.Shows(CategoryTemple)

	return []Layer{
		PathLayer{
			ID:             "border",
			Data:           nonNil(in.Paths),
			GetPath:        "@@=path",
			GetWidth:       100,
			GetColor:       RGBA{180, 0, 200, 140},
			WidthScale:     20,
			WidthMinPixels: 2,
			Pickable:       true,
			Visible:        true,
		},
		HexagonLayer{
			ID:             "visits-hexagon",
			Data:           nonNil(in.Cloud),
			GetPosition:    "@@=[lon, lat]",
			Radius:         1000,
			ElevationScale: 20,
			ElevationRange: [2]float64{0, 1000},
			Pickable:       true,
			Extruded:       true,
			Visible:        true,
		},
		TextLayer{
			ID:                   "church-labels",
			Data:                 nonNil(in.Churches),
			GetPosition:          "@@=[longitude, latitude]",
			GetText:              "@@=label",
			GetSize:              16,
			GetColor:             RGB(2, 2, 255),
			GetAlignmentBaseline: "bottom",
			Visible:              churches,
		},
		ColumnLayer{
			ID:            "temple-columns",
			Data:          nonNil(in.Temples),
			GetPosition:   "@@=[longitude, latitude]",
			GetElevation:  100000,
			GetFillColor:  RGBA{0, 0, 255, 140},
			Pickable:      true,
			AutoHighlight: true,
			Visible:       temples,
		},
		TextLayer{
			ID:                   "temple-labels",
			Data:                 nonNil(in.Temples),
			GetPosition:          "@@=[longitude, latitude]",
			GetText:              "@@=label",
			GetSize:              16,
			GetColor:             RGB(5, 125, 5),
			GetAlignmentBaseline: "bottom",
			Visible:              temples,
		},
	}
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
