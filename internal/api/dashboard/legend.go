package dashboard

import "github.com/joeblew999/plat-visits/internal/service"

// LegendItem is one row of the layer legend.
type LegendItem struct {
	ID      string
	Title   string
	Kind    service.LayerKind
	Rows    int
	Visible bool
	Color   service.RGBA
}

var layerTitles = map[string]string{
	"border":         "Region border",
	"visits-hexagon": "Visits",
	"church-labels":  "Churches",
	"temple-columns": "Temples",
	"temple-labels":  "Temple labels",
}

// LegendItems describes layers in draw order, ready for the legend-item template.
func LegendItems(layers []service.Layer) []any {
	items := make([]any, 0, len(layers))
	for _, l := range layers {
		item := LegendItem{
			ID:    l.LayerID(),
			Title: layerTitles[l.LayerID()],
			Kind:  l.Kind(),
			Rows:  l.Len(),
		}
		if item.Title == "" {
			item.Title = item.ID
		}

		switch v := l.(type) {
		case service.PathLayer:
			item.Visible, item.Color = v.Visible, v.GetColor
		case service.HexagonLayer:
			item.Visible, item.Color = v.Visible, service.RGBA{255, 140, 0, 200}
		case service.ColumnLayer:
			item.Visible, item.Color = v.Visible, v.GetFillColor
		case service.TextLayer:
			item.Visible, item.Color = v.Visible, v.GetColor
		}
		items = append(items, item)
	}
	return items
}
