// Package service contains the map composition logic for the plat-visits dashboard.
package service

import "strings"

// POI categories.
const (
	CategoryChurch = "church"
	CategoryTemple = "temple"
)

// RGBA is a deck.gl color: red, green, blue, alpha.
type RGBA [4]uint8

// RGB returns an opaque color.
func RGB(r, g, b uint8) RGBA {
	return RGBA{r, g, b, 255}
}

// POI is a point-of-interest record.
type POI struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" doc:"Latitude (WGS84)" example:"43.615"`
	Longitude float64 `json:"longitude" yaml:"longitude" doc:"Longitude (WGS84)" example:"-116.2023"`
	Label     string  `json:"label" yaml:"label" doc:"Display label" example:"Church 1"`
	Category  string  `json:"category,omitempty" yaml:"category,omitempty" enum:"church,temple" doc:"POI category"`
	County    string  `json:"county,omitempty" yaml:"county,omitempty" doc:"County the POI lies in" example:"Ada"`
}

// Row is one row of a map table. Size and Color are the style columns.
type Row struct {
	Longitude float64 `json:"longitude" doc:"Longitude (WGS84)"`
	Latitude  float64 `json:"latitude" doc:"Latitude (WGS84)"`
	Label     string  `json:"label,omitempty" doc:"Display label"`
	Category  string  `json:"type,omitempty" doc:"Row category (border, church, temple)"`
	Size      float64 `json:"size,omitempty" doc:"Point size"`
	Color     RGBA    `json:"color" doc:"RGBA color"`
}

// Table is an ordered sequence of rows.
type Table []Row

// PathDescriptor pairs one ring of a region with the region name.
type PathDescriptor struct {
	Path [][2]float64 `json:"path" doc:"Ring coordinates as [lon, lat] pairs"`
	Name string       `json:"name" doc:"Region name" example:"Idaho"`
}

// CloudPoint is one sample of the auxiliary point cloud behind the hexagon layer.
type CloudPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Viewport is the initial camera of the map.
type Viewport struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" doc:"Center latitude" example:"44.0682"`
	Longitude float64 `json:"longitude" yaml:"longitude" doc:"Center longitude" example:"-114.742"`
	Zoom      float64 `json:"zoom" yaml:"zoom" doc:"Zoom level" example:"6"`
	Pitch     float64 `json:"pitch" yaml:"pitch" doc:"Camera pitch in degrees" example:"50"`
}

// Tooltip is the hover template keyed by row fields, e.g. "<b>{label}</b>".
type Tooltip struct {
	HTML  string            `json:"html" yaml:"html" doc:"HTML template, {field} placeholders"`
	Style map[string]string `json:"style,omitempty" yaml:"style,omitempty" doc:"CSS style overrides"`
}

// Filter is the sidebar state applied to one composition pass.
// Zero value selects everything.
type Filter struct {
	County   string `json:"county,omitempty" query:"county" doc:"Only POIs in this county" example:"Ada"`
	Category string `json:"category,omitempty" query:"category" enum:"church,temple" doc:"Highlight one category"`
}

// Shows reports whether layers of the given category stay visible.
func (f Filter) Shows(category string) bool {
	return f.Category == "" || strings.EqualFold(f.Category, category)
}

// ValidCategory reports whether the category filter is empty or names a
// known category.
func (f Filter) ValidCategory() bool {
	return f.Category == "" || strings.EqualFold(f.Category, CategoryChurch) || strings.EqualFold(f.Category, CategoryTemple)
}

// Matches reports whether a POI passes the county filter.
func (f Filter) Matches(p POI) bool {
	return f.County == "" || strings.EqualFold(strings.TrimSpace(p.County), strings.TrimSpace(f.County))
}

// SourceFile represents a boundary resource in the data directory.
type SourceFile struct {
	Name     string `json:"name" doc:"File name" example:"gz_2010_us_040_00_500k.json"`
	Size     string `json:"size" doc:"Human-readable file size" example:"1.2 MB"`
	FileType string `json:"fileType" doc:"File type" example:"GeoJSON"`
}
