package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
	"github.com/rotisserie/eris"
)

// Region is one feature of a boundary resource: a name and its polygon rings.
type Region struct {
	Name  string
	Rings []orb.Ring
}

// Boundary is a parsed boundary resource. It is not modified after LoadBoundary.
type Boundary struct {
	Path    string
	Regions []Region
}

// LoadBoundary reads and parses a GeoJSON feature collection of region polygons.
// Polygon features contribute their rings, MultiPolygon features the rings of
// every member polygon in order.
func LoadBoundary(path string) (*Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: eris.Wrap(err, "read boundary")}
	}
	return ParseBoundary(path, data)
}

// ParseBoundary parses boundary GeoJSON already in memory. path is only used
// in error messages.
func ParseBoundary(path string, data []byte) (*Boundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &MalformedGeometryError{Path: path, Reason: "not a feature collection", Err: eris.Wrap(err, "parse boundary")}
	}

	b := &Boundary{Path: path, Regions: make([]Region, 0, len(fc.Features))}
	for i, f := range fc.Features {
		rings, err := featureRings(f)
		if err != nil {
			return nil, &MalformedGeometryError{Path: path, Reason: fmt.Sprintf("feature %d", i), Err: err}
		}
		b.Regions = append(b.Regions, Region{
			Name:  f.Properties.MustString("NAME", ""),
			Rings: rings,
		})
	}
	return b, nil
}

func featureRings(f *geojson.Feature) ([]orb.Ring, error) {
	if f == nil || f.Geometry == nil {
		return nil, errors.New("missing geometry")
	}
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		return []orb.Ring(g), nil
	case orb.MultiPolygon:
		var rings []orb.Ring
		for _, p := range g {
			rings = append(rings, p...)
		}
		return rings, nil
	default:
		return nil, eris.Errorf("unsupported geometry type %s", f.Geometry.GeoJSONType())
	}
}

// SelectRegion returns the region at a positional index of the collection.
func (b *Boundary) SelectRegion(index int) (Region, error) {
	if index < 0 || index >= len(b.Regions) {
		return Region{}, &IndexOutOfRangeError{Index: index, Count: len(b.Regions)}
	}
	return b.Regions[index], nil
}

// SimplifyRings returns Douglas-Peucker simplified copies of the rings.
// A tolerance <= 0 returns the input unchanged.
func SimplifyRings(rings []orb.Ring, tolerance float64) []orb.Ring {
	if tolerance <= 0 {
		return rings
	}
	s := simplify.DouglasPeucker(tolerance)
	out := make([]orb.Ring, len(rings))
	for i, r := range rings {
		out[i] = r
		if len(r) < 3 {
			continue
		}
		// Simplify works in place, so hand it a copy.
		if sr, ok := s.Simplify(r.Clone()).(orb.Ring); ok {
			out[i] = sr
		}
	}
	return out
}
