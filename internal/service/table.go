package service

import "github.com/paulmach/orb"

// Row category of border points.
const CategoryBorder = "border"

// FlattenRings concatenates every ring point into one table, ring order
// then point order. Points are not deduplicated.
func FlattenRings(rings []orb.Ring) Table {
	n := 0
	for _, r := range rings {
		n += len(r)
	}
	t := make(Table, 0, n)
	for _, r := range rings {
		for _, p := range r {
			t = append(t, Row{Longitude: p.Lon(), Latitude: p.Lat(), Category: CategoryBorder})
		}
	}
	return t
}

// BuildPathDescriptors returns one path per ring, tagged with the region name.
func BuildPathDescriptors(rings []orb.Ring, name string) []PathDescriptor {
	paths := make([]PathDescriptor, 0, len(rings))
	for _, r := range rings {
		path := make([][2]float64, len(r))
		for i, p := range r {
			path[i] = [2]float64{p.Lon(), p.Lat()}
		}
		paths = append(paths, PathDescriptor{Path: path, Name: name})
	}
	return paths
}

// StyleTable returns a copy of t with every row's size and color set.
// Existing style values are overwritten; t is not modified.
func StyleTable(t Table, size float64, color RGBA) Table {
	out := make(Table, len(t))
	for i, r := range t {
		r.Size = size
		r.Color = color
		out[i] = r
	}
	return out
}

// POITable converts POI records to table rows in order. Rows with an empty
// category take the fallback.
func POITable(pois []POI, category string) Table {
	t := make(Table, 0, len(pois))
	for _, p := range pois {
		c := p.Category
		if c == "" {
			c = category
		}
		t = append(t, Row{Longitude: p.Longitude, Latitude: p.Latitude, Label: p.Label, Category: c})
	}
	return t
}

// FilterPOIs keeps the POIs matching the filter's county.
func FilterPOIs(pois []POI, f Filter) []POI {
	out := make([]POI, 0, len(pois))
	for _, p := range pois {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
