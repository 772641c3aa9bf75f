package service

import (
	"context"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ComposerConfig holds everything a composition pass needs besides the POI tables.
type ComposerConfig struct {
	BoundaryPath string
	// RegionIndex is the positional index of the region feature in the
	// boundary collection.
	RegionIndex int
	RegionName  string
	// SimplifyTolerance in degrees; 0 keeps every ring point.
	SimplifyTolerance float64
	Viewport          Viewport
	MapStyle          string
	Tooltip           Tooltip
	Cloud             CloudConfig
}

// Composer turns the boundary resource and POI tables into a deck or a flat view.
type Composer struct {
	cfg    ComposerConfig
	pois   POISource
	logger *zap.Logger
}

// NewComposer creates a composer. A nil logger uses the global zap logger.
func NewComposer(cfg ComposerConfig, pois POISource, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.L()
	}
	return &Composer{
		cfg:    cfg,
		pois:   pois,
		logger: logger.With(zap.String("component", "composer")),
	}
}

// prepared is the region-derived data of one pass.
type prepared struct {
	border   Table
	paths    []PathDescriptor
	churches Table
	temples  Table
}

// prepare loads the boundary fresh and derives the border tables, then
// fetches and filters both POI tables.
func (c *Composer) prepare(ctx context.Context, f Filter) (*prepared, error) {
	b, err := LoadBoundary(c.cfg.BoundaryPath)
	if err != nil {
		return nil, err
	}
	region, err := b.SelectRegion(c.cfg.RegionIndex)
	if err != nil {
		return nil, err
	}

	name := c.cfg.RegionName
	if name == "" {
		name = region.Name
	}
	if region.Name != "" && c.cfg.RegionName != "" && !strings.EqualFold(region.Name, c.cfg.RegionName) {
		c.logger.Warn("selected region name differs from configured name",
			zap.Int("region_index", c.cfg.RegionIndex),
			zap.String("feature_name", region.Name),
			zap.String("configured_name", c.cfg.RegionName),
		)
	}

	rings := SimplifyRings(region.Rings, c.cfg.SimplifyTolerance)
	p := &prepared{
		border: FlattenRings(rings),
		paths:  BuildPathDescriptors(rings, name),
	}

	churches, err := c.fetch(ctx, CategoryChurch, f)
	if err != nil {
		return nil, err
	}
	temples, err := c.fetch(ctx, CategoryTemple, f)
	if err != nil {
		return nil, err
	}
	p.churches, p.temples = churches, temples

	c.logger.Debug("prepared region",
		zap.String("region", name),
		zap.Int("rings", len(rings)),
		zap.Int("border_points", len(p.border)),
		zap.Float64("ring_area_deg2", ringArea(rings)),
		zap.Int("churches", len(churches)),
		zap.Int("temples", len(temples)),
	)
	return p, nil
}

func (c *Composer) fetch(ctx context.Context, category string, f Filter) (Table, error) {
	if c.pois == nil {
		return Table{}, nil
	}
	pois, err := c.pois.POIs(ctx, category)
	if err != nil {
		return nil, eris.Wrapf(err, "composer: load %s table", category)
	}
	return POITable(FilterPOIs(pois, f), category), nil
}

// Compose runs one full pass and returns the deck for the map surface.
func (c *Composer) Compose(ctx context.Context, f Filter) (Deck, error) {
	p, err := c.prepare(ctx, f)
	if err != nil {
		return Deck{}, err
	}

	cloud := SampleCloud(NewCloudRand(c.cfg.Cloud), c.cfg.Cloud)
	layers := ComposeLayers(LayerInput{
		Paths:    p.paths,
		Cloud:    cloud,
		Churches: p.churches,
		Temples:  p.temples,
		Filter:   f,
	})
	return NewDeck(layers, c.cfg.Viewport, c.cfg.Tooltip, c.cfg.MapStyle), nil
}

// Flat runs one full pass and returns the combined 2D table.
func (c *Composer) Flat(ctx context.Context, f Filter) (FlatView, error) {
	p, err := c.prepare(ctx, f)
	if err != nil {
		return FlatView{}, err
	}
	return RenderFlatView(p.border, p.churches, p.temples), nil
}

// Render composes a deck and hands it to r.
func (c *Composer) Render(ctx context.Context, f Filter, r Renderer) error {
	deck, err := c.Compose(ctx, f)
	if err != nil {
		return err
	}
	return r.Render(ctx, deck)
}

// ringArea sums the planar area of every ring, in square degrees.
func ringArea(rings []orb.Ring) float64 {
	var a float64
	for _, r := range rings {
		a += planar.Area(r)
	}
	return a
}
