package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func samplePOIs() StaticPOISource {
	return StaticPOISource{
		CategoryChurch: {
			{Latitude: 43.6150, Longitude: -116.2023, Label: "Church 1", County: "Ada"},
			{Latitude: 43.4919, Longitude: -112.0405, Label: "Church 2", County: "Bonneville"},
			{Latitude: 43.8231, Longitude: -116.9008, Label: "Church 3", County: "Canyon"},
		},
		CategoryTemple: {
			{Latitude: 43.6629, Longitude: -116.1633, Label: "Temple 1", County: "Ada"},
			{Latitude: 43.8250, Longitude: -111.7892, Label: "Temple 2", County: "Madison"},
		},
	}
}

func testComposerConfig(path string) ComposerConfig {
	return ComposerConfig{
		BoundaryPath: path,
		RegionIndex:  0,
		RegionName:   "Idaho",
		Viewport:     Viewport{Latitude: 44.0682, Longitude: -114.7420, Zoom: 6, Pitch: 50},
		MapStyle:     "mapbox://styles/mapbox/light-v9",
		Tooltip:      Tooltip{HTML: "<b>{label}</b>"},
		Cloud:        CloudConfig{Points: 25, CenterLat: 43.6150, CenterLon: -116.2023, SpreadLat: 0.02, SpreadLon: 0.02, Seed: 1},
	}
}

func TestComposerCompose(t *testing.T) {
	c := NewComposer(testComposerConfig(writeBoundary(t, idahoGeoJSON)), samplePOIs(), zap.NewNop())

	deck, err := c.Compose(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, deck.Layers, 5)
	assert.Equal(t, wantKinds, kinds(deck.Layers))

	paths := deck.Layers[0].(PathLayer).Data
	require.Len(t, paths, 2)
	assert.Equal(t, "Idaho", paths[0].Name)
	assert.Len(t, paths[0].Path, 4)
	assert.Len(t, paths[1].Path, 3)

	assert.Equal(t, 25, deck.Layers[1].Len())
	assert.Equal(t, 3, deck.Layers[2].Len())
	assert.Equal(t, 2, deck.Layers[3].Len())
	assert.Equal(t, 2, deck.Layers[4].Len())
	assert.Equal(t, 44.0682, deck.InitialViewState.Latitude)
}

func TestComposerFlat(t *testing.T) {
	c := NewComposer(testComposerConfig(writeBoundary(t, idahoGeoJSON)), samplePOIs(), zap.NewNop())

	flat, err := c.Flat(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, flat.Rows, 7+3+2)
}

func TestComposerCountyFilter(t *testing.T) {
	c := NewComposer(testComposerConfig(writeBoundary(t, idahoGeoJSON)), samplePOIs(), zap.NewNop())

	deck, err := c.Compose(context.Background(), Filter{County: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, 1, deck.Layers[2].Len())
	assert.Equal(t, 1, deck.Layers[3].Len())

	deck, err = c.Compose(context.Background(), Filter{County: "Teton"})
	require.NoError(t, err)
	require.Len(t, deck.Layers, 5)
	assert.Zero(t, deck.Layers[2].Len())
	assert.Zero(t, deck.Layers[4].Len())
}

func TestComposerErrors(t *testing.T) {
	t.Run("missing resource", func(t *testing.T) {
		c := NewComposer(testComposerConfig(filepath.Join(t.TempDir(), "missing.json")), samplePOIs(), zap.NewNop())
		_, err := c.Compose(context.Background(), Filter{})
		var resErr *ResourceError
		assert.True(t, errors.As(err, &resErr))
	})

	t.Run("index out of range", func(t *testing.T) {
		cfg := testComposerConfig(writeBoundary(t, idahoGeoJSON))
		cfg.RegionIndex = 30
		c := NewComposer(cfg, samplePOIs(), zap.NewNop())
		_, err := c.Flat(context.Background(), Filter{})
		var idxErr *IndexOutOfRangeError
		require.True(t, errors.As(err, &idxErr))
		assert.Equal(t, 1, idxErr.Count)
	})

	t.Run("poi source failure", func(t *testing.T) {
		c := NewComposer(testComposerConfig(writeBoundary(t, idahoGeoJSON)), &SQLPOISource{Table: "poi"}, zap.NewNop())
		_, err := c.Compose(context.Background(), Filter{})
		assert.Error(t, err)
	})
}

func TestComposerRegionNameMismatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := testComposerConfig(writeBoundary(t, twoStatesGeoJSON))
	cfg.RegionIndex = 0

	c := NewComposer(cfg, samplePOIs(), zap.New(core))
	deck, err := c.Compose(context.Background(), Filter{})
	require.NoError(t, err)

	// configured name wins, mismatch is reported
	assert.Equal(t, "Idaho", deck.Layers[0].(PathLayer).Data[0].Name)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Utah", logs.All()[0].ContextMap()["feature_name"])
}

func TestComposerRender(t *testing.T) {
	c := NewComposer(testComposerConfig(writeBoundary(t, idahoGeoJSON)), nil, zap.NewNop())

	var got Deck
	err := c.Render(context.Background(), Filter{}, rendererFunc(func(ctx context.Context, d Deck) error {
		got = d
		return nil
	}))
	require.NoError(t, err)
	require.Len(t, got.Layers, 5)
	assert.Zero(t, got.Layers[2].Len())

	boom := errors.New("surface gone")
	err = c.Render(context.Background(), Filter{}, rendererFunc(func(ctx context.Context, d Deck) error {
		return boom
	}))
	assert.ErrorIs(t, err, boom)
}

type rendererFunc func(ctx context.Context, d Deck) error

func (f rendererFunc) Render(ctx context.Context, d Deck) error { return f(ctx, d) }
