package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

func TestLayerMarkersKeyedByID(t *testing.T) {
	l := NewLayer()
	require.NoError(t, l.PlaceMarker("a", types.Coords{1, 2}, types.KindRunning, "run"))
	require.NoError(t, l.PlaceMarker("b", types.Coords{1, 2}, types.KindCycling, "ride"))

	// Same coords, different ids: both markers exist.
	require.Len(t, l.Markers(), 2)

	require.NoError(t, l.PlaceMarker("a", types.Coords{1, 2}, types.KindCycling, "edited"))
	ms := l.Markers()
	require.Len(t, ms, 2)
	assert.Equal(t, "a", ms[0].ID, "upsert keeps position")
	assert.Equal(t, "edited", ms[0].Label)

	require.NoError(t, l.RemoveMarker("a"))
	_, ok := l.Marker("a")
	assert.False(t, ok)
	m, ok := l.Marker("b")
	require.True(t, ok)
	assert.Equal(t, "ride", m.Label)

	require.NoError(t, l.RemoveMarker("missing"))
	assert.Len(t, l.Markers(), 1)
}

func TestLayerCenter(t *testing.T) {
	l := NewLayer()
	_, _, ok := l.Center()
	assert.False(t, ok)

	require.NoError(t, l.CenterView(types.Coords{51.5, -0.12}, 13))
	c, zoom, ok := l.Center()
	require.True(t, ok)
	assert.Equal(t, types.Coords{51.5, -0.12}, c)
	assert.Equal(t, 13, zoom)
}

func TestLayerGeoJSON(t *testing.T) {
	l := NewLayer()
	require.NoError(t, l.PlaceMarker("a", types.Coords{10, 20}, types.KindRunning, "🏃‍♂️ Running on April 3"))

	data, err := l.MarshalGeoJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])

	features := doc["features"].([]any)
	require.Len(t, features, 1)
	f := features[0].(map[string]any)
	geom := f["geometry"].(map[string]any)
	assert.Equal(t, "Point", geom["type"])
	assert.Equal(t, []any{20.0, 10.0}, geom["coordinates"], "lng first")

	props := f["properties"].(map[string]any)
	assert.Equal(t, "a", props["id"])
	assert.Equal(t, "running", props["kind"])
	assert.Equal(t, "🏃‍♂️ Running on April 3", props["label"])
}

func TestLayerGeoJSONEmptyAndCentered(t *testing.T) {
	l := NewLayer()
	fc := l.GeoJSON()
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)

	require.NoError(t, l.CenterView(types.Coords{1, 2}, 9))
	fc = l.GeoJSON()
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "center", fc.Features[0].Properties["role"])
	assert.Equal(t, [2]float64{2, 1}, fc.Features[0].Geometry.Coordinates)
}

func TestLayerWriteGeoJSON(t *testing.T) {
	l := NewLayer()
	require.NoError(t, l.PlaceMarker("a", types.Coords{10, 20}, types.KindRunning, "run"))

	path := filepath.Join(t.TempDir(), "map.geojson")
	require.NoError(t, l.WriteGeoJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fc FeatureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "a", fc.Features[0].Properties["id"])
}
