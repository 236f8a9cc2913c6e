// Package geo holds the workout marker layer and the geolocation providers.
//
// Layer is an in-process map: it keeps one marker per workout id plus the
// view center, and exports itself as a GeoJSON FeatureCollection that any
// map tool can render.
package geo

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/mapty/internal/persist"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Marker is one workout pin.
type Marker struct {
	ID     string
	Coords types.Coords
	Kind   types.Kind
	Label  string
}

// Layer implements app.MapSink.
type Layer struct {
	markers []Marker
	center  *types.Coords
	zoom    int
}

// NewLayer returns an empty, uncentered layer.
func NewLayer() *Layer {
	return &Layer{}
}

// PlaceMarker adds a marker or replaces the one with the same id in place.
func (l *Layer) PlaceMarker(id string, coords types.Coords, kind types.Kind, label string) error {
	m := Marker{ID: id, Coords: coords, Kind: kind, Label: label}
	if i := l.indexOf(id); i >= 0 {
		l.markers[i] = m
		return nil
	}
	l.markers = append(l.markers, m)
	return nil
}

// RemoveMarker removes the marker for id. Removing a missing marker is a no-op.
func (l *Layer) RemoveMarker(id string) error {
	if i := l.indexOf(id); i >= 0 {
		l.markers = slices.Delete(l.markers, i, i+1)
	}
	return nil
}

// CenterView moves the view to coords at zoom.
func (l *Layer) CenterView(coords types.Coords, zoom int) error {
	l.center = &coords
	l.zoom = zoom
	return nil
}

// Markers returns the markers in placement order.
func (l *Layer) Markers() []Marker {
	return slices.Clone(l.markers)
}

// Marker returns the marker for id.
func (l *Layer) Marker(id string) (Marker, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.markers[i], true
	}
	return Marker{}, false
}

// Center returns the view center and zoom. ok is false until the view has
// been centered.
func (l *Layer) Center() (coords types.Coords, zoom int, ok bool) {
	if l.center == nil {
		return types.Coords{}, 0, false
	}
	return *l.center, l.zoom, true
}

func (l *Layer) indexOf(id string) int {
	return slices.IndexFunc(l.markers, func(m Marker) bool { return m.ID == id })
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON point. Coordinates are [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func point(c types.Coords) Geometry {
	return Geometry{Type: "Point", Coordinates: [2]float64{c.Lng(), c.Lat()}}
}

// GeoJSON returns the markers as a FeatureCollection. When the view is
// centered, a final feature with role "center" records the center and zoom.
func (l *Layer) GeoJSON() FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	for _, m := range l.markers {
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: point(m.Coords),
			Properties: map[string]any{
				"id":    m.ID,
				"kind":  string(m.Kind),
				"label": m.Label,
			},
		})
	}
	if l.center != nil {
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   point(*l.center),
			Properties: map[string]any{"role": "center", "zoom": l.zoom},
		})
	}
	return fc
}

// MarshalGeoJSON returns the indented GeoJSON document.
func (l *Layer) MarshalGeoJSON() ([]byte, error) {
	data, err := json.MarshalIndent(l.GeoJSON(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding geojson: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteGeoJSON writes the GeoJSON document to path atomically.
func (l *Layer) WriteGeoJSON(path string) error {
	data, err := l.MarshalGeoJSON()
	if err != nil {
		return err
	}
	return persist.WriteFileAtomic(path, data)
}
