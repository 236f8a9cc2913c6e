package app

import (
	"context"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// MapSink draws workout markers. Markers are keyed by workout id;
// PlaceMarker replaces an existing marker with the same id.
type MapSink interface {
	PlaceMarker(id string, coords types.Coords, kind types.Kind, label string) error
	RemoveMarker(id string) error
	CenterView(coords types.Coords, zoom int) error
}

// ViewSink renders the workout list, the form, and the menus.
// RenderItem replaces an existing item in place and puts new items on top.
type ViewSink interface {
	RenderItem(w types.Workout) error
	RemoveItem(id string) error
	RenderList(ws []types.Workout) error
	ShowForm(prefill *types.Workout) error
	HideForm() error
	ToggleItemMenu(id string) error
	ToggleMenu() error
}

// Geolocator reports the user's current position.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (types.Coords, error)
}

// Persister stores the full workout sequence. *persist.Gateway satisfies it.
type Persister interface {
	Save(records []types.Workout) error
	Load() ([]types.Workout, bool)
	Clear() error
}
