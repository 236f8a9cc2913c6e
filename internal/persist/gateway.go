// Package persist serializes the workout list to and from a key-value sink.
//
// The whole ordered list lives under one fixed key as a JSON array of
// Record values. Saving is best-effort; loading never fails, it either
// yields a list or reports that there is none.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Sink is a blocking key-value store holding serialized values.
type Sink interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)

	// Set overwrites the value for key.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key succeeds.
	Remove(key string) error
}

// Gateway reads and writes the workout list under a single key.
type Gateway struct {
	sink Sink
	key  string
}

// NewGateway returns a Gateway storing the list under key in sink.
// An empty key selects types.DefaultStorageKey.
func NewGateway(sink Sink, key string) *Gateway {
	if key == "" {
		key = types.DefaultStorageKey
	}
	return &Gateway{sink: sink, key: key}
}

// Key returns the storage key.
func (g *Gateway) Key() string {
	return g.key
}

// Save serializes records in order and overwrites the stored entry.
// Failures wrap types.ErrPersistence.
func (g *Gateway) Save(records []types.Workout) error {
	data, err := json.Marshal(FromWorkouts(records))
	if err != nil {
		return fmt.Errorf("%w: encoding %d workouts: %v", types.ErrPersistence, len(records), err)
	}
	if err := g.sink.Set(g.key, string(data)); err != nil {
		return fmt.Errorf("%w: writing %q: %v", types.ErrPersistence, g.key, err)
	}
	return nil
}

// Load returns the stored list. It reports false when nothing is stored or
// the entry cannot be read or parsed; a parse failure is treated the same
// as absence.
func (g *Gateway) Load() ([]types.Workout, bool) {
	raw, ok, err := g.sink.Get(g.key)
	if err != nil || !ok {
		return nil, false
	}

	records, err := Decode([]byte(raw))
	if err != nil {
		return nil, false
	}
	return records, true
}

// Clear removes the stored entry. Failures wrap types.ErrPersistence.
func (g *Gateway) Clear() error {
	if err := g.sink.Remove(g.key); err != nil {
		return fmt.Errorf("%w: removing %q: %v", types.ErrPersistence, g.key, err)
	}
	return nil
}

// Decode parses a JSON array of records into workouts. A JSON null decodes
// to an error so that it is treated as absent.
func Decode(data []byte) ([]types.Workout, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding workouts: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("decoding workouts: no list")
	}

	out := make([]types.Workout, 0, len(records))
	for _, r := range records {
		w, err := r.Workout()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
