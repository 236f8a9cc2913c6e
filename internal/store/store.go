// Package store holds the canonical, ordered collection of workouts.
//
// The Store is single-threaded and synchronous. Records are copied on the way
// in and on the way out, so callers never hold a reference into the internal
// sequence and every mutation goes through one of the methods below.
package store

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Store is the single source of truth for workout records, kept in
// insertion order.
type Store struct {
	workouts []types.Workout
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Add appends w. Returns ErrDuplicateID if a record with the same ID is
// already present.
func (s *Store) Add(w types.Workout) error {
	if s.indexOf(w.ID) >= 0 {
		return fmt.Errorf("adding workout %s: %w", w.ID, types.ErrDuplicateID)
	}
	s.workouts = append(s.workouts, w.Clone())
	return nil
}

// Replace loads a snapshot in order, dropping the current contents. The first
// record with a given ID wins; the IDs of later duplicates are returned along
// with an error wrapping ErrDuplicateID.
func (s *Store) Replace(records []types.Workout) ([]string, error) {
	s.workouts = nil
	var dups []string
	for _, w := range records {
		if err := s.Add(w); err != nil {
			dups = append(dups, w.ID)
		}
	}
	if len(dups) > 0 {
		return dups, fmt.Errorf("restoring %d workouts: %w", len(dups), types.ErrDuplicateID)
	}
	return nil, nil
}

// ApplyEdit patches the record with the given ID in place and returns the
// updated copy. The patch may change the record's kind. Returns ErrNotFound
// if no record has that ID.
func (s *Store) ApplyEdit(id string, p types.Patch) (types.Workout, error) {
	i := s.indexOf(id)
	if i < 0 {
		return types.Workout{}, fmt.Errorf("editing workout %s: %w", id, types.ErrNotFound)
	}
	s.workouts[i].Apply(p)
	return s.workouts[i].Clone(), nil
}

// Remove deletes exactly the one record with the given ID and returns it.
// Returns ErrNotFound if no record has that ID; the Store is unchanged.
func (s *Store) Remove(id string) (types.Workout, error) {
	i := s.indexOf(id)
	if i < 0 {
		return types.Workout{}, fmt.Errorf("removing workout %s: %w", id, types.ErrNotFound)
	}
	removed := s.workouts[i]
	s.workouts = slices.Delete(s.workouts, i, i+1)
	return removed, nil
}

// RemoveAll clears the Store and returns the records it held.
func (s *Store) RemoveAll() []types.Workout {
	removed := s.workouts
	s.workouts = nil
	return removed
}

// List returns copies of all records in insertion order.
func (s *Store) List() []types.Workout {
	out := make([]types.Workout, len(s.workouts))
	for i, w := range s.workouts {
		out[i] = w.Clone()
	}
	return out
}

// SortedView returns copies of all records ordered by key. Distance and
// duration sort descending; ties keep insertion order. SortRecent returns
// insertion order. The Store's own order is never changed.
func (s *Store) SortedView(key types.SortKey) ([]types.Workout, error) {
	var field func(types.Workout) float64
	switch key {
	case types.SortRecent:
		return s.List(), nil
	case types.SortDistance:
		field = func(w types.Workout) float64 { return w.Distance }
	case types.SortDuration:
		field = func(w types.Workout) float64 { return w.Duration }
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidSortKey, key)
	}

	view := s.List()
	slices.SortStableFunc(view, func(a, b types.Workout) int {
		return cmp.Compare(field(b), field(a))
	})
	return view, nil
}

// FindByID returns a copy of the record with the given ID.
func (s *Store) FindByID(id string) (types.Workout, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return types.Workout{}, false
	}
	return s.workouts[i].Clone(), true
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.workouts)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.workouts, func(w types.Workout) bool {
		return w.ID == id
	})
}
