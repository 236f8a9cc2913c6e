package types

import (
	"errors"
	"fmt"
	"strings"
)

// SortKey names a display ordering of the workout list.
type SortKey string

// Sort keys. SortRecent is insertion order; the others sort descending.
const (
	SortRecent   SortKey = "recent"
	SortDistance SortKey = "distance"
	SortDuration SortKey = "duration"
)

// ParseSortKey returns the SortKey named by s. An empty string is SortRecent.
// Returns ErrInvalidSortKey for anything else.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "", SortRecent:
		return SortRecent, nil
	case SortDistance, SortDuration:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}

// Store errors.
var (
	ErrNotFound       = errors.New("workout not found")
	ErrDuplicateID    = errors.New("duplicate workout ID")
	ErrInvalidSortKey = errors.New("invalid sort key")
)

// Model and input errors.
var (
	ErrInvalidKind = errors.New("invalid workout kind")
	ErrValidation  = errors.New("invalid workout field")
)

// Side-effect errors. Both are recovered by the orchestrator.
var (
	ErrPersistence = errors.New("persistence failed")
	ErrGeolocation = errors.New("geolocation unavailable")
)

// Form state errors.
var (
	ErrFormOpen = errors.New("a workout form is open")
	ErrNoForm   = errors.New("no workout form is open")
)
