package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the workout variants.
type Kind string

// Workout kinds.
const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// validKinds is the set of recognized workout kinds.
var validKinds = map[Kind]bool{
	KindRunning: true,
	KindCycling: true,
}

// ParseKind returns the Kind named by s (case-insensitive).
// Returns ErrInvalidKind if s names no known kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !validKinds[k] {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return validKinds[k]
}

// Icon returns the glyph used for the kind in lists and marker labels.
func (k Kind) Icon() string {
	if k == KindCycling {
		return "🚴‍♀️"
	}
	return "🏃‍♂️"
}

// Coords is a latitude/longitude pair. It encodes as a two-element JSON array.
type Coords [2]float64

// Lat returns the latitude.
func (c Coords) Lat() float64 { return c[0] }

// Lng returns the longitude.
func (c Coords) Lng() float64 { return c[1] }

func (c Coords) String() string {
	return fmt.Sprintf("%.5f,%.5f", c[0], c[1])
}

// RunningStats is the running payload of a Workout.
type RunningStats struct {
	Cadence int     // Steps per minute.
	Pace    float64 // Minutes per kilometer, derived.
}

// CyclingStats is the cycling payload of a Workout.
type CyclingStats struct {
	ElevationGain float64 // Meters.
	Speed         float64 // Kilometers per hour, derived.
}

// Workout is one logged workout. Exactly one of Running and Cycling is set,
// matching Kind.
type Workout struct {
	ID          string    // UUID v7, generated on creation.
	CreatedAt   time.Time // Timestamp of creation.
	Coords      Coords    // Where the workout was logged; never changes.
	Distance    float64   // Kilometers.
	Duration    float64   // Minutes.
	Kind        Kind
	Description string // Derived from Kind and CreatedAt.

	Running *RunningStats
	Cycling *CyclingStats
}

// Patch carries the user-editable fields of a Workout. Metric is read as
// cadence for running and elevation gain for cycling.
type Patch struct {
	Kind     Kind
	Distance float64
	Duration float64
	Metric   float64
}

// Identity sources. Tests replace these to pin IDs and timestamps.
var (
	newID = generateUUID
	now   = time.Now
)

// generateUUID generates a new UUID v7 for workout IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// NewRunning creates a running workout at coords. The model trusts its
// inputs; validation belongs to the caller.
func NewRunning(coords Coords, distance, duration float64, cadence int) *Workout {
	w := &Workout{
		ID:        newID(),
		CreatedAt: now(),
		Coords:    coords,
		Distance:  distance,
		Duration:  duration,
		Kind:      KindRunning,
		Running:   &RunningStats{Cadence: cadence},
	}
	w.Refresh()
	return w
}

// NewCycling creates a cycling workout at coords.
func NewCycling(coords Coords, distance, duration, elevationGain float64) *Workout {
	w := &Workout{
		ID:        newID(),
		CreatedAt: now(),
		Coords:    coords,
		Distance:  distance,
		Duration:  duration,
		Kind:      KindCycling,
		Cycling:   &CyclingStats{ElevationGain: elevationGain},
	}
	w.Refresh()
	return w
}

// New creates a workout of the patch's kind at coords.
// Returns ErrInvalidKind for an unknown kind.
func New(coords Coords, p Patch) (*Workout, error) {
	switch p.Kind {
	case KindRunning:
		return NewRunning(coords, p.Distance, p.Duration, int(p.Metric)), nil
	case KindCycling:
		return NewCycling(coords, p.Distance, p.Duration, p.Metric), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, p.Kind)
	}
}

// Apply overwrites the editable fields with p and recomputes derived fields.
// When p.Kind differs from the current kind the variant is swapped and the
// previous payload dropped. ID, CreatedAt and Coords are untouched.
func (w *Workout) Apply(p Patch) {
	w.Distance = p.Distance
	w.Duration = p.Duration
	w.Kind = p.Kind
	switch p.Kind {
	case KindCycling:
		w.Running = nil
		w.Cycling = &CyclingStats{ElevationGain: p.Metric}
	default:
		w.Cycling = nil
		w.Running = &RunningStats{Cadence: int(p.Metric)}
	}
	w.Refresh()
}

// Refresh recomputes Pace or Speed and the description.
func (w *Workout) Refresh() {
	if w.Running != nil {
		w.Running.Pace = Pace(w.Distance, w.Duration)
	}
	if w.Cycling != nil {
		w.Cycling.Speed = Speed(w.Distance, w.Duration)
	}
	w.Description = Describe(w.Kind, w.CreatedAt)
}

// Metric returns cadence for running workouts and elevation gain for
// cycling workouts.
func (w Workout) Metric() float64 {
	switch {
	case w.Running != nil:
		return float64(w.Running.Cadence)
	case w.Cycling != nil:
		return w.Cycling.ElevationGain
	}
	return 0
}

// Rate returns pace (min/km) for running and speed (km/h) for cycling.
func (w Workout) Rate() float64 {
	switch {
	case w.Running != nil:
		return w.Running.Pace
	case w.Cycling != nil:
		return w.Cycling.Speed
	}
	return 0
}

// Patch returns the editable fields of w, used to prefill an edit form.
func (w Workout) Patch() Patch {
	return Patch{Kind: w.Kind, Distance: w.Distance, Duration: w.Duration, Metric: w.Metric()}
}

// Clone returns a deep copy of w.
func (w Workout) Clone() Workout {
	if w.Running != nil {
		r := *w.Running
		w.Running = &r
	}
	if w.Cycling != nil {
		c := *w.Cycling
		w.Cycling = &c
	}
	return w
}

// Pace returns minutes per kilometer.
func Pace(distance, duration float64) float64 {
	return duration / distance
}

// Speed returns kilometers per hour.
func Speed(distance, duration float64) float64 {
	return distance / (duration / 60)
}

// Describe returns the workout title, e.g. "Running on April 3". The trailing
// number is the weekday index (Sunday is 0), not the day of the month.
func Describe(kind Kind, createdAt time.Time) string {
	name := string(kind)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s on %s %d", name, createdAt.Month(), int(createdAt.Weekday()))
}
