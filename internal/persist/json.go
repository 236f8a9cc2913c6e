// JSON record structure for the persisted workout list.
package persist

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Record is one element of the persisted JSON array. The variant is
// discriminated by Kind; only the metric and rate of that kind are present.
type Record struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	Coords        [2]float64 `json:"coords"`
	Distance      float64    `json:"distance"`
	Duration      float64    `json:"duration"`
	Kind          string     `json:"kind"`
	Cadence       *int       `json:"cadence,omitempty"`
	ElevationGain *float64   `json:"elevationGain,omitempty"`
	Pace          *float64   `json:"pace,omitempty"`
	Speed         *float64   `json:"speed,omitempty"`
	Description   string     `json:"description"`
}

// FromWorkout converts a workout to its persisted form.
func FromWorkout(w types.Workout) Record {
	r := Record{
		ID:          w.ID,
		Date:        w.CreatedAt,
		Coords:      w.Coords,
		Distance:    w.Distance,
		Duration:    w.Duration,
		Kind:        string(w.Kind),
		Description: w.Description,
	}
	if w.Running != nil {
		cadence, pace := w.Running.Cadence, w.Running.Pace
		r.Cadence, r.Pace = &cadence, &pace
	}
	if w.Cycling != nil {
		gain, speed := w.Cycling.ElevationGain, w.Cycling.Speed
		r.ElevationGain, r.Speed = &gain, &speed
	}
	return r
}

// FromWorkouts converts an ordered list of workouts.
func FromWorkouts(ws []types.Workout) []Record {
	out := make([]Record, len(ws))
	for i, w := range ws {
		out[i] = FromWorkout(w)
	}
	return out
}

// Workout converts r back into a workout. Derived fields are recomputed
// from the stored inputs rather than trusted. Returns ErrInvalidKind if the
// kind is not recognized.
func (r Record) Workout() (types.Workout, error) {
	kind, err := types.ParseKind(r.Kind)
	if err != nil {
		return types.Workout{}, fmt.Errorf("record %s: %w", r.ID, err)
	}

	w := types.Workout{
		ID:        r.ID,
		CreatedAt: r.Date,
		Coords:    types.Coords(r.Coords),
		Distance:  r.Distance,
		Duration:  r.Duration,
		Kind:      kind,
	}
	switch kind {
	case types.KindRunning:
		w.Running = &types.RunningStats{}
		if r.Cadence != nil {
			w.Running.Cadence = *r.Cadence
		}
	case types.KindCycling:
		w.Cycling = &types.CyclingStats{}
		if r.ElevationGain != nil {
			w.Cycling.ElevationGain = *r.ElevationGain
		}
	}
	w.Refresh()
	return w, nil
}
