package intent

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// DefaultMax is the exclusive upper bound applied to every numeric form field.
const DefaultMax = 100

// Limits holds the exclusive upper bounds for form fields. The lower bound is
// always exclusive zero.
type Limits struct {
	Max        float64 // Distance, duration and elevation gain.
	CadenceMax float64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{Max: DefaultMax, CadenceMax: DefaultMax}
}

// withDefaults fills zero bounds with DefaultMax.
func (l Limits) withDefaults() Limits {
	if l.Max <= 0 {
		l.Max = DefaultMax
	}
	if l.CadenceMax <= 0 {
		l.CadenceMax = DefaultMax
	}
	return l
}

// ValidateNumericField reports whether value, trimmed, parses to a finite
// number strictly between 0 and DefaultMax.
func ValidateNumericField(value string) bool {
	_, ok := parseBounded(value, DefaultMax)
	return ok
}

func parseBounded(value string, max float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, v > 0 && v < max
}

// field parses one form field or returns a validation error naming it.
func field(name, value string, max float64) (float64, error) {
	v, ok := parseBounded(value, max)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a positive number below %g, got %q",
			types.ErrValidation, name, max, value)
	}
	return v, nil
}

// Validate turns a raw submission into a Patch. Only the metric field of the
// submitted kind is checked; the other one is ignored.
func (l Limits) Validate(ev FormSubmitted) (types.Patch, error) {
	l = l.withDefaults()

	kind, err := types.ParseKind(ev.Kind)
	if err != nil {
		return types.Patch{}, fmt.Errorf("%w: %w", types.ErrValidation, err)
	}

	distance, err := field("distance", ev.Distance, l.Max)
	if err != nil {
		return types.Patch{}, err
	}
	duration, err := field("duration", ev.Duration, l.Max)
	if err != nil {
		return types.Patch{}, err
	}

	var metric float64
	switch kind {
	case types.KindRunning:
		metric, err = field("cadence", ev.Cadence, l.CadenceMax)
		if err != nil {
			return types.Patch{}, err
		}
		if metric != math.Trunc(metric) {
			return types.Patch{}, fmt.Errorf("%w: cadence must be a whole number, got %q",
				types.ErrValidation, ev.Cadence)
		}
	case types.KindCycling:
		metric, err = field("elevation gain", ev.ElevationGain, l.Max)
		if err != nil {
			return types.Patch{}, err
		}
	}

	return types.Patch{Kind: kind, Distance: distance, Duration: duration, Metric: metric}, nil
}

// Check applies the form bounds to an existing record, such as one read from
// an export. It returns an error wrapping ErrValidation naming the first
// field out of range.
func (l Limits) Check(w types.Workout) error {
	l = l.withDefaults()

	if !w.Kind.Valid() {
		return fmt.Errorf("%w: %w: %q", types.ErrValidation, types.ErrInvalidKind, w.Kind)
	}
	if err := bounded("distance", w.Distance, l.Max); err != nil {
		return err
	}
	if err := bounded("duration", w.Duration, l.Max); err != nil {
		return err
	}
	switch {
	case w.Kind == types.KindRunning && w.Running != nil:
		return bounded("cadence", float64(w.Running.Cadence), l.CadenceMax)
	case w.Kind == types.KindCycling && w.Cycling != nil:
		return bounded("elevation gain", w.Cycling.ElevationGain, l.Max)
	}
	return fmt.Errorf("%w: %s workout has no %s payload", types.ErrValidation, w.Kind, w.Kind)
}

func bounded(name string, v, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v >= max {
		return fmt.Errorf("%w: %s must be a positive number below %g, got %g",
			types.ErrValidation, name, max, v)
	}
	return nil
}
