package intent

import (
	"fmt"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Lookup finds workouts by id. *store.Store satisfies it.
type Lookup interface {
	FindByID(id string) (types.Workout, bool)
}

// Interpreter maps events to commands.
type Interpreter struct {
	lookup Lookup
	limits Limits
}

// NewInterpreter returns an Interpreter that resolves list clicks against
// lookup and validates forms with limits.
func NewInterpreter(lookup Lookup, limits Limits) *Interpreter {
	return &Interpreter{lookup: lookup, limits: limits.withDefaults()}
}

// Limits returns the validation limits in use.
func (in *Interpreter) Limits() Limits {
	return in.limits
}

// Interpret returns the command for ev. A nil command with a nil error means
// the event has no effect.
func (in *Interpreter) Interpret(ev Event) (Command, error) {
	switch ev := ev.(type) {
	case MapClicked:
		return OpenForm{Coords: ev.Coords}, nil

	case FormSubmitted:
		p, err := in.limits.Validate(ev)
		if err != nil {
			return nil, err
		}
		return SubmitWorkout{Patch: p}, nil

	case ListClicked:
		if _, ok := in.lookup.FindByID(ev.WorkoutID); !ok {
			return nil, fmt.Errorf("list item %s: %w", ev.WorkoutID, types.ErrNotFound)
		}
		switch ev.Target {
		case TargetMenuIcon:
			return ToggleItemMenu{ID: ev.WorkoutID}, nil
		case TargetEdit:
			return EditWorkout{ID: ev.WorkoutID}, nil
		case TargetDelete:
			return DeleteWorkout{ID: ev.WorkoutID}, nil
		default:
			return Recenter{ID: ev.WorkoutID}, nil
		}

	case MenuClicked:
		return menuCommand(ev.Item)

	case KeyPressed:
		if ev.Key == KeyEscape {
			return CloseForm{}, nil
		}
		return nil, nil

	case CloseClicked:
		return CloseForm{}, nil
	}

	return nil, fmt.Errorf("unknown event %T", ev)
}

func menuCommand(item MenuItem) (Command, error) {
	switch item {
	case MenuToggle:
		return ToggleMenu{}, nil
	case MenuDeleteAll:
		return DeleteAll{}, nil
	case MenuSortDistance:
		return SortBy{Key: types.SortDistance}, nil
	case MenuSortDuration:
		return SortBy{Key: types.SortDuration}, nil
	case MenuSortRecent:
		return SortBy{Key: types.SortRecent}, nil
	}
	return nil, fmt.Errorf("unknown menu item %q", item)
}
