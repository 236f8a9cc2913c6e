package intent

import "github.com/mesh-intelligence/mapty/pkg/types"

// Command is a structured request for the orchestrator.
type Command interface {
	command()
}

// OpenForm opens the create form for a workout at Coords.
type OpenForm struct {
	Coords types.Coords
}

// SubmitWorkout carries a validated form. Whether it creates or edits a
// record depends on the orchestrator's state.
type SubmitWorkout struct {
	Patch types.Patch
}

// Recenter moves the map to the workout's coords.
type Recenter struct {
	ID string
}

// ToggleItemMenu shows or hides the edit/delete menu of one list item.
type ToggleItemMenu struct {
	ID string
}

// EditWorkout opens the form prefilled with the workout's values.
type EditWorkout struct {
	ID string
}

// DeleteWorkout removes one workout.
type DeleteWorkout struct {
	ID string
}

// DeleteAll removes every workout and clears persisted state.
type DeleteAll struct{}

// SortBy re-renders the list in the given order.
type SortBy struct {
	Key types.SortKey
}

// ToggleMenu shows or hides the side menu.
type ToggleMenu struct{}

// CloseForm discards the form and returns to idle.
type CloseForm struct{}

func (OpenForm) command()       {}
func (SubmitWorkout) command()  {}
func (Recenter) command()       {}
func (ToggleItemMenu) command() {}
func (EditWorkout) command()    {}
func (DeleteWorkout) command()  {}
func (DeleteAll) command()      {}
func (SortBy) command()         {}
func (ToggleMenu) command()     {}
func (CloseForm) command()      {}
