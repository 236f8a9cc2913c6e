// Package intent translates raw UI events into structured commands.
//
// Front ends (the terminal UI, the CLI) describe what the user did as an
// Event. The Interpreter validates form input and disambiguates list clicks,
// then yields the Command the orchestrator should execute.
package intent

import "github.com/mesh-intelligence/mapty/pkg/types"

// Event is a raw user interaction.
type Event interface {
	event()
}

// MapClicked reports a click on the map at Coords.
type MapClicked struct {
	Coords types.Coords
}

// FormSubmitted carries the raw text of every form field. Kind names the
// selected workout type.
type FormSubmitted struct {
	Kind          string
	Distance      string
	Duration      string
	Cadence       string
	ElevationGain string
}

// ListTarget names the sub-element of a list item that was clicked.
type ListTarget string

// List click targets. Any other target counts as a click on the item body.
const (
	TargetMenuIcon ListTarget = "menu-icon"
	TargetEdit     ListTarget = "edit"
	TargetDelete   ListTarget = "delete"
	TargetItem     ListTarget = "item"
)

// ListClicked reports a click inside the rendered item for WorkoutID.
type ListClicked struct {
	WorkoutID string
	Target    ListTarget
}

// MenuItem names an entry of the side menu.
type MenuItem string

// Side menu entries.
const (
	MenuToggle       MenuItem = "toggle"
	MenuDeleteAll    MenuItem = "delete-all"
	MenuSortDistance MenuItem = "sort-distance"
	MenuSortDuration MenuItem = "sort-duration"
	MenuSortRecent   MenuItem = "sort-recent"
)

// MenuClicked reports a click on a side menu entry.
type MenuClicked struct {
	Item MenuItem
}

// KeyEscape is the key name that closes the form.
const KeyEscape = "esc"

// KeyPressed reports a key press anywhere in the application.
type KeyPressed struct {
	Key string
}

// CloseClicked reports a click on the form's close control.
type CloseClicked struct{}

func (MapClicked) event()    {}
func (FormSubmitted) event() {}
func (ListClicked) event()   {}
func (MenuClicked) event()   {}
func (KeyPressed) event()    {}
func (CloseClicked) event()  {}
