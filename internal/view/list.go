// Package view is the headless rendering model shared by the terminal UI and
// the CLI. It keeps the workout list in display order plus the form and menu
// state, and formats items for the terminal with lipgloss.
package view

import (
	"slices"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Item is one rendered list entry.
type Item struct {
	Workout  types.Workout
	MenuOpen bool // Edit/delete menu of this item.
}

// Form is the state of the workout form. Prefill is set when editing.
type Form struct {
	Open    bool
	Prefill *types.Workout
}

// Editing reports whether the form edits an existing workout.
func (f Form) Editing() bool {
	return f.Open && f.Prefill != nil
}

// List implements app.ViewSink. Items are kept top first.
type List struct {
	items    []Item
	form     Form
	menuOpen bool
}

// NewList returns an empty list with the form hidden.
func NewList() *List {
	return &List{}
}

// RenderItem replaces the item with the same id in place, or puts a new item
// on top.
func (l *List) RenderItem(w types.Workout) error {
	w = w.Clone()
	if i := l.Index(w.ID); i >= 0 {
		l.items[i].Workout = w
		l.items[i].MenuOpen = false
		return nil
	}
	l.items = slices.Insert(l.items, 0, Item{Workout: w})
	return nil
}

// RemoveItem removes the item for id. Removing a missing item is a no-op.
func (l *List) RemoveItem(id string) error {
	if i := l.Index(id); i >= 0 {
		l.items = slices.Delete(l.items, i, i+1)
	}
	return nil
}

// RenderList replaces every item with ws, shown in the given order.
func (l *List) RenderList(ws []types.Workout) error {
	items := make([]Item, len(ws))
	for i, w := range ws {
		items[i] = Item{Workout: w.Clone()}
	}
	l.items = items
	return nil
}

// ShowForm opens the form. A nil prefill means a new workout.
func (l *List) ShowForm(prefill *types.Workout) error {
	l.form = Form{Open: true}
	if prefill != nil {
		w := prefill.Clone()
		l.form.Prefill = &w
	}
	return nil
}

// HideForm closes the form and drops any prefill.
func (l *List) HideForm() error {
	l.form = Form{}
	return nil
}

// ToggleItemMenu flips the item menu for id.
func (l *List) ToggleItemMenu(id string) error {
	if i := l.Index(id); i >= 0 {
		l.items[i].MenuOpen = !l.items[i].MenuOpen
	}
	return nil
}

// ToggleMenu flips the side menu.
func (l *List) ToggleMenu() error {
	l.menuOpen = !l.menuOpen
	return nil
}

// Items returns the items top first.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	for i, it := range l.items {
		out[i] = Item{Workout: it.Workout.Clone(), MenuOpen: it.MenuOpen}
	}
	return out
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// Form returns the form state.
func (l *List) Form() Form { return l.form }

// MenuOpen reports whether the side menu is shown.
func (l *List) MenuOpen() bool { return l.menuOpen }

// Index returns the display position of id, or -1.
func (l *List) Index(id string) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.Workout.ID == id })
}
