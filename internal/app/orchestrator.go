// Package app wires user intents to the workout store and its side effects.
//
// The Orchestrator owns the Store and a small state machine (idle, creating,
// editing). Every successful command mutates the Store first and then drives
// the view, the map, and persistence in that order. Side-effect failures are
// logged and never roll back the Store.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/mesh-intelligence/mapty/internal/intent"
	"github.com/mesh-intelligence/mapty/internal/store"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// DefaultZoom is the map zoom used when recentering.
const DefaultZoom = 13

// State is the orchestrator's form state.
type State int

// Orchestrator states.
const (
	StateIdle State = iota
	StateFormOpenForCreate
	StateFormOpenForEdit
)

func (s State) String() string {
	switch s {
	case StateFormOpenForCreate:
		return "creating"
	case StateFormOpenForEdit:
		return "editing"
	default:
		return "idle"
	}
}

// Deps are the collaborators of an Orchestrator. View, Map and Persist are
// required; a nil Geo disables geolocation and a nil Logger discards logs.
type Deps struct {
	View    ViewSink
	Map     MapSink
	Persist Persister
	Geo     Geolocator
	Logger  *slog.Logger
	Zoom    int
	Limits  intent.Limits
}

// Orchestrator is single-threaded; callers must not use it concurrently.
type Orchestrator struct {
	store  *store.Store
	interp *intent.Interpreter

	view    ViewSink
	mapSink MapSink
	persist Persister
	geo     Geolocator
	logger  *slog.Logger
	zoom    int

	state      State
	pending    types.Coords // Coords captured by OpenForm.
	editing    string       // ID of the record being edited.
	menuOpen   bool
	memoryOnly bool // Set after the first persistence failure.
	last       *types.Workout
}

// New creates an Orchestrator with an empty store.
func New(deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	zoom := deps.Zoom
	if zoom <= 0 {
		zoom = DefaultZoom
	}

	s := store.New()
	return &Orchestrator{
		store:   s,
		interp:  intent.NewInterpreter(s, deps.Limits),
		view:    deps.View,
		mapSink: deps.Map,
		persist: deps.Persist,
		geo:     deps.Geo,
		logger:  logger,
		zoom:    zoom,
	}
}

// State returns the current form state.
func (o *Orchestrator) State() State { return o.state }

// Editing returns the id of the record being edited, or "".
func (o *Orchestrator) Editing() string { return o.editing }

// MemoryOnly reports whether persistence was disabled after a failure.
func (o *Orchestrator) MemoryOnly() bool { return o.memoryOnly }

// Workouts returns the records in insertion order.
func (o *Orchestrator) Workouts() []types.Workout { return o.store.List() }

// Workout returns the record with the given id.
func (o *Orchestrator) Workout(id string) (types.Workout, bool) { return o.store.FindByID(id) }

// Sorted returns the records ordered by key without changing the store.
func (o *Orchestrator) Sorted(key types.SortKey) ([]types.Workout, error) {
	return o.store.SortedView(key)
}

// LastSubmitted returns the record produced by the most recent successful
// submission.
func (o *Orchestrator) LastSubmitted() (types.Workout, bool) {
	if o.last == nil {
		return types.Workout{}, false
	}
	return o.last.Clone(), true
}

// Dispatch interprets ev and executes the resulting command. Validation
// errors leave the state unchanged and the form open.
func (o *Orchestrator) Dispatch(ev intent.Event) error {
	cmd, err := o.interp.Interpret(ev)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			o.logger.Error("event refers to a missing workout", "event", fmt.Sprintf("%T", ev), "error", err)
		}
		return err
	}
	if cmd == nil {
		return nil
	}
	return o.Execute(cmd)
}

// Execute runs one command.
func (o *Orchestrator) Execute(cmd intent.Command) error {
	switch cmd := cmd.(type) {
	case intent.OpenForm:
		return o.openForm(cmd.Coords)
	case intent.EditWorkout:
		return o.editWorkout(cmd.ID)
	case intent.SubmitWorkout:
		return o.submit(cmd.Patch)
	case intent.CloseForm:
		o.closeForm()
		return nil
	case intent.DeleteWorkout:
		return o.deleteWorkout(cmd.ID)
	case intent.DeleteAll:
		return o.deleteAll()
	case intent.SortBy:
		return o.sortBy(cmd.Key)
	case intent.Recenter:
		return o.recenter(cmd.ID)
	case intent.ToggleItemMenu:
		if _, ok := o.store.FindByID(cmd.ID); !ok {
			return o.notFound(cmd.ID)
		}
		o.effect("toggle item menu", o.view.ToggleItemMenu(cmd.ID))
		return nil
	case intent.ToggleMenu:
		o.menuOpen = !o.menuOpen
		o.effect("toggle menu", o.view.ToggleMenu())
		return nil
	}
	return fmt.Errorf("unknown command %T", cmd)
}

func (o *Orchestrator) openForm(coords types.Coords) error {
	if o.state != StateIdle {
		return types.ErrFormOpen
	}
	o.state = StateFormOpenForCreate
	o.pending = coords
	o.effect("show form", o.view.ShowForm(nil))
	return nil
}

func (o *Orchestrator) editWorkout(id string) error {
	if o.state != StateIdle {
		return types.ErrFormOpen
	}
	w, ok := o.store.FindByID(id)
	if !ok {
		return o.notFound(id)
	}
	o.state = StateFormOpenForEdit
	o.editing = id
	o.effect("show form", o.view.ShowForm(&w))
	return nil
}

func (o *Orchestrator) submit(p types.Patch) error {
	switch o.state {
	case StateFormOpenForCreate:
		w, err := types.New(o.pending, p)
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrValidation, err)
		}
		if err := o.store.Add(*w); err != nil {
			return err
		}
		o.toIdle()
		o.last = w
		o.logger.Debug("workout created", "id", w.ID, "kind", w.Kind)

		o.effect("hide form", o.view.HideForm())
		o.effect("place marker", o.mapSink.PlaceMarker(w.ID, w.Coords, w.Kind, Label(*w)))
		o.effect("render item", o.view.RenderItem(*w))
		o.save()
		return nil

	case StateFormOpenForEdit:
		id := o.editing
		w, err := o.store.ApplyEdit(id, p)
		if err != nil {
			o.toIdle()
			o.effect("hide form", o.view.HideForm())
			return o.notFound(id)
		}
		o.toIdle()
		o.last = &w
		o.logger.Debug("workout edited", "id", w.ID, "kind", w.Kind)

		o.effect("hide form", o.view.HideForm())
		o.effect("render item", o.view.RenderItem(w))
		o.effect("place marker", o.mapSink.PlaceMarker(w.ID, w.Coords, w.Kind, Label(w)))
		o.save()
		return nil
	}
	return types.ErrNoForm
}

// closeForm discards any form and closes the side menu.
func (o *Orchestrator) closeForm() {
	if o.state != StateIdle {
		o.toIdle()
		o.effect("hide form", o.view.HideForm())
	}
	if o.menuOpen {
		o.menuOpen = false
		o.effect("toggle menu", o.view.ToggleMenu())
	}
}

func (o *Orchestrator) deleteWorkout(id string) error {
	if o.state != StateIdle {
		return types.ErrFormOpen
	}
	if _, err := o.store.Remove(id); err != nil {
		return o.notFound(id)
	}
	o.logger.Debug("workout deleted", "id", id)

	o.effect("remove item", o.view.RemoveItem(id))
	o.effect("remove marker", o.mapSink.RemoveMarker(id))
	o.save()
	return nil
}

func (o *Orchestrator) deleteAll() error {
	if o.state != StateIdle {
		return types.ErrFormOpen
	}
	removed := o.store.RemoveAll()
	o.logger.Debug("all workouts deleted", "count", len(removed))

	for _, w := range removed {
		o.effect("remove item", o.view.RemoveItem(w.ID))
		o.effect("remove marker", o.mapSink.RemoveMarker(w.ID))
	}
	if o.persist != nil && !o.memoryOnly {
		if err := o.persist.Clear(); err != nil {
			o.persistFailed(err)
		}
	}
	return nil
}

func (o *Orchestrator) sortBy(key types.SortKey) error {
	if o.state != StateIdle {
		return types.ErrFormOpen
	}
	ws, err := o.store.SortedView(key)
	if err != nil {
		return err
	}
	if key == types.SortRecent {
		slices.Reverse(ws)
	}
	o.effect("render list", o.view.RenderList(ws))
	return nil
}

func (o *Orchestrator) recenter(id string) error {
	if o.state != StateIdle {
		return types.ErrFormOpen
	}
	w, ok := o.store.FindByID(id)
	if !ok {
		return o.notFound(id)
	}
	o.effect("center view", o.mapSink.CenterView(w.Coords, o.zoom))
	return nil
}

// Restore loads the persisted snapshot into the store and renders every
// record. Duplicate ids are logged and skipped. It returns the number of
// records loaded.
func (o *Orchestrator) Restore() int {
	if o.persist == nil {
		return 0
	}
	records, ok := o.persist.Load()
	if !ok {
		return 0
	}
	dups, err := o.store.Replace(records)
	if err != nil {
		o.logger.Warn("skipped duplicate workouts in saved data", "ids", dups)
	}

	for _, w := range o.store.List() {
		o.effect("render item", o.view.RenderItem(w))
		o.effect("place marker", o.mapSink.PlaceMarker(w.ID, w.Coords, w.Kind, Label(w)))
	}
	o.logger.Debug("workouts restored", "count", o.store.Len())
	return o.store.Len()
}

// Import appends records from an export, then saves once. Records whose id
// is already present or whose values fall outside the validation limits are
// skipped. It returns the number added and the skipped ids.
func (o *Orchestrator) Import(records []types.Workout) (int, []string, error) {
	if o.state != StateIdle {
		return 0, nil, types.ErrFormOpen
	}
	limits := o.interp.Limits()
	var (
		added   int
		skipped []string
	)
	for _, w := range records {
		if err := limits.Check(w); err != nil {
			o.logger.Warn("skipped invalid workout", "id", w.ID, "error", err)
			skipped = append(skipped, w.ID)
			continue
		}
		if err := o.store.Add(w); err != nil {
			o.logger.Warn("skipped workout already present", "id", w.ID)
			skipped = append(skipped, w.ID)
			continue
		}
		added++
		o.effect("render item", o.view.RenderItem(w))
		o.effect("place marker", o.mapSink.PlaceMarker(w.ID, w.Coords, w.Kind, Label(w)))
	}
	if added > 0 {
		o.save()
	}
	return added, skipped, nil
}

// Locate asks the geolocator for the current position once and centers the
// map on success. A failure is logged and returned wrapped in ErrGeolocation;
// the application keeps working uncentered.
func (o *Orchestrator) Locate(ctx context.Context) error {
	if o.geo == nil {
		return o.HandlePosition(types.Coords{}, errors.New("no geolocation provider"))
	}
	coords, err := o.geo.CurrentPosition(ctx)
	return o.HandlePosition(coords, err)
}

// HandlePosition applies a geolocation result obtained elsewhere, for
// example in a background command of the terminal UI.
func (o *Orchestrator) HandlePosition(coords types.Coords, err error) error {
	if err != nil {
		o.logger.Warn("could not get your position", "error", err)
		if errors.Is(err, types.ErrGeolocation) {
			return err
		}
		return fmt.Errorf("%w: %w", types.ErrGeolocation, err)
	}
	o.effect("center view", o.mapSink.CenterView(coords, o.zoom))
	return nil
}

func (o *Orchestrator) toIdle() {
	o.state = StateIdle
	o.pending = types.Coords{}
	o.editing = ""
}

func (o *Orchestrator) save() {
	if o.persist == nil || o.memoryOnly {
		return
	}
	if err := o.persist.Save(o.store.List()); err != nil {
		o.persistFailed(err)
	}
}

func (o *Orchestrator) persistFailed(err error) {
	o.memoryOnly = true
	o.logger.Warn("saving workouts failed, continuing in memory only", "error", err)
}

func (o *Orchestrator) notFound(id string) error {
	err := fmt.Errorf("workout %s: %w", id, types.ErrNotFound)
	o.logger.Error("workout missing from store", "id", id)
	return err
}

// effect logs a failed view or map update.
func (o *Orchestrator) effect(what string, err error) {
	if err != nil {
		o.logger.Error("side effect failed", "effect", what, "error", err)
	}
}

// Label is the marker popup text for w.
func Label(w types.Workout) string {
	return w.Kind.Icon() + " " + w.Description
}
