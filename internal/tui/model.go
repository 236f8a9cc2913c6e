// Package tui is the interactive terminal front end.
//
// The model owns no workout state of its own: every key press becomes an
// intent event dispatched to the orchestrator, and the screen is drawn from
// the headless view list and the marker layer the orchestrator writes to.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/mapty/internal/app"
	"github.com/mesh-intelligence/mapty/internal/geo"
	"github.com/mesh-intelligence/mapty/internal/view"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// DefaultPanStep is how far one map key press moves the cursor, in degrees.
const DefaultPanStep = 0.01

// Form field indexes.
const (
	fieldKind = iota
	fieldDistance
	fieldDuration
	fieldMetric
	fieldCount
)

type mode int

const (
	modeList mode = iota
	modeMap
)

// positionMsg carries the result of the startup geolocation lookup.
type positionMsg struct {
	coords types.Coords
	err    error
}

// form holds the raw text of the workout form.
type form struct {
	kind   types.Kind
	inputs [fieldCount]string // fieldKind is unused.
	focus  int
}

// Options configures a Model.
type Options struct {
	Geo     app.Geolocator // nil skips the startup lookup.
	Timeout time.Duration  // Bound for the startup lookup.
	PanStep float64
	Start   types.Coords // Map cursor before any position is known.
}

// Model is the bubbletea model.
type Model struct {
	orch  *app.Orchestrator
	list  *view.List
	layer *geo.Layer
	opts  Options

	mode      mode
	cursor    int
	mapCursor types.Coords
	form      form

	status    string
	statusErr bool
	width     int
	height    int
}

// New returns a Model driving orch, which must render into list and layer.
func New(orch *app.Orchestrator, list *view.List, layer *geo.Layer, opts Options) Model {
	if opts.PanStep <= 0 {
		opts.PanStep = DefaultPanStep
	}
	if opts.Timeout <= 0 {
		opts.Timeout = geo.DefaultTimeout
	}
	m := Model{
		orch:      orch,
		list:      list,
		layer:     layer,
		opts:      opts,
		mapCursor: opts.Start,
		form:      form{kind: types.KindRunning, focus: fieldDistance},
	}
	if c, _, ok := layer.Center(); ok {
		m.mapCursor = c
	}
	return m
}

// Init starts the one-shot geolocation lookup.
func (m Model) Init() tea.Cmd {
	if m.opts.Geo == nil {
		return nil
	}
	return locateCmd(m.opts.Geo, m.opts.Timeout)
}

func locateCmd(g app.Geolocator, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		c, err := g.CurrentPosition(ctx)
		return positionMsg{coords: c, err: err}
	}
}

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// selectedID returns the id of the workout under the list cursor.
func (m Model) selectedID() (string, bool) {
	items := m.list.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return "", false
	}
	return items[m.cursor].Workout.ID, true
}

func (m *Model) clampCursor() {
	n := m.list.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// resetForm loads the form buffers from the view's form state.
func (m *Model) resetForm() {
	f := form{kind: types.KindRunning, focus: fieldDistance}
	if w := m.list.Form().Prefill; w != nil {
		p := w.Patch()
		f.kind = p.Kind
		f.inputs[fieldDistance] = formatNumber(p.Distance)
		f.inputs[fieldDuration] = formatNumber(p.Duration)
		f.inputs[fieldMetric] = formatNumber(p.Metric)
	}
	m.form = f
}
