package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/mapty/internal/intent"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case positionMsg:
		return m.handlePosition(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handlePosition(msg positionMsg) (tea.Model, tea.Cmd) {
	if err := m.orch.HandlePosition(msg.coords, msg.err); err != nil {
		m.setError(fmt.Errorf("could not get your position: %w", err))
		return m, nil
	}
	m.mapCursor = msg.coords
	m.setStatus("Map centered on your position.")
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.list.Form().Open {
		return m.handleFormKey(msg)
	}
	if m.mode == modeMap {
		return m.handleMapKey(key)
	}
	return m.handleListKey(key)
}

func (m Model) handleListKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < m.list.Len()-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "m":
		m.mode = modeMap
		m.setStatus("Map mode: move with h/j/k/l, enter logs a workout here, esc goes back.")
		return m, nil
	case "n":
		return m.dispatch(intent.MapClicked{Coords: m.mapCursor})
	case "enter":
		return m.clickItem(intent.TargetItem)
	case ".":
		return m.clickItem(intent.TargetMenuIcon)
	case "e":
		return m.clickItem(intent.TargetEdit)
	case "x":
		return m.clickItem(intent.TargetDelete)
	case "M":
		return m.dispatch(intent.MenuClicked{Item: intent.MenuToggle})
	case "D":
		return m.dispatch(intent.MenuClicked{Item: intent.MenuDeleteAll})
	case "1":
		return m.dispatch(intent.MenuClicked{Item: intent.MenuSortDistance})
	case "2":
		return m.dispatch(intent.MenuClicked{Item: intent.MenuSortDuration})
	case "0":
		return m.dispatch(intent.MenuClicked{Item: intent.MenuSortRecent})
	}
	return m.dispatch(intent.KeyPressed{Key: key})
}

func (m Model) clickItem(target intent.ListTarget) (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()
	if !ok {
		m.setStatus("No workout selected.")
		return m, nil
	}
	return m.dispatch(intent.ListClicked{WorkoutID: id, Target: target})
}

func (m Model) handleMapKey(key string) (tea.Model, tea.Cmd) {
	step := m.opts.PanStep
	switch key {
	case "q":
		return m, tea.Quit
	case "esc", "m":
		m.mode = modeList
		m.setStatus("")
		if key == "esc" {
			return m.dispatch(intent.KeyPressed{Key: intent.KeyEscape})
		}
		return m, nil
	case "h", "left":
		m.mapCursor[1] -= step
	case "l", "right":
		m.mapCursor[1] += step
	case "k", "up":
		m.mapCursor[0] += step
	case "j", "down":
		m.mapCursor[0] -= step
	case "enter":
		m.mode = modeList
		return m.dispatch(intent.MapClicked{Coords: m.mapCursor})
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.form
	switch key := msg.String(); key {
	case "esc":
		return m.dispatch(intent.KeyPressed{Key: intent.KeyEscape})
	case "enter":
		return m.dispatch(m.submission())
	case "tab", "down":
		f.focus = (f.focus + 1) % fieldCount
	case "shift+tab", "up":
		f.focus = (f.focus + fieldCount - 1) % fieldCount
	case "left", "right", " ", "space":
		if f.focus == fieldKind {
			f.kind = otherKind(f.kind)
		} else if key == " " || key == "space" {
			f.inputs[f.focus] += " "
		}
	case "backspace":
		if f.focus != fieldKind {
			r := []rune(f.inputs[f.focus])
			if len(r) > 0 {
				f.inputs[f.focus] = string(r[:len(r)-1])
			}
		}
	default:
		if msg.Type == tea.KeyRunes && f.focus != fieldKind {
			f.inputs[f.focus] += string(msg.Runes)
		}
	}
	return m, nil
}

// submission builds the raw form event. The metric buffer feeds cadence or
// elevation gain depending on the selected kind.
func (m Model) submission() intent.FormSubmitted {
	f := m.form
	ev := intent.FormSubmitted{
		Kind:     string(f.kind),
		Distance: f.inputs[fieldDistance],
		Duration: f.inputs[fieldDuration],
	}
	if f.kind == types.KindCycling {
		ev.ElevationGain = f.inputs[fieldMetric]
	} else {
		ev.Cadence = f.inputs[fieldMetric]
	}
	return ev
}

// dispatch sends ev to the orchestrator and reflects the outcome.
func (m Model) dispatch(ev intent.Event) (tea.Model, tea.Cmd) {
	wasOpen := m.list.Form().Open
	if err := m.orch.Dispatch(ev); err != nil {
		m.setError(err)
		return m, nil
	}
	m.clampCursor()

	switch {
	case !wasOpen && m.list.Form().Open:
		m.resetForm()
		if m.list.Form().Editing() {
			m.setStatus("Editing workout. Enter saves, esc cancels.")
		} else {
			m.setStatus(fmt.Sprintf("New workout at %s. Enter saves, esc cancels.", m.mapCursorFor(ev)))
		}
	case wasOpen && !m.list.Form().Open:
		if _, ok := ev.(intent.FormSubmitted); ok {
			if w, ok := m.orch.LastSubmitted(); ok {
				m.cursor = max(m.list.Index(w.ID), 0)
				m.setStatus("Saved " + w.Description + ".")
			}
		} else {
			m.setStatus("")
		}
	default:
		m.statusAfter(ev)
	}
	return m, nil
}

func (m Model) mapCursorFor(ev intent.Event) types.Coords {
	if c, ok := ev.(intent.MapClicked); ok {
		return c.Coords
	}
	return m.mapCursor
}

func (m *Model) statusAfter(ev intent.Event) {
	switch ev := ev.(type) {
	case intent.ListClicked:
		switch ev.Target {
		case intent.TargetDelete:
			m.setStatus("Workout deleted.")
		case intent.TargetItem:
			if c, _, ok := m.layer.Center(); ok {
				m.mapCursor = c
				m.setStatus("Map centered on " + c.String() + ".")
			}
		}
	case intent.MenuClicked:
		switch ev.Item {
		case intent.MenuDeleteAll:
			m.cursor = 0
			m.setStatus("All workouts deleted.")
		case intent.MenuSortDistance, intent.MenuSortDuration, intent.MenuSortRecent:
			m.cursor = 0
			m.setStatus("Sorted by " + string(ev.Item[len("sort-"):]) + ".")
		}
	}
}

func otherKind(k types.Kind) types.Kind {
	if k == types.KindCycling {
		return types.KindRunning
	}
	return types.KindCycling
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
