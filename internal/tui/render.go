package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/mapty/internal/view"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorSurface0 lipgloss.Color = "#313244"
	colorSurface1 lipgloss.Color = "#45475a"
	colorMantle   lipgloss.Color = "#181825"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Background(colorMantle).
			Bold(true).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Padding(0, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPink).
			Padding(0, 1)

	labelStyle   = lipgloss.NewStyle().Foreground(colorSubtext0).Width(14)
	focusedStyle = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	inputStyle   = lipgloss.NewStyle().Foreground(colorText)
)

// View draws the screen.
func (m Model) View() string {
	sections := []string{headerStyle.Render("mapty")}

	if m.list.MenuOpen() {
		sections = append(sections, boxStyle.Render(menuView()))
	}
	if m.list.Form().Open {
		sections = append(sections, formStyle.Render(m.formView()))
	}
	sections = append(sections,
		boxStyle.Render(view.RenderItems(m.list, m.cursor)),
		boxStyle.Render(m.mapView()),
		m.statusView(),
		footerStyle.Render(m.footer()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func menuView() string {
	return strings.Join([]string{
		"[1] Sort by distance",
		"[2] Sort by duration",
		"[0] Most recent first",
		"[D] Delete all workouts",
	}, "\n")
}

func (m Model) formView() string {
	f := m.form
	title := "New workout"
	if m.list.Form().Editing() {
		title = "Edit workout"
	}

	metricLabel := "Cadence"
	metricUnit := "step/min"
	if f.kind == types.KindCycling {
		metricLabel = "Elev Gain"
		metricUnit = "meters"
	}

	row := func(i int, label, value, unit string) string {
		l := labelStyle.Render(label)
		v := inputStyle.Render(value)
		if f.focus == i {
			l = focusedStyle.Width(14).Render(label)
			v = focusedStyle.Render(value + "▏")
		}
		return fmt.Sprintf("%s %s %s", l, v, view.MutedStyle.Render(unit))
	}

	lines := []string{
		focusedStyle.Render(title),
		row(fieldKind, "Type", f.kind.Icon()+" "+string(f.kind), "←/→"),
		row(fieldDistance, "Distance", f.inputs[fieldDistance], "km"),
		row(fieldDuration, "Duration", f.inputs[fieldDuration], "min"),
		row(fieldMetric, metricLabel, f.inputs[fieldMetric], metricUnit),
	}
	return strings.Join(lines, "\n")
}

func (m Model) mapView() string {
	lines := []string{fmt.Sprintf("Markers: %d", len(m.layer.Markers()))}
	if c, zoom, ok := m.layer.Center(); ok {
		lines = append(lines, fmt.Sprintf("Center:  %s (zoom %d)", c, zoom))
	} else {
		lines = append(lines, "Center:  unknown")
	}
	cursor := fmt.Sprintf("Cursor:  %s", m.mapCursor)
	if m.mode == modeMap {
		cursor = focusedStyle.Render(cursor)
	}
	lines = append(lines, cursor)
	return strings.Join(lines, "\n")
}

func (m Model) statusView() string {
	if m.status == "" {
		return statusBarStyle.Render(" ")
	}
	if m.statusErr {
		return statusBarStyle.Render(view.ErrorStyle.Render(m.status))
	}
	return statusBarStyle.Render(m.status)
}

func (m Model) footer() string {
	switch {
	case m.list.Form().Open:
		return "tab next field · ←/→ type · enter save · esc cancel"
	case m.mode == modeMap:
		return "h/j/k/l move · enter log here · esc back · q quit"
	default:
		return "j/k move · enter recenter · . menu · e edit · x delete · n new · m map · M menu · q quit"
	}
}
