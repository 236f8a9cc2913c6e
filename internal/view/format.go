package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Catppuccin Mocha colors.
const (
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorPeach    lipgloss.Color = "#fab387"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(colorText)
	unitStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	menuStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	selectedMark = lipgloss.NewStyle().Foreground(colorPink).Bold(true).Render("▌")

	itemStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			Padding(0, 1)

	// Left border color follows the workout kind.
	kindColors = map[types.Kind]lipgloss.Color{
		types.KindRunning: colorGreen,
		types.KindCycling: colorPeach,
	}

	// ErrorStyle renders validation and failure messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	// MutedStyle renders hints and empty states.
	MutedStyle = lipgloss.NewStyle().Foreground(colorSurface1)
)

// Stat is one labelled value of a workout.
type Stat struct {
	Icon  string
	Value string
	Unit  string
}

// Stats returns distance, duration, rate and metric in display order.
func Stats(w types.Workout) []Stat {
	stats := []Stat{
		{Icon: w.Kind.Icon(), Value: number(w.Distance), Unit: "km"},
		{Icon: "⏱", Value: number(w.Duration), Unit: "min"},
	}
	switch {
	case w.Running != nil:
		stats = append(stats,
			Stat{Icon: "⚡️", Value: strconv.FormatFloat(w.Running.Pace, 'f', 1, 64), Unit: "min/km"},
			Stat{Icon: "🦶🏼", Value: strconv.Itoa(w.Running.Cadence), Unit: "spm"},
		)
	case w.Cycling != nil:
		stats = append(stats,
			Stat{Icon: "⚡️", Value: strconv.FormatFloat(w.Cycling.Speed, 'f', 1, 64), Unit: "km/h"},
			Stat{Icon: "⛰", Value: number(w.Cycling.ElevationGain), Unit: "m"},
		)
	}
	return stats
}

// number prints v without trailing zeros.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PlainItem renders an item on one unstyled line, for logs and pipes.
func PlainItem(w types.Workout) string {
	parts := []string{w.Description}
	for _, s := range Stats(w) {
		parts = append(parts, fmt.Sprintf("%s %s %s", s.Icon, s.Value, s.Unit))
	}
	return strings.Join(parts, "  ")
}

// RenderItem renders an item as a styled block: title, menu and stats.
// selected marks the cursor row in the terminal UI.
func RenderItem(it Item, selected bool) string {
	w := it.Workout

	title := titleStyle.Render(w.Description) + " " + menuStyle.Render("⋮")
	if selected {
		title = selectedMark + " " + title
	}

	var stats []string
	for _, s := range Stats(w) {
		stats = append(stats, s.Icon+" "+valueStyle.Render(s.Value)+" "+unitStyle.Render(s.Unit))
	}

	lines := []string{title}
	if it.MenuOpen {
		lines = append(lines, menuStyle.Render("[e] Edit  [x] Delete"))
	}
	lines = append(lines, strings.Join(stats, "   "))

	return itemStyle.BorderForeground(kindColors[w.Kind]).Render(strings.Join(lines, "\n"))
}

// RenderItems renders every item of l, top first, with cursor on the item at
// index cursor (or none when cursor is negative).
func RenderItems(l *List, cursor int) string {
	if l.Len() == 0 {
		return MutedStyle.Render("No workouts yet. Pick a spot on the map to log one.")
	}
	var blocks []string
	for i, it := range l.Items() {
		blocks = append(blocks, RenderItem(it, i == cursor))
	}
	return strings.Join(blocks, "\n")
}
