package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

var created = time.Date(2024, time.April, 3, 9, 30, 0, 0, time.UTC)

func run(id string, distance float64) types.Workout {
	w := types.Workout{ID: id, CreatedAt: created, Distance: distance, Duration: 30,
		Kind: types.KindRunning, Running: &types.RunningStats{Cadence: 60}}
	w.Refresh()
	return w
}

func ride(id string) types.Workout {
	w := types.Workout{ID: id, CreatedAt: created, Distance: 20, Duration: 60,
		Kind: types.KindCycling, Cycling: &types.CyclingStats{ElevationGain: 35}}
	w.Refresh()
	return w
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Workout.ID
	}
	return out
}

func TestListRenderItemNewestOnTop(t *testing.T) {
	l := NewList()
	require.NoError(t, l.RenderItem(run("a", 5)))
	require.NoError(t, l.RenderItem(run("b", 6)))
	require.NoError(t, l.RenderItem(run("c", 7)))

	assert.Equal(t, []string{"c", "b", "a"}, ids(l.Items()))
}

func TestListRenderItemReplacesInPlace(t *testing.T) {
	l := NewList()
	require.NoError(t, l.RenderItem(run("a", 5)))
	require.NoError(t, l.RenderItem(run("b", 6)))
	require.NoError(t, l.ToggleItemMenu("a"))

	require.NoError(t, l.RenderItem(run("a", 9)))

	items := l.Items()
	assert.Equal(t, []string{"b", "a"}, ids(items))
	assert.Equal(t, 9.0, items[1].Workout.Distance)
	assert.False(t, items[1].MenuOpen, "re-render closes the item menu")
}

func TestListRemoveAndRenderList(t *testing.T) {
	l := NewList()
	require.NoError(t, l.RenderItem(run("a", 5)))
	require.NoError(t, l.RenderItem(run("b", 6)))

	require.NoError(t, l.RemoveItem("a"))
	require.NoError(t, l.RemoveItem("missing"))
	assert.Equal(t, []string{"b"}, ids(l.Items()))

	require.NoError(t, l.RenderList([]types.Workout{run("x", 1), run("y", 2), run("z", 3)}))
	assert.Equal(t, []string{"x", "y", "z"}, ids(l.Items()))
	assert.Equal(t, 1, l.Index("y"))
	assert.Equal(t, -1, l.Index("b"))
}

func TestListForm(t *testing.T) {
	l := NewList()
	assert.False(t, l.Form().Open)

	require.NoError(t, l.ShowForm(nil))
	assert.True(t, l.Form().Open)
	assert.False(t, l.Form().Editing())

	w := run("a", 5)
	require.NoError(t, l.ShowForm(&w))
	w.Distance = 99
	require.True(t, l.Form().Editing())
	assert.Equal(t, 5.0, l.Form().Prefill.Distance, "prefill is a copy")

	require.NoError(t, l.HideForm())
	assert.False(t, l.Form().Open)
	assert.Nil(t, l.Form().Prefill)
}

func TestListMenus(t *testing.T) {
	l := NewList()
	require.NoError(t, l.RenderItem(run("a", 5)))

	require.NoError(t, l.ToggleItemMenu("a"))
	assert.True(t, l.Items()[0].MenuOpen)
	require.NoError(t, l.ToggleItemMenu("a"))
	assert.False(t, l.Items()[0].MenuOpen)

	assert.False(t, l.MenuOpen())
	require.NoError(t, l.ToggleMenu())
	assert.True(t, l.MenuOpen())
}

func TestListItemsAreCopies(t *testing.T) {
	l := NewList()
	require.NoError(t, l.RenderItem(run("a", 5)))

	items := l.Items()
	items[0].Workout.Running.Cadence = 1

	assert.Equal(t, 60, l.Items()[0].Workout.Running.Cadence)
}
