// Tests for the SQLite key-value backend.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mapty/internal/persist"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

func attach(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, DBFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("mapty.db not created")
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	// Clean up
	b.Detach()
}

func TestBackend_AttachValidatesConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestBackend_Detach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}))

	err := b.Detach()
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	err = b.Detach()
	if err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	_, _, err = b.Get("workouts")
	assert.ErrorIs(t, err, ErrDetached)
	assert.ErrorIs(t, b.Set("workouts", "[]"), ErrDetached)
	assert.ErrorIs(t, b.Remove("workouts"), ErrDetached)
}

func TestBackend_GetSetRemove(t *testing.T) {
	b := attach(t, t.TempDir())

	_, ok, err := b.Get("workouts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set("workouts", `[{"id":"a"}]`))
	v, ok, err := b.Get("workouts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	require.NoError(t, b.Set("workouts", `[]`))
	v, _, _ = b.Get("workouts")
	assert.Equal(t, `[]`, v, "Set overwrites")

	require.NoError(t, b.Remove("workouts"))
	_, ok, err = b.Get("workouts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Remove("workouts"), "removing a missing key succeeds")
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.Set("workouts", `["kept"]`))
	require.NoError(t, b.Detach())

	b2 := attach(t, tmpDir)
	v, ok, err := b2.Get("workouts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["kept"]`, v)
}

func TestBackend_AsGatewaySink(t *testing.T) {
	b := attach(t, t.TempDir())
	g := persist.NewGateway(b, "")

	w := types.Workout{
		ID:        "run-1",
		CreatedAt: time.Date(2024, time.April, 3, 9, 30, 0, 0, time.UTC),
		Coords:    types.Coords{10, 20},
		Distance:  5,
		Duration:  30,
		Kind:      types.KindRunning,
		Running:   &types.RunningStats{Cadence: 60},
	}
	w.Refresh()

	require.NoError(t, g.Save([]types.Workout{w}))

	loaded, ok := g.Load()
	require.True(t, ok)
	require.Len(t, loaded, 1)
	assert.Equal(t, "run-1", loaded[0].ID)
	assert.InDelta(t, 6.0, loaded[0].Running.Pace, 1e-9)

	require.NoError(t, g.Clear())
	_, ok = g.Load()
	assert.False(t, ok)
}
