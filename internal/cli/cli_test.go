package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mapty/internal/geo"
	"github.com/mesh-intelligence/mapty/internal/persist"
	"github.com/mesh-intelligence/mapty/internal/sqlite"
	"github.com/mesh-intelligence/mapty/pkg/mapty"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// testEnv isolates one test's config and data directories.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, env := range []string{"MAPTY_BACKEND", "MAPTY_LOCATION_PROVIDER", "MAPTY_LOG_LEVEL", "MAPTY_LOG_FORMAT"} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	root := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{
		"--config-dir", e.configDir,
		"--data-dir", e.dataDir,
		"--env-file", "",
	}, args...))
	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	r := e.run(args...)
	require.NoError(e.t, r.err, "mapty %s\nstderr: %s", strings.Join(args, " "), r.stderr)
	return r.stdout
}

// addJSON adds a workout and returns its record.
func (e *testEnv) addJSON(args ...string) persist.Record {
	e.t.Helper()
	out := e.mustRun(append([]string{"--json", "add"}, args...)...)
	var rec persist.Record
	require.NoError(e.t, json.Unmarshal([]byte(out), &rec), out)
	return rec
}

func (e *testEnv) listJSON(args ...string) []persist.Record {
	e.t.Helper()
	out := e.mustRun(append([]string{"--json", "list"}, args...)...)
	var recs []persist.Record
	require.NoError(e.t, json.Unmarshal([]byte(out), &recs), out)
	return recs
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("version")
	assert.Contains(t, out, "mapty v"+mapty.Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun("init")
		assert.Contains(t, out, "mapty initialized")
		assert.FileExists(t, filepath.Join(env.configDir, configFileExt))
		assert.FileExists(t, filepath.Join(env.dataDir, sqlite.DBFileName))

		// Idempotent.
		env.mustRun("init")
	})

	t.Run("writes the chosen backend", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustRun("init", "--backend", types.BackendFile)
		cfg := loadConfigFile(env.configDir)
		assert.Equal(t, types.BackendFile, cfg.Backend)
		assert.Equal(t, types.DefaultStorageKey, cfg.StorageKey)
	})

	t.Run("unknown backend is a user error", func(t *testing.T) {
		env := newTestEnv(t)
		r := env.run("init", "--backend", "postgres")
		require.Error(t, r.err)
		assert.ErrorIs(t, r.err, types.ErrBackendUnknown)
		assert.Equal(t, exitUserError, exitCode(r.err))
	})
}

func TestAddAndList(t *testing.T) {
	env := newTestEnv(t)

	run := env.addJSON("running", "--lat", "51.5", "--lng", "-0.12",
		"--distance", "5", "--duration", "25", "--cadence", "80")
	assert.Equal(t, "running", run.Kind)
	assert.Equal(t, [2]float64{51.5, -0.12}, run.Coords)
	require.NotNil(t, run.Pace)
	assert.InDelta(t, 5.0, *run.Pace, 1e-9)
	assert.True(t, strings.HasPrefix(run.Description, "Running on "))

	ride := env.addJSON("cycling", "--lat", "51.6", "--lng", "-0.1",
		"--distance", "27", "--duration", "95", "--elevation-gain", "52")
	require.NotNil(t, ride.Speed)
	assert.InDelta(t, 27/(95.0/60), *ride.Speed, 1e-9)

	recent := env.listJSON()
	require.Len(t, recent, 2)
	assert.Equal(t, ride.ID, recent[0].ID, "newest first")
	assert.Equal(t, run.ID, recent[1].ID)

	byDistance := env.listJSON("--sort", "distance")
	assert.Equal(t, ride.ID, byDistance[0].ID)

	byDuration := env.listJSON("--sort", "duration")
	assert.Equal(t, ride.ID, byDuration[0].ID)

	text := env.mustRun("list")
	assert.Contains(t, text, run.ID)
	assert.Contains(t, text, "min/km")
	assert.Contains(t, text, "km/h")

	r := env.run("list", "--sort", "name")
	assert.ErrorIs(t, r.err, types.ErrInvalidSortKey)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"negative distance", []string{"running", "--lat", "1", "--lng", "2", "--distance", "-5", "--duration", "25", "--cadence", "80"}, types.ErrValidation},
		{"text duration", []string{"running", "--lat", "1", "--lng", "2", "--distance", "5", "--duration", "abc", "--cadence", "80"}, types.ErrValidation},
		{"missing elevation", []string{"cycling", "--lat", "1", "--lng", "2", "--distance", "5", "--duration", "25"}, types.ErrValidation},
		{"unknown kind", []string{"swimming", "--lat", "1", "--lng", "2", "--distance", "5", "--duration", "25"}, types.ErrInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			r := env.run(append([]string{"add"}, tt.args...)...)
			require.Error(t, r.err)
			assert.ErrorIs(t, r.err, tt.want)
			assert.Equal(t, exitUserError, exitCode(r.err))
			assert.Empty(t, env.listJSON())
		})
	}

	t.Run("missing coordinates", func(t *testing.T) {
		env := newTestEnv(t)
		r := env.run("add", "running", "--distance", "5", "--duration", "25", "--cadence", "80")
		require.Error(t, r.err)
		assert.Contains(t, r.err.Error(), "--lat and --lng")
	})
}

func TestEdit(t *testing.T) {
	env := newTestEnv(t)
	orig := env.addJSON("running", "--lat", "10", "--lng", "20",
		"--distance", "5", "--duration", "25", "--cadence", "80")

	t.Run("unset fields keep their values", func(t *testing.T) {
		out := env.mustRun("--json", "edit", orig.ID, "--duration", "30")
		var rec persist.Record
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		assert.Equal(t, orig.ID, rec.ID)
		assert.Equal(t, orig.Coords, rec.Coords)
		assert.True(t, orig.Date.Equal(rec.Date))
		assert.Equal(t, 5.0, rec.Distance)
		assert.Equal(t, 30.0, rec.Duration)
		require.NotNil(t, rec.Cadence)
		assert.Equal(t, 80, *rec.Cadence)
		require.NotNil(t, rec.Pace)
		assert.InDelta(t, 6.0, *rec.Pace, 1e-9)
	})

	t.Run("kind change needs the new metric", func(t *testing.T) {
		r := env.run("edit", orig.ID, "--kind", "cycling")
		assert.ErrorIs(t, r.err, types.ErrValidation)

		out := env.mustRun("--json", "edit", orig.ID, "--kind", "cycling", "--elevation-gain", "12")
		var rec persist.Record
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		assert.Equal(t, "cycling", rec.Kind)
		assert.Nil(t, rec.Cadence)
		assert.Nil(t, rec.Pace)
		require.NotNil(t, rec.ElevationGain)
		assert.Equal(t, 12.0, *rec.ElevationGain)
		assert.True(t, strings.HasPrefix(rec.Description, "Cycling on "))
	})

	t.Run("unknown id", func(t *testing.T) {
		r := env.run("edit", "no-such-id", "--duration", "30")
		assert.ErrorIs(t, r.err, types.ErrNotFound)
		assert.Equal(t, exitUserError, exitCode(r.err))
	})

	recs := env.listJSON()
	require.Len(t, recs, 1)
}

func TestShow(t *testing.T) {
	env := newTestEnv(t)
	rec := env.addJSON("cycling", "--lat", "1", "--lng", "2",
		"--distance", "20", "--duration", "60", "--elevation-gain", "35")

	out := env.mustRun("show", rec.ID)
	assert.Contains(t, out, rec.ID)
	assert.Contains(t, out, rec.Description)
	assert.Contains(t, out, "km/h")

	r := env.run("show", "missing")
	assert.ErrorIs(t, r.err, types.ErrNotFound)
}

func TestDeleteAndClear(t *testing.T) {
	env := newTestEnv(t)
	a := env.addJSON("running", "--lat", "1", "--lng", "1", "--distance", "1", "--duration", "10", "--cadence", "60")
	b := env.addJSON("running", "--lat", "2", "--lng", "2", "--distance", "2", "--duration", "20", "--cadence", "60")
	env.addJSON("running", "--lat", "3", "--lng", "3", "--distance", "3", "--duration", "30", "--cadence", "60")

	out := env.mustRun("delete", a.ID)
	assert.Contains(t, out, a.ID)

	recs := env.listJSON()
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.NotEqual(t, a.ID, r.ID)
	}

	r := env.run("delete", a.ID)
	assert.ErrorIs(t, r.err, types.ErrNotFound)

	out = env.mustRun("clear")
	assert.Contains(t, out, "Deleted 2 workouts")
	assert.Empty(t, env.listJSON())

	r = env.run("show", b.ID)
	assert.ErrorIs(t, r.err, types.ErrNotFound)
}

func TestRecenterAndMap(t *testing.T) {
	env := newTestEnv(t)
	rec := env.addJSON("running", "--lat", "45.5", "--lng", "9.2",
		"--distance", "5", "--duration", "25", "--cadence", "80")

	out := env.mustRun("--json", "recenter", rec.ID)
	var center map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &center))
	assert.Equal(t, 45.5, center["lat"])
	assert.Equal(t, 9.2, center["lng"])
	assert.Equal(t, float64(13), center["zoom"])

	path := filepath.Join(t.TempDir(), "map.geojson")
	out = env.mustRun("map", "--out", path)
	assert.Contains(t, out, "Wrote 1 markers")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fc geo.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 1)
	assert.Equal(t, [2]float64{9.2, 45.5}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, rec.ID, fc.Features[0].Properties["id"])

	stdout := env.mustRun("map")
	assert.Contains(t, stdout, `"FeatureCollection"`)

	r := env.run("recenter", "missing")
	assert.ErrorIs(t, r.err, types.ErrNotFound)
}

func TestMapLocateStatic(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("MAPTY_LOCATION_PROVIDER", "static")

	out := env.mustRun("map", "--locate")
	var fc geo.FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(out), &fc))
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "center", fc.Features[0].Properties["role"])
}

func TestBackends(t *testing.T) {
	t.Run("file backend persists as JSON", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("MAPTY_BACKEND", types.BackendFile)
		rec := env.addJSON("running", "--lat", "1", "--lng", "2", "--distance", "5", "--duration", "25", "--cadence", "80")

		data, err := os.ReadFile(filepath.Join(env.dataDir, types.DefaultStorageKey+".json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), rec.ID)
		require.Len(t, env.listJSON(), 1)
	})

	t.Run("memory backend forgets between runs", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("MAPTY_BACKEND", types.BackendMemory)
		env.addJSON("running", "--lat", "1", "--lng", "2", "--distance", "5", "--duration", "25", "--cadence", "80")
		assert.Empty(t, env.listJSON())
	})

	t.Run("env file selects the backend", func(t *testing.T) {
		env := newTestEnv(t)
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("MAPTY_BACKEND=file\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("MAPTY_BACKEND") })

		r := env.run("--env-file", envFile, "add", "running", "--lat", "1", "--lng", "2",
			"--distance", "5", "--duration", "25", "--cadence", "80")
		require.NoError(t, r.err, r.stderr)
		assert.FileExists(t, filepath.Join(env.dataDir, types.DefaultStorageKey+".json"))
	})
}

func TestPersistenceFailureIsSystemError(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("MAPTY_BACKEND", types.BackendFile)
	// A directory where the JSON file should be makes every write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(env.dataDir, types.DefaultStorageKey+".json"), 0o755))

	r := env.run("add", "running", "--lat", "1", "--lng", "2",
		"--distance", "5", "--duration", "25", "--cadence", "80")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, types.ErrPersistence)
	assert.Equal(t, exitSysError, exitCode(r.err))
	assert.Contains(t, r.stdout, "Running on", "the workout is still reported")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"validation", types.ErrValidation, exitUserError},
		{"not found", types.ErrNotFound, exitUserError},
		{"persistence", types.ErrPersistence, exitSysError},
		{"system", sysError(errors.New("disk")), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t)
	a := src.addJSON("running", "--lat", "1", "--lng", "2", "--distance", "5", "--duration", "25", "--cadence", "80")
	b := src.addJSON("cycling", "--lat", "3", "--lng", "4", "--distance", "20", "--duration", "60", "--elevation-gain", "10")

	path := filepath.Join(t.TempDir(), "workouts.jsonl")
	out := src.mustRun("export", "--out", path)
	assert.Contains(t, out, "Exported 2 workouts")

	stdout := src.mustRun("export")
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 2)

	dst := newTestEnv(t)
	dst.addJSON("running", "--lat", "9", "--lng", "9", "--distance", "1", "--duration", "5", "--cadence", "50")

	out = dst.mustRun("--json", "import", path)
	var summary map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2.0, summary["added"])
	assert.Zero(t, summary["skipped"])

	recs := dst.listJSON()
	require.Len(t, recs, 3)
	ids := []string{recs[0].ID, recs[1].ID, recs[2].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)

	out = dst.mustRun("import", path)
	assert.Contains(t, out, "Imported 0 workouts (2 skipped")

	r := dst.run("import", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, r.err)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestImportSkipsOutOfRangeLines(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "import.jsonl")
	lines := strings.Join([]string{
		`{"id":"zero","date":"2024-04-03T09:30:00Z","coords":[1,2],"distance":0,"duration":30,"kind":"running","cadence":60}`,
		`{"id":"huge","date":"2024-04-03T09:30:00Z","coords":[1,2],"distance":500,"duration":30,"kind":"running","cadence":60}`,
		`{"id":"ok","date":"2024-04-03T09:30:00Z","coords":[1,2],"distance":5,"duration":30,"kind":"running","cadence":60}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	out := env.mustRun("--json", "import", path)
	var summary map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1.0, summary["added"])
	assert.Equal(t, 2.0, summary["skipped"])

	recs := env.listJSON()
	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].ID)

	// The session stayed persistent, so later adds are saved.
	env.addJSON("running", "--lat", "1", "--lng", "2", "--distance", "5", "--duration", "25", "--cadence", "80")
	assert.Len(t, env.listJSON(), 2)
}
