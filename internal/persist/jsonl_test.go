package persist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

func TestEncodeDecodeJSONL(t *testing.T) {
	ws := []types.Workout{
		running("r1", types.Coords{10, 20}, 5, 30, 60),
		cycling("c1", types.Coords{1, 2}, 20, 60, 35),
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeJSONL(&buf, ws))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"id":"r1"`)
	assert.Contains(t, lines[1], `"id":"c1"`)

	got, skipped, err := DecodeJSONL(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, types.KindCycling, got[1].Kind)
	assert.InDelta(t, 20.0, got[1].Cycling.Speed, 1e-9)
}

func TestDecodeJSONLSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"a","date":"2024-04-03T09:30:00Z","coords":[1,2],"distance":5,"duration":30,"kind":"running","cadence":60}`,
		``,
		`not json`,
		`{"id":"b","coords":[1,2],"distance":5,"duration":30,"kind":"rowing"}`,
		`{"kind":"running"}`,
		`{"id":"c","date":"2024-04-03T09:30:00Z","coords":[3,4],"distance":10,"duration":40,"kind":"cycling","elevationGain":5}`,
	}, "\n")

	got, skipped, err := DecodeJSONL(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestWriteJSONLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.jsonl")
	require.NoError(t, WriteJSONLFile(path, []types.Workout{running("r1", types.Coords{1, 2}, 5, 30, 60)}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, skipped, err := DecodeJSONL(f)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}
