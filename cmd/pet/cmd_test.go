package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desmondgtx/Effort-Task/results"
)

func TestWriteSummary(t *testing.T) {
	store, err := results.OpenStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	defer store.Close()

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec, err := store.BeginSession("P01", start, nil)
	require.NoError(t, err)
	require.NoError(t, rec.Record(results.Trial{Block: 1, Index: 1, EffortPercent: 50, Credits: 3, Beneficiary: "Self", Decision: "task", Success: true, Earned: 3}))
	require.NoError(t, rec.Record(results.Trial{Block: 1, Index: 2, EffortPercent: 80, Credits: 4, Beneficiary: "in-group", Decision: "resting", Success: true, Earned: 1}))
	require.NoError(t, rec.Finish(results.StatusCompleted, start.Add(time.Minute)))
	_, err = store.BeginSession("P02", start.Add(time.Hour), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, store, "P01"))
	out := buf.String()
	assert.Contains(t, out, "P01")
	assert.NotContains(t, out, "P02")
	assert.Contains(t, out, "status completed")
	assert.Contains(t, out, "Self")
	assert.Contains(t, out, "3 credits over 1 trials")
	assert.Contains(t, out, "1 credits over 1 trials")

	buf.Reset()
	require.NoError(t, writeSummary(&buf, store, "P99"))
	assert.Contains(t, buf.String(), "no sessions")
}

func TestParamsCommand(t *testing.T) {
	for _, k := range []string{"PET_EFFORT_MODE", "PET_BLOCKS", "PET_PARTNER_LOADING", "PET_MARKER_ADDR"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "pet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("task:\n  blocks: 7\n"), 0o644))

	cmd := newParamsCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--task", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "blocks: 7")
	assert.Contains(t, buf.String(), "effortMode: bar")
}

func TestRunCommandFlags(t *testing.T) {
	cmd := newRunCmd()
	for _, name := range []string{"subject", "data", "media", "task", "schedule", "archive", "dlp", "marker-addr", "effort-mode", "seed", "fullscreen", "no-vsync"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "s", cmd.Flags().Lookup("subject").Shorthand)
}
