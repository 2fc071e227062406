package markers

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogSave(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l := NewEventLog(start)
	require.NoError(t, l.Send(Marker{Code: ExperimentStart, Note: "Experiment started", At: start}))
	require.NoError(t, l.Send(Marker{Code: FeedbackCredits + 3, Note: "Credits earned: 3", At: start.Add(1500 * time.Millisecond)}))
	require.NoError(t, l.Close())

	path := filepath.Join(t.TempDir(), "markers.csv")
	require.NoError(t, l.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"timestamp_ms", "code", "event", "note"},
		{"0", "250", "EXPERIMENT_START", "Experiment started"},
		{"1500", "143", "FEEDBACK_CREDITS+3", "Credits earned: 3"},
	}, records)
}

func TestEventLogSaveBadPath(t *testing.T) {
	l := NewEventLog(time.Now())
	assert.Error(t, l.Save(filepath.Join(t.TempDir(), "missing", "markers.csv")))
}
