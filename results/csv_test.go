package results

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("CLT", -3*3600))
	got := FileName("data", "P01", ".csv", at)
	assert.Equal(t, filepath.Join("data", "2024-03-09_17-05-07_P01.csv"), got)
}

func TestTrialRow(t *testing.T) {
	work := Trial{
		Block: 2, Index: 17, EffortPercent: 80, Credits: 4, Beneficiary: "Self",
		Decision: "task", Presses: 40, Success: true, Earned: 4,
		DecisionRT: sql.NullInt64{Int64: 812, Valid: true},
		FirstPress: sql.NullInt64{Int64: 150, Valid: true},
		LastPress:  sql.NullInt64{Int64: 4020, Valid: true},
	}
	assert.Equal(t, []string{"80", "4", "Self", "task", "40", "True", "4", "812", "150", "4020", "2", "17"}, work.Row())

	omitted := Trial{Block: 1, Index: 3, EffortPercent: 50, Credits: 2, Beneficiary: "in-group", Decision: "no decision"}
	assert.Equal(t, []string{"50", "2", "in-group", "no decision", "0", "False", "0", "None", "None", "None", "1", "3"}, omitted.Row())
	assert.Len(t, omitted.Row(), len(Header))
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	w, err := CreateCSV(path)
	require.NoError(t, err)

	require.NoError(t, w.Record(Trial{Block: 1, Index: 1, EffortPercent: 65, Credits: 3, Beneficiary: "out-group", Decision: "resting", Success: true, Earned: 1,
		DecisionRT: sql.NullInt64{Int64: 900, Valid: true}}))

	// Rows are on disk before Close.
	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "resting", records[1][3])
	assert.Equal(t, "None", records[1][8])

	require.NoError(t, w.Close())
	assert.Len(t, readCSV(t, path), 2)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) Record(Trial) error {
	r.calls++
	return errors.New("disk full")
}

type countingRecorder struct{ calls int }

func (r *countingRecorder) Record(Trial) error {
	r.calls++
	return nil
}

func TestTee(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	require.NoError(t, Tee{a, b}.Record(Trial{}))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)

	f, c := &failingRecorder{}, &countingRecorder{}
	assert.Error(t, Tee{f, c}.Record(Trial{}))
	assert.Zero(t, c.calls, "stops at the first error")
}
