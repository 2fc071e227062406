package markers

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

type EventLogEntry struct {
	Code      Code
	Note      string
	ElapsedMS int64
}

// EventLog keeps every delivered marker with its time since Start, for
// offline alignment with the recording.
type EventLog struct {
	Start time.Time

	mu      sync.Mutex
	Entries []EventLogEntry
}

func NewEventLog(start time.Time) *EventLog {
	return &EventLog{Start: start}
}

func (l *EventLog) Send(m Marker) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, EventLogEntry{
		Code:      m.Code,
		Note:      m.Note,
		ElapsedMS: m.At.Sub(l.Start).Milliseconds(),
	})
	return nil
}

func (l *EventLog) Close() error { return nil }

func (l *EventLog) Save(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"timestamp_ms", "code", "event", "note"})
	for _, e := range l.Entries {
		w.Write([]string{
			strconv.FormatInt(e.ElapsedMS, 10),
			strconv.Itoa(int(e.Code)),
			e.Code.String(),
			e.Note,
		})
	}
	w.Flush()
	return w.Error()
}
