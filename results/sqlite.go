package results

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Session statuses stored in the sessions table.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// Store keeps every session and trial of a lab machine in one SQLite
// database, next to the per-session CSV files.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// SessionInfo describes one row of the sessions table.
type SessionInfo struct {
	ID            string
	Subject       string
	StartedAt     time.Time
	EndedAt       sql.NullTime
	Status        string
	CalibratedMax int
	Trials        int
}

// Total is the sum of credits earned for one beneficiary.
type Total struct {
	Beneficiary string
	Credits     int
	Trials      int
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME,
		status TEXT NOT NULL,
		calibrated_max INTEGER DEFAULT 0,
		params_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_subject ON sessions(subject);

	CREATE TABLE IF NOT EXISTS trials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		block INTEGER NOT NULL,
		trial INTEGER NOT NULL,
		effort_percent INTEGER NOT NULL,
		credits INTEGER NOT NULL,
		beneficiary TEXT NOT NULL,
		decision TEXT NOT NULL,
		presses INTEGER NOT NULL,
		success INTEGER NOT NULL,
		earned INTEGER NOT NULL,
		decision_rt_ms INTEGER,
		first_press_ms INTEGER,
		last_press_ms INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_trials_session ON trials(session_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// BeginSession inserts a running session and returns a recorder bound to it.
func (s *Store) BeginSession(subject string, startedAt time.Time, params any) (*SessionRecorder, error) {
	var paramsJSON []byte
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		paramsJSON = b
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, subject, started_at, status, params_json) VALUES (?, ?, ?, ?, ?)`,
		id, subject, startedAt.UTC(), StatusRunning, string(paramsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &SessionRecorder{store: s, ID: id}, nil
}

// Sessions lists every session, newest first.
func (s *Store) Sessions() ([]SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT s.id, s.subject, s.started_at, s.ended_at, s.status, s.calibrated_max,
			(SELECT COUNT(*) FROM trials t WHERE t.session_id = s.id)
		FROM sessions s
		ORDER BY s.started_at DESC, s.rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var si SessionInfo
		if err := rows.Scan(&si.ID, &si.Subject, &si.StartedAt, &si.EndedAt, &si.Status, &si.CalibratedMax, &si.Trials); err != nil {
			return nil, err
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

// Totals sums earned credits per beneficiary for a session.
func (s *Store) Totals(sessionID string) ([]Total, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT beneficiary, COALESCE(SUM(earned), 0), COUNT(*)
		FROM trials WHERE session_id = ?
		GROUP BY beneficiary ORDER BY beneficiary`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Total
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.Beneficiary, &t.Credits, &t.Trials); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SessionRecorder writes trials of one session.
type SessionRecorder struct {
	store *Store
	ID    string
}

func (r *SessionRecorder) Record(t Trial) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.Exec(`
		INSERT INTO trials (session_id, block, trial, effort_percent, credits, beneficiary,
			decision, presses, success, earned, decision_rt_ms, first_press_ms, last_press_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, t.Block, t.Index, t.EffortPercent, t.Credits, t.Beneficiary,
		t.Decision, t.Presses, t.Success, t.Earned, t.DecisionRT, t.FirstPress, t.LastPress,
	)
	if err != nil {
		return fmt.Errorf("insert trial %d: %w", t.Index, err)
	}
	return nil
}

func (r *SessionRecorder) SetCalibratedMax(n int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, err := r.store.db.Exec(`UPDATE sessions SET calibrated_max = ? WHERE id = ?`, n, r.ID)
	return err
}

// Finish stamps the end time and final status.
func (r *SessionRecorder) Finish(status string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, err := r.store.db.Exec(`UPDATE sessions SET ended_at = ?, status = ? WHERE id = ?`, at.UTC(), status, r.ID)
	return err
}
