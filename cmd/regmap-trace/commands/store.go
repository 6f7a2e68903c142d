package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/regmap-project/regmap-go/pkg/trace"
)

// Capture summarizes one archived capture session.
type Capture struct {
	ID         string
	Role       string
	Space      string
	SourceFile string
	StartedAt  *time.Time
	EndedAt    *time.Time
	EventCount int
	ErrorCount int
	Duration   string
}

// Store provides SQLite persistence for archived trace captures.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new store with the given database path.
// Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// foreign_keys for cascading deletes, WAL so readers stay unblocked
	// during imports
	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS captures (
		id TEXT PRIMARY KEY,
		role TEXT,
		space TEXT,
		source_file TEXT,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		started_at DATETIME,
		ended_at DATETIME,
		event_count INTEGER DEFAULT 0,
		error_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		capture_id TEXT NOT NULL REFERENCES captures(id) ON DELETE CASCADE,
		timestamp DATETIME NOT NULL,
		kind TEXT NOT NULL,
		register TEXT,
		event_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_capture_id ON events(capture_id);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	CREATE INDEX IF NOT EXISTS idx_captures_started_at ON captures(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCapture inserts a new capture row.
func (s *Store) SaveCapture(capture *Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO captures (id, role, space, source_file, started_at, ended_at, event_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, capture.ID, capture.Role, capture.Space, capture.SourceFile,
		capture.StartedAt, capture.EndedAt, capture.EventCount, capture.ErrorCount)

	return err
}

// GetCapture retrieves a capture by ID. Returns nil for an unknown ID.
func (s *Store) GetCapture(id string) (*Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var capture Capture
	var startedAt, endedAt sql.NullTime
	var role, space, sourceFile sql.NullString

	err := s.db.QueryRow(`
		SELECT id, role, space, source_file, started_at, ended_at,
		       event_count, error_count
		FROM captures WHERE id = ?
	`, id).Scan(
		&capture.ID, &role, &space, &sourceFile,
		&startedAt, &endedAt,
		&capture.EventCount, &capture.ErrorCount,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if role.Valid {
		capture.Role = role.String
	}
	if space.Valid {
		capture.Space = space.String
	}
	if sourceFile.Valid {
		capture.SourceFile = sourceFile.String
	}
	if startedAt.Valid {
		capture.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		capture.EndedAt = &endedAt.Time
	}

	if capture.StartedAt != nil && capture.EndedAt != nil {
		capture.Duration = capture.EndedAt.Sub(*capture.StartedAt).Round(time.Millisecond).String()
	}

	return &capture, nil
}

// ListCaptures retrieves all captures, ordered by most recent first.
func (s *Store) ListCaptures() ([]Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, role, space, source_file, started_at, ended_at,
		       event_count, error_count
		FROM captures
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var capture Capture
		var startedAt, endedAt sql.NullTime
		var role, space, sourceFile sql.NullString

		if err := rows.Scan(
			&capture.ID, &role, &space, &sourceFile,
			&startedAt, &endedAt,
			&capture.EventCount, &capture.ErrorCount,
		); err != nil {
			return nil, err
		}

		if role.Valid {
			capture.Role = role.String
		}
		if space.Valid {
			capture.Space = space.String
		}
		if sourceFile.Valid {
			capture.SourceFile = sourceFile.String
		}
		if startedAt.Valid {
			capture.StartedAt = &startedAt.Time
		}
		if endedAt.Valid {
			capture.EndedAt = &endedAt.Time
		}

		if capture.StartedAt != nil && capture.EndedAt != nil {
			capture.Duration = capture.EndedAt.Sub(*capture.StartedAt).Round(time.Millisecond).String()
		}

		captures = append(captures, capture)
	}

	return captures, rows.Err()
}

// CountCaptures returns the total number of archived captures.
func (s *Store) CountCaptures() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM captures").Scan(&count)
	return count, err
}

// AddEvent adds a trace event to a capture.
func (s *Store) AddEvent(captureID string, event trace.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Serialize the full event as JSON for detailed retrieval
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO events (capture_id, timestamp, kind, register, event_json)
		VALUES (?, ?, ?, ?, ?)
	`, captureID, event.Timestamp, event.Kind.String(), event.Register, string(eventJSON))

	return err
}

// GetEvents retrieves all events of a capture in insertion order.
func (s *Store) GetEvents(captureID string) ([]trace.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT event_json FROM events WHERE capture_id = ? ORDER BY id
	`, captureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []trace.Event
	for rows.Next() {
		var eventJSON string
		if err := rows.Scan(&eventJSON); err != nil {
			return nil, err
		}

		var event trace.Event
		if err := json.Unmarshal([]byte(eventJSON), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}

		events = append(events, event)
	}

	return events, rows.Err()
}

// DeleteCapture deletes a capture and its events.
func (s *Store) DeleteCapture(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM captures WHERE id = ?", id)
	return err
}
