package storage

import (
	"database/sql"
	"fmt"
)

const alternateSchemaVersion = 1

// AlternateStore holds the independently produced transcriptions used for
// cross-source confirmation. It is a separate database file from the
// primary store; the two sources must stay independent for the
// verification to mean anything.
type AlternateStore struct {
	conn *sql.DB
}

// OpenAlternate creates or opens the alternate store at the given path.
func OpenAlternate(path string) (*AlternateStore, error) {
	conn, err := openDB(path, alternateSchemaVersion, applyAlternateSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to open alternate store: %w", err)
	}
	return &AlternateStore{conn: conn}, nil
}

func applyAlternateSchema(tx *sql.Tx, version int) error {
	switch version {
	case 1:
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS call_processing (
				call_id INTEGER PRIMARY KEY,
				final_transcript TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		return err
	default:
		return fmt.Errorf("unknown schema version: %d", version)
	}
}

// FetchAlternateTranscript returns the second-source transcript for a call.
// The bool reports whether one exists; absence is expected for calls the
// second pipeline never processed.
func (s *AlternateStore) FetchAlternateTranscript(callID int64) (string, bool, error) {
	var text string
	err := s.conn.QueryRow(
		"SELECT final_transcript FROM call_processing WHERE call_id = ?", callID,
	).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// TotalTranscripts returns the number of stored alternate transcripts.
func (s *AlternateStore) TotalTranscripts() (int, error) {
	var count int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM call_processing").Scan(&count)
	return count, err
}

// Ping verifies database connectivity.
func (s *AlternateStore) Ping() error {
	return s.conn.Ping()
}

// Close closes the database connection.
func (s *AlternateStore) Close() error {
	return s.conn.Close()
}
