package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/evaluate"
)

const primarySchemaVersion = 1

// TranscriptRecord is one stored call transcript.
type TranscriptRecord struct {
	CallID        int64
	Transcription string
}

// Store is the primary transcription database: the transcripts under
// evaluation and the evaluations produced for them.
type Store struct {
	conn *sql.DB
}

// Open creates or opens the primary store at the given path.
func Open(path string) (*Store, error) {
	conn, err := openDB(path, primarySchemaVersion, applyPrimarySchema)
	if err != nil {
		return nil, fmt.Errorf("failed to open primary store: %w", err)
	}
	return &Store{conn: conn}, nil
}

func applyPrimarySchema(tx *sql.Tx, version int) error {
	switch version {
	case 1:
		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS transcriptions (
				call_id INTEGER PRIMARY KEY,
				transcription TEXT NOT NULL,
				human_grade TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return err
		}
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS evaluations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				transcription_id INTEGER NOT NULL,
				call_id INTEGER NOT NULL UNIQUE,
				grade TEXT NOT NULL,
				score INTEGER NOT NULL,
				max_score INTEGER NOT NULL,
				criteria TEXT NOT NULL,
				passed BOOLEAN NOT NULL,
				explanation TEXT NOT NULL,
				improvement_suggestion TEXT,
				found_references TEXT NOT NULL,
				context TEXT,
				original_transcription TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		return err
	default:
		return fmt.Errorf("unknown schema version: %d", version)
	}
}

// FetchTranscript returns the transcript for a call. The bool reports
// whether the call exists; absence is not an error.
func (s *Store) FetchTranscript(callID int64) (string, bool, error) {
	var text string
	err := s.conn.QueryRow(
		"SELECT transcription FROM transcriptions WHERE call_id = ?", callID,
	).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// InsertEvaluation persists one evaluation result. Found references are
// stored as a JSON array, matching the seed data convention. Re-evaluating
// a call replaces its previous row.
func (s *Store) InsertEvaluation(r *evaluate.Result) error {
	refs, err := json.Marshal(r.FoundReferences)
	if err != nil {
		return fmt.Errorf("failed to encode found references: %w", err)
	}

	_, err = s.conn.Exec(`
		INSERT INTO evaluations (
			transcription_id, call_id, grade, score, max_score,
			criteria, passed, explanation, improvement_suggestion,
			found_references, context, original_transcription
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (call_id) DO UPDATE SET
			transcription_id = excluded.transcription_id,
			grade = excluded.grade,
			score = excluded.score,
			max_score = excluded.max_score,
			criteria = excluded.criteria,
			passed = excluded.passed,
			explanation = excluded.explanation,
			improvement_suggestion = excluded.improvement_suggestion,
			found_references = excluded.found_references,
			context = excluded.context,
			original_transcription = excluded.original_transcription
	`,
		r.TranscriptionID,
		r.CallID,
		r.Grade,
		r.Score,
		r.MaxScore,
		r.Criteria,
		r.Passed,
		r.Explanation,
		r.ImprovementSuggestion,
		string(refs),
		r.Context,
		r.OriginalTranscription,
	)
	return err
}

// NextUnevaluated returns up to limit transcripts with call IDs greater
// than afterCallID that have no persisted evaluation yet, ordered by
// call ID. The join keeps already-processed calls out of the batch without
// loading their IDs into memory.
func (s *Store) NextUnevaluated(afterCallID int64, limit int) ([]TranscriptRecord, error) {
	rows, err := s.conn.Query(`
		SELECT t.call_id, t.transcription
		FROM transcriptions t
		LEFT JOIN evaluations e ON t.call_id = e.call_id
		WHERE e.call_id IS NULL AND t.call_id > ?
		ORDER BY t.call_id
		LIMIT ?
	`, afterCallID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTranscripts(rows)
}

// AllTranscripts returns up to limit transcripts with call IDs greater
// than afterCallID, evaluated or not, ordered by call ID.
func (s *Store) AllTranscripts(afterCallID int64, limit int) ([]TranscriptRecord, error) {
	rows, err := s.conn.Query(`
		SELECT call_id, transcription
		FROM transcriptions
		WHERE call_id > ?
		ORDER BY call_id
		LIMIT ?
	`, afterCallID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTranscripts(rows)
}

func scanTranscripts(rows *sql.Rows) ([]TranscriptRecord, error) {
	var records []TranscriptRecord
	for rows.Next() {
		var rec TranscriptRecord
		if err := rows.Scan(&rec.CallID, &rec.Transcription); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// MaxTranscriptionID returns the highest transcription ID assigned so far,
// or zero when no evaluations exist. The batch runner reads this once and
// increments locally.
func (s *Store) MaxTranscriptionID() (int64, error) {
	var max int64
	err := s.conn.QueryRow(
		"SELECT COALESCE(MAX(transcription_id), 0) FROM evaluations",
	).Scan(&max)
	return max, err
}

// TotalTranscriptions returns the number of stored transcripts.
func (s *Store) TotalTranscriptions() (int, error) {
	var count int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM transcriptions").Scan(&count)
	return count, err
}

// UnevaluatedCount returns how many transcripts still lack an evaluation.
func (s *Store) UnevaluatedCount() (int, error) {
	var count int
	err := s.conn.QueryRow(`
		SELECT COUNT(*)
		FROM transcriptions t
		LEFT JOIN evaluations e ON t.call_id = e.call_id
		WHERE e.call_id IS NULL
	`).Scan(&count)
	return count, err
}

// EvaluationCount returns the number of persisted evaluations.
func (s *Store) EvaluationCount() (int, error) {
	var count int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM evaluations").Scan(&count)
	return count, err
}

// Ping verifies database connectivity.
func (s *Store) Ping() error {
	return s.conn.Ping()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
