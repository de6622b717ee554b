package storage

import (
	"encoding/json"
	"fmt"
	"os"
)

// SeedRecord is one entry of a JSON seed file: a validated call transcript
// exported from the upstream pipeline.
type SeedRecord struct {
	CallID        int64  `json:"call_id"`
	Transcription string `json:"transcription"`
	HumanGrade    string `json:"human_grade,omitempty"`
}

// ReadSeedFile parses a JSON array of seed records.
func ReadSeedFile(path string) ([]SeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []SeedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return records, nil
}

// ImportTranscripts upserts seed records into the primary store, keyed on
// call ID. Re-importing the same file refreshes existing rows instead of
// duplicating them.
func (s *Store) ImportTranscripts(records []SeedRecord) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for _, rec := range records {
		if _, err := tx.Exec(`
			INSERT INTO transcriptions (call_id, transcription, human_grade)
			VALUES (?, ?, ?)
			ON CONFLICT (call_id) DO UPDATE
			SET transcription = excluded.transcription,
			    human_grade = excluded.human_grade
		`, rec.CallID, rec.Transcription, rec.HumanGrade); err != nil {
			return 0, fmt.Errorf("failed to import call %d: %w", rec.CallID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ImportTranscripts upserts seed records into the alternate store, keyed
// on call ID.
func (s *AlternateStore) ImportTranscripts(records []SeedRecord) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for _, rec := range records {
		if _, err := tx.Exec(`
			INSERT INTO call_processing (call_id, final_transcript)
			VALUES (?, ?)
			ON CONFLICT (call_id) DO UPDATE
			SET final_transcript = excluded.final_transcript
		`, rec.CallID, rec.Transcription); err != nil {
			return 0, fmt.Errorf("failed to import call %d: %w", rec.CallID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
