package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// openDB opens a SQLite database with WAL and a busy timeout, then brings
// its schema up to the given version. The primary and alternate
// transcription sources each keep their own file and never share a
// connection.
func openDB(path string, schemaVersion int, apply func(tx *sql.Tx, version int) error) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=10000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := migrate(conn, schemaVersion, apply); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// migrate applies schema steps incrementally, tracked via PRAGMA user_version.
func migrate(conn *sql.DB, schemaVersion int, apply func(tx *sql.Tx, version int) error) error {
	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	for version < schemaVersion {
		version++
		if err := apply(tx, version); err != nil {
			return fmt.Errorf("failed to apply schema v%d: %w", version, err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}

	return tx.Commit()
}
