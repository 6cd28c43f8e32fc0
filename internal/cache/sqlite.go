package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS translations (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps translations in a single-table sqlite file. The table is
// read into memory on Load and written back in one transaction on Save.
type SQLiteStore struct {
	entries
}

// NewSQLiteStore creates an empty sqlite-backed store
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{entries: make(entries)}
}

// Load replaces the store contents with the rows of the file at path
func (s *SQLiteStore) Load(path string) error {
	s.entries = make(entries)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return &IOError{Op: "load", Path: path, Err: err}
	}
	defer db.Close()

	rows, err := db.Query(`SELECT key, value FROM translations`)
	if err != nil {
		return &IOError{Op: "load", Path: path, Err: err}
	}
	defer rows.Close()

	loaded := make(entries)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return &IOError{Op: "load", Path: path, Err: err}
		}
		loaded[key] = value
	}
	if err := rows.Err(); err != nil {
		return &IOError{Op: "load", Path: path, Err: err}
	}

	s.entries = loaded
	return nil
}

// Save upserts every entry into the file at path
func (s *SQLiteStore) Save(path string) error {
	if err := s.save(path); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO translations (key, value) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for key, value := range s.entries {
		if _, err := stmt.Exec(key, value); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}

	return tx.Commit()
}
