package settings

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const localStorageDDL = `CREATE TABLE IF NOT EXISTS local_storage (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite settings backend requires a path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening settings database: %w", err)
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(localStorageDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating local_storage table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}

	return value, true
}

func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO local_storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("error storing %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStore) SetDefault(key, value string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO local_storage (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("error storing default for %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
