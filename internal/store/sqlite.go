// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite"

	"github.com/studydrill/backend/internal/domain/history"
	"github.com/studydrill/backend/internal/domain/question"
	"github.com/studydrill/backend/internal/domain/settings"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLiteStore keeps each document as one JSON value in a key/value table.
// Last write wins per key, which matches the replace-on-write persistence
// model of the engine.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO blobs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, string(raw),
	)
	return err
}

func (s *SQLiteStore) get(key string, v any) error {
	var raw string
	err := s.db.QueryRow("SELECT value FROM blobs WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

func (s *SQLiteStore) SaveBank(bank []question.Question) error {
	return s.put(KeyBank, bank)
}

func (s *SQLiteStore) LoadBank() ([]question.Question, error) {
	var bank []question.Question
	if err := s.get(KeyBank, &bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (s *SQLiteStore) SaveHistory(entries []history.Entry) error {
	return s.put(KeyHistory, entries)
}

func (s *SQLiteStore) LoadHistory() ([]history.Entry, error) {
	var entries []history.Entry
	if err := s.get(KeyHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *SQLiteStore) SaveSettings(v settings.Settings) error {
	return s.put(KeySettings, v)
}

func (s *SQLiteStore) LoadSettings() (settings.Settings, error) {
	var v settings.Settings
	if err := s.get(KeySettings, &v); err != nil {
		return settings.Settings{}, err
	}
	return v, nil
}
