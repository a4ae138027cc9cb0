// Package cache persists resolved programs keyed by source hash, so
// re-running the frontend over an unchanged file skips every semantic
// stage. Payloads are the encoding package's bitstream format.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS resolved_programs (
		source_hash TEXT PRIMARY KEY,
		module_id   TEXT NOT NULL,
		payload     BLOB NOT NULL,
		created_at  INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Key hashes source text into a cache key.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Get returns the payload stored under key, if any.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT payload FROM resolved_programs WHERE source_hash = ?`, key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Put stores payload under key, replacing any previous entry.
func (s *Store) Put(key, moduleID string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO resolved_programs (source_hash, module_id, payload, created_at)
		 VALUES (?, ?, ?, ?)`,
		key, moduleID, payload, time.Now().Unix(),
	)
	return err
}
