// Package cache persists per-unit analysis results keyed by content
// fingerprint, so unchanged units skip re-parsing on later runs.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrMiss is returned by Get when a unit has no usable cached entry.
var ErrMiss = errors.New("cache miss")

// Store is the SQLite-backed result cache. Entries are keyed by unit
// path and guarded by the content fingerprint recorded alongside them.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the cache database at the given path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	store := &Store{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS unit_facts (
		path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		facts TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_unit_facts_fingerprint ON unit_facts(fingerprint);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}

// Get returns the cached facts for a unit, or ErrMiss when the unit is
// unknown or its fingerprint no longer matches.
func (s *Store) Get(path, fingerprint string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var storedPrint, factsJSON string
	err := s.db.QueryRow(
		"SELECT fingerprint, facts FROM unit_facts WHERE path = ?",
		path,
	).Scan(&storedPrint, &factsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if storedPrint != fingerprint {
		return nil, ErrMiss
	}

	var facts []string
	if err := json.Unmarshal([]byte(factsJSON), &facts); err != nil {
		return nil, fmt.Errorf("failed to decode cached facts: %w", err)
	}
	return facts, nil
}

// Put records the facts for a unit, replacing any previous entry.
func (s *Store) Put(path, fingerprint string, facts []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("failed to encode facts: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO unit_facts (path, fingerprint, facts, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(path) DO UPDATE SET
		 fingerprint = excluded.fingerprint,
		 facts = excluded.facts,
		 updated_at = CURRENT_TIMESTAMP`,
		path, fingerprint, string(factsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Count reports how many units currently have cached entries.
func (s *Store) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM unit_facts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

// Clear removes every cached entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM unit_facts"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Path returns the location of the backing database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
