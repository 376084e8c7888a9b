package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Prefix namespaces every key so the store can share a database with
// anything else without collisions.
const Prefix = "aria_"

// Store is a key-value store over SQLite. Values are JSON documents.
// Read and write failures are logged and reported as "value absent" -
// persistence problems must never take the player down.
type Store struct {
	conn   *sql.DB
	logger *logrus.Logger
}

// Open opens (or creates) the store at the given path and ensures the
// schema exists. Caller should Close() it when finished.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works better with fewer connections
	conn.SetMaxOpenConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).Warn("Failed to apply pragma")
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{conn: conn, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the raw value for a key. A missing key or a read error both
// report ok=false.
func (s *Store) Get(key string) ([]byte, bool) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM kv WHERE key = ?", Prefix+key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Storage read failed")
		return nil, false
	}
	return []byte(value), true
}

// Set stores a raw value, silently overwriting any previous one.
func (s *Store) Set(key string, value []byte) bool {
	_, err := s.conn.Exec(
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		Prefix+key, string(value), time.Now().Unix(),
	)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Storage write failed")
		return false
	}
	return true
}

// Remove deletes a key. Removing a missing key is not an error.
func (s *Store) Remove(key string) bool {
	if _, err := s.conn.Exec("DELETE FROM kv WHERE key = ?", Prefix+key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Storage delete failed")
		return false
	}
	return true
}

// GetJSON unmarshals the value for a key into v.
func (s *Store) GetJSON(key string, v interface{}) bool {
	data, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Storage value corrupted")
		return false
	}
	return true
}

// SetJSON marshals v and stores it under key.
func (s *Store) SetJSON(key string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Storage marshal failed")
		return false
	}
	return s.Set(key, data)
}
