package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key      VARCHAR PRIMARY KEY,
	format   VARCHAR NOT NULL,
	payload  BLOB NOT NULL,
	saved_at TIMESTAMP NOT NULL
)`

func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Repository stores encoded snapshots in DuckDB.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// OpenRepository opens (creating if needed) the database at path.
func OpenRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// StoredSnapshot is one row of the snapshots table.
type StoredSnapshot struct {
	Key     string
	Format  Format
	Payload []byte
	SavedAt time.Time
}

func (r *Repository) SaveSnapshot(key string, format Format, payload []byte) error {
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO snapshots (key, format, payload, saved_at) VALUES (?, ?, ?, ?)`,
		key, string(format), payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

func (r *Repository) LoadSnapshot(key string) (*StoredSnapshot, error) {
	row := r.db.QueryRow(`SELECT key, format, payload, saved_at FROM snapshots WHERE key = ?`, key)

	var (
		s      StoredSnapshot
		format string
	)
	if err := row.Scan(&s.Key, &format, &s.Payload, &s.SavedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	s.Format = Format(format)
	return &s, nil
}

func (r *Repository) DeleteSnapshot(key string) error {
	if _, err := r.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
