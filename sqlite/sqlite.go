// Package sqlite persists the high score record in a SQLite key-value table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/mindlab"
	mljson "github.com/fwojciec/mindlab/json"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

// Interface compliance check.
var _ mindlab.HighScoreStore = (*Store)(nil)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Store implements mindlab.HighScoreStore on a SQLite database. Values are
// stored as the same JSON documents the json store writes.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies
// migrations. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to enable WAL mode", goerr.V("path", path))
	}
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			db.Close()
			return nil, goerr.Wrap(err, "migration failed", goerr.V("path", path))
		}
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored high score, or the zero value if none exists.
func (s *Store) Load(ctx context.Context) (mindlab.HighScore, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, mindlab.HighScoreKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return mindlab.HighScore{}, nil
	}
	if err != nil {
		return mindlab.HighScore{}, goerr.Wrap(err, "failed to query high score", goerr.V("key", mindlab.HighScoreKey))
	}
	h, err := mljson.UnmarshalHighScore([]byte(value))
	if err != nil {
		return mindlab.HighScore{}, goerr.Wrap(err, "failed to decode high score", goerr.V("key", mindlab.HighScoreKey))
	}
	return h, nil
}

// Save validates h and upserts it.
func (s *Store) Save(ctx context.Context, h mindlab.HighScore) error {
	if err := h.Validate(); err != nil {
		return err
	}
	data, err := mljson.MarshalHighScore(h)
	if err != nil {
		return goerr.Wrap(err, "failed to encode high score")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		mindlab.HighScoreKey, string(data))
	if err != nil {
		return goerr.Wrap(err, "failed to save high score", goerr.V("key", mindlab.HighScoreKey))
	}
	return nil
}
