// Package storage persists interaction history, the account blacklist
// and session reports. History and blacklist live in a SQLite
// database; reports are JSON files written atomically.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"igpilot/pkg/logger"
	"igpilot/pkg/retry"
)

// InteractionRecord is one persisted interaction with an account.
type InteractionRecord struct {
	Username     string
	SessionID    string
	Job          string
	Source       string
	Followed     bool
	Scraped      bool
	Liked        int
	Watched      int
	Commented    int
	InteractedAt time.Time
}

// Store wraps the SQLite database holding interaction history and the
// blacklist.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS interacted_users (
	username      TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL,
	job           TEXT NOT NULL,
	source        TEXT NOT NULL,
	followed      INTEGER NOT NULL DEFAULT 0,
	scraped       INTEGER NOT NULL DEFAULT 0,
	liked         INTEGER NOT NULL DEFAULT 0,
	watched       INTEGER NOT NULL DEFAULT 0,
	commented     INTEGER NOT NULL DEFAULT 0,
	interacted_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS blacklist (
	username TEXT PRIMARY KEY,
	added_at TIMESTAMP NOT NULL
);
`

// Open opens (creating if needed) the database at path.
func Open(path string, log logger.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// OpenWithRetry opens the database, retrying transient failures with
// exponential backoff. Filesystem races and leftover locks from a
// previous run are the usual startup faults.
func OpenWithRetry(ctx context.Context, path string, log logger.Logger) (*Store, error) {
	cfg := retry.DefaultConfig()
	cfg.Context = ctx
	cfg.Logger = log

	var store *Store
	err := retry.Do(func() error {
		var openErr error
		store, openErr = Open(path, log)
		return openErr
	}, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsBlacklisted reports whether the account must never be interacted
// with.
func (s *Store) IsBlacklisted(username string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM blacklist WHERE username = ?`, username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query blacklist: %w", err)
	}
	return true, nil
}

// AddToBlacklist adds an account to the blacklist. Idempotent.
func (s *Store) AddToBlacklist(username string) error {
	_, err := s.db.Exec(
		`INSERT INTO blacklist (username, added_at) VALUES (?, ?)
		 ON CONFLICT(username) DO NOTHING`,
		username, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to add %s to blacklist: %w", username, err)
	}
	return nil
}

// LastInteractionTime returns when the account was last interacted
// with, if ever.
func (s *Store) LastInteractionTime(username string) (time.Time, bool, error) {
	var when time.Time
	err := s.db.QueryRow(
		`SELECT interacted_at FROM interacted_users WHERE username = ?`, username,
	).Scan(&when)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query interaction time: %w", err)
	}
	return when, true, nil
}

// CanReinteract reports whether enough time has passed since the last
// interaction with the account. A zero cooldown permits reinteraction
// immediately; an account never interacted with is always allowed.
func (s *Store) CanReinteract(username string, cooldown time.Duration) (bool, error) {
	last, ok, err := s.LastInteractionTime(username)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return time.Since(last) >= cooldown, nil
}

// RecordInteraction upserts the interaction history for an account.
// Counters accumulate across sessions; the timestamp always advances.
func (s *Store) RecordInteraction(rec InteractionRecord) error {
	if rec.InteractedAt.IsZero() {
		rec.InteractedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO interacted_users
			(username, session_id, job, source, followed, scraped, liked, watched, commented, interacted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
			session_id    = excluded.session_id,
			job           = excluded.job,
			source        = excluded.source,
			followed      = followed OR excluded.followed,
			scraped       = scraped OR excluded.scraped,
			liked         = liked + excluded.liked,
			watched       = watched + excluded.watched,
			commented     = commented + excluded.commented,
			interacted_at = excluded.interacted_at`,
		rec.Username, rec.SessionID, rec.Job, rec.Source,
		rec.Followed, rec.Scraped, rec.Liked, rec.Watched, rec.Commented,
		rec.InteractedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record interaction with %s: %w", rec.Username, err)
	}
	return nil
}

// InteractedCount returns how many accounts have history rows.
func (s *Store) InteractedCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM interacted_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return n, nil
}
