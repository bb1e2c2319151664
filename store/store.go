// Package store persists form submissions in a relational database through
// database/sql. The default driver is the pure Go sqlite from modernc.org.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("record not found")

// Store is the relational store of contact submissions, newsletter subscriptions
// and event rsvps.
type Store struct {
	db  *sql.DB
	now func() time.Time
	ids func() string
}

// Open opens the database and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = "sqlite"
	}
	if driver == "sqlite" && !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite" {
		//single writer, and :memory: databases live per connection
		db.SetMaxOpenConns(1)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an opened database. Call Migrate before use.
func New(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
		ids: uuid.NewString,
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the tables. Times are stored as unix nanoseconds.
func (s *Store) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS contact_submissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT,
		message TEXT NOT NULL,
		ip_address TEXT NOT NULL DEFAULT 'unknown',
		status TEXT NOT NULL DEFAULT 'NEW',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_contact_created ON contact_submissions(created_at);
	CREATE INDEX IF NOT EXISTS idx_contact_status ON contact_submissions(status);

	CREATE TABLE IF NOT EXISTS newsletter_subscriptions (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT,
		preferences TEXT NOT NULL DEFAULT '[]',
		is_active INTEGER NOT NULL DEFAULT 1,
		subscribed_at INTEGER NOT NULL,
		unsubscribed_at INTEGER,
		unsubscribe_reason TEXT,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_rsvps (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		guest_count INTEGER NOT NULL DEFAULT 1,
		attending TEXT NOT NULL,
		dietary_restrictions TEXT,
		message TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(event_id, email)
	);
	CREATE INDEX IF NOT EXISTS idx_rsvp_event_attending ON event_rsvps(event_id, attending);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func toNanos(t time.Time) int64 { return t.UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
