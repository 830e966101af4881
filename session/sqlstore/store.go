// Package sqlstore keeps client sessions in a SQL table, so several
// processes (workers, cron jobs) acting as the same service account share a
// single token pair.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/session"
)

var _ session.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS client_sessions (
    profile    TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (profile, key)
);`

// Store is a session.Store backed by the client_sessions table. Rows are
// scoped by profile so one database can hold several named sessions.
type Store struct {
	db      *sql.DB
	profile string
	now     func() time.Time
}

func New(db *sql.DB, profile string) *Store {
	return &Store{db: db, profile: profile, now: time.Now}
}

// EnsureSchema creates the client_sessions table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create client_sessions: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key session.Key) (string, error) {
	const q = `SELECT value FROM client_sessions WHERE profile = $1 AND key = $2`

	var value string
	err := s.db.QueryRowContext(ctx, q, s.profile, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key session.Key, value string) error {
	const q = `
INSERT INTO client_sessions (profile, key, value, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, q, s.profile, string(key), value, s.now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, keys ...session.Key) error {
	const q = `DELETE FROM client_sessions WHERE profile = $1 AND key = $2`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, q, s.profile, string(k)); err != nil {
			return fmt.Errorf("clear %s: %w", k, err)
		}
	}
	return tx.Commit()
}
