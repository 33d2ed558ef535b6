package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SyncStatus is the state of the last attempt to push local credentials
// to the backend.
type SyncStatus string

const (
	StatusNone    SyncStatus = ""
	StatusPending SyncStatus = "pending"
	StatusSynced  SyncStatus = "synced"
	StatusFailed  SyncStatus = "failed"
)

// SyncState is the persisted sync status.
type SyncState struct {
	Status    SyncStatus
	LastError string
	UpdatedAt time.Time
}

// Store persists credentials and their sync state.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	SyncState(ctx context.Context) (SyncState, error)
	SetSyncState(ctx context.Context, state SyncState) error
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	status     TEXT NOT NULL,
	last_error TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);`

// SQLiteStore keeps credentials in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the credential database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps :memory: stable.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the stored credentials. Missing fields are empty.
func (s *SQLiteStore) Load(ctx context.Context) (Credentials, error) {
	var creds Credentials

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM credentials`)
	if err != nil {
		return creds, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return creds, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds.Set(key, value)
	}
	return creds, rows.Err()
}

// Save writes all five fields in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, creds Credentials) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, f := range Fields {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			f.Key, creds.Get(f.Key))
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", f.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credentials: %w", err)
	}
	return nil
}

// SyncState returns the last recorded sync state, or StatusNone if the
// credentials were never saved.
func (s *SQLiteStore) SyncState(ctx context.Context) (SyncState, error) {
	var (
		state   SyncState
		status  string
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT status, last_error, updated_at FROM sync_state WHERE id = 1`,
	).Scan(&status, &state.LastError, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncState{}, nil
	}
	if err != nil {
		return SyncState{}, fmt.Errorf("failed to read sync state: %w", err)
	}
	state.Status = SyncStatus(status)
	state.UpdatedAt = time.Unix(updated, 0)
	return state, nil
}

// SetSyncState records the sync state.
func (s *SQLiteStore) SetSyncState(ctx context.Context, state SyncState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_state (id, status, last_error, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status,
		   last_error = excluded.last_error, updated_at = excluded.updated_at`,
		string(state.Status), state.LastError, state.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to write sync state: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
