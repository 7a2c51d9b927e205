package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key Key) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM kv_records WHERE namespace = ? AND resource = ?`,
		key.Namespace(), string(key.Resource),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key Key, value string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (namespace, resource, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, resource) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key.Namespace(), string(key.Resource), value, s.now().UTC().Format(sqliteTimeLayout),
	)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv_records WHERE namespace = ? AND resource = ?`,
		key.Namespace(), string(key.Resource))
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// UpdatedAt reports when the record under key was last written.
func (s *SQLiteStore) UpdatedAt(ctx context.Context, key Key) (time.Time, error) {
	if err := key.Validate(); err != nil {
		return time.Time{}, err
	}
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT updated_at FROM kv_records WHERE namespace = ? AND resource = ?`,
		key.Namespace(), string(key.Resource),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return time.Parse(sqliteTimeLayout, raw)
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
