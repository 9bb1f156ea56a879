package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
)

// SQLiteStorage stores values in the kv_store table.
type SQLiteStorage struct {
	conn db.DBTX
	uow  db.UnitOfWork
	now  func() time.Time
}

// NewSQLiteStorage reads and writes through conn. SetMany runs inside a
// transaction from uow; with a nil uow it falls back to sequential writes.
func NewSQLiteStorage(conn db.DBTX, uow db.UnitOfWork) *SQLiteStorage {
	return &SQLiteStorage{conn: conn, uow: uow, now: time.Now}
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	var value []byte
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.set(ctx, s.conn, key, value)
}

func (s *SQLiteStorage) set(ctx context.Context, conn db.DBTX, key string, value []byte) error {
	_, err := conn.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at, revision) VALUES (?, ?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			revision = kv_store.revision + 1`,
		key, value, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) SetMany(ctx context.Context, entries map[string][]byte) error {
	if err := checkKeys(entries); err != nil {
		return err
	}
	keys := sortedKeys(entries)
	if s.uow == nil {
		for _, k := range keys {
			if err := s.set(ctx, s.conn, k, entries[k]); err != nil {
				return err
			}
		}
		return nil
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, k := range keys {
			if err := s.set(ctx, tx, k, entries[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Revision returns how many times key has been written, 0 if never.
func (s *SQLiteStorage) Revision(ctx context.Context, key string) (int64, error) {
	var rev int64
	err := s.conn.QueryRowContext(ctx, `SELECT revision FROM kv_store WHERE key = ?`, key).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading revision of %s: %w", key, err)
	}
	return rev, nil
}
