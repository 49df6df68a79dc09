package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/dbx"
)

const (
	getQuery = `SELECT item_value FROM kv_store WHERE namespace = ? AND item_key = ?`

	setQuery = `INSERT INTO kv_store (namespace, item_key, item_value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`

	deleteQuery = `DELETE FROM kv_store WHERE namespace = ? AND item_key = ?`
)

// SQLStore keeps values in the kv_store table of a SQLite or Postgres
// database. The schema comes from RunMigrations.
type SQLStore struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	now     func() time.Time
}

func NewSQLStore(db dbx.DBTX, dialect dbx.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if err := checkKey(namespace, key); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, dbx.Rebind(s.dialect, getQuery), namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s[%s]: %w", namespace, key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := checkKey(namespace, key); err != nil {
		return err
	}

	if value == nil {
		value = []byte{}
	}

	_, err := s.db.ExecContext(ctx, dbx.Rebind(s.dialect, setQuery), namespace, key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set %s[%s]: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, namespace, key string) error {
	if err := checkKey(namespace, key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, dbx.Rebind(s.dialect, deleteQuery), namespace, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s[%s]: %w", namespace, key, err)
	}
	return nil
}
