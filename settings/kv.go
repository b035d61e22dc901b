// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settings

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// KV is the key/value substrate the settings document lives in
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Database dialects supported by SQLKV
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// SQLKV stores values in the kv_store table (see db.CreateSchema)
type SQLKV struct {
	db *sql.DB

	getQuery    string
	setQuery    string
	removeQuery string
}

func NewSQLKV(db *sql.DB, dialect string) (*SQLKV, error) {
	kv := &SQLKV{db: db}

	switch dialect {
	case DialectSQLite:
		kv.getQuery = `SELECT item_value FROM kv_store WHERE item_key = ?`
		kv.setQuery = `
			INSERT INTO kv_store (item_key, item_value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (item_key) DO UPDATE SET
				item_value = excluded.item_value,
				updated_at = excluded.updated_at`
		kv.removeQuery = `DELETE FROM kv_store WHERE item_key = ?`
	case DialectPostgres:
		kv.getQuery = `SELECT item_value FROM kv_store WHERE item_key = $1`
		kv.setQuery = `
			INSERT INTO kv_store (item_key, item_value, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (item_key) DO UPDATE SET
				item_value = EXCLUDED.item_value,
				updated_at = EXCLUDED.updated_at`
		kv.removeQuery = `DELETE FROM kv_store WHERE item_key = $1`
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}

	return kv, nil
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.removeQuery, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// MemoryKV keeps values in a map. Used for DATABASE_TYPE=memory and tests.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
