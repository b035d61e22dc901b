// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The same statement is valid on SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Key/value documents (the settings document lives under a single key)
CREATE TABLE IF NOT EXISTS kv_store (
    item_key TEXT PRIMARY KEY,
    item_value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`
