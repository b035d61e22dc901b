// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the settings database and creates its schema.

# Connecting

Open picks the driver from the database type, pings the server and creates
the schema:

	conn, err := db.Open(ctx, "sqlite", "random-chooser.db")

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes the key/value table:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - kv_store: item_key (primary key), item_value (JSON text), updated_at

The settings document is one row; see settings.StorageKey. The statement
is portable between SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq).
*/
package db
