// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Random Chooser server.

Random Chooser keeps a list of restaurants with map coordinates and picks
one at random. Draws are weighted: every restaurant that is not picked
gains weight and the one picked drops to zero, so repeated rolls rotate
through the list instead of repeating favorites.

# Starting the Server

With no configuration the server listens on 127.0.0.1:3318 and stores its
settings in random-chooser.db:

	go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

All settings are optional:

  - PORT (-p): Server port (default: 3318)
  - HOST (-host): Listen host (default: 127.0.0.1)
  - DATABASE_TYPE (-t): sqlite, postgres or memory (default: sqlite)
  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - DEFAULTS_FILE (-defaults): Roster used when nothing is stored
  - LOG_FILE (-log-file): Rotating JSON log file
  - ROLL_STEP (-roll-step), ROLL_SETTLE (-roll-settle): Roll animation timing

Variables can also be placed in a .env file.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers and the websocket event stream
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, gzip, JSON helpers
  - chooser: Core facade, roll animation and re-entrancy guard
  - roster: Choice list synchronized with stored settings
  - weighted, weights: Weighted draw and weight feedback
  - settings: Settings document, import, share links
  - defaults: Built-in or file-provided default roster
  - models: Shared types
  - db: Database connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
