// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - Host: Listen host (default: 127.0.0.1, local use only)
  - DatabaseType: sqlite, postgres or memory (default: sqlite)
  - DatabaseURL: SQLite file or PostgreSQL connection string
    (default: random-chooser.db for sqlite, required for postgres)
  - DefaultsFile: Roster used when nothing is stored (default: built-in list)
  - LogFile: Optional rotating JSON log file
  - RollStep: Delay between roll animation frames (default: 100ms)
  - RollSettle: Pause after a roll lands (default: 1s)

# CLI Flags

	-p            Server port
	-host         Listen host
	-t            Database type
	-d            Database URL
	-defaults     Defaults file
	-log-file     Log file
	-env-file     Environment file
	-roll-step    Frame delay
	-roll-settle  Settle delay

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	HOST          → -host
	DATABASE_TYPE → -t
	DATABASE_URL  → -d
	DEFAULTS_FILE → -defaults
	LOG_FILE      → -log-file
	ROLL_STEP     → -roll-step
	ROLL_SETTLE   → -roll-settle

CLI flags take precedence over environment variables. Variables are also
read from a .env file (or the file named by -env-file); values already set
in the environment win.

# Validation

ParseFlags returns an error if:

  - PORT is not a number or is out of range
  - DATABASE_TYPE is not sqlite, postgres or memory
  - DATABASE_URL is missing for postgres
  - ROLL_STEP or ROLL_SETTLE is not a valid duration

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	mux := router.NewRouter(chooser, cfg)
*/
package cliparse
