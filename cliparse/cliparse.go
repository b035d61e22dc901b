// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported storage backends
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseMemory   = "memory"
)

type Config struct {
	Port         int
	Host         string
	DatabaseURL  string
	DatabaseType string
	DefaultsFile string
	LogFile      string
	EnvFile      string
	RollStep     time.Duration
	RollSettle   time.Duration
}

// Addr returns the listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("random-chooser", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.Host, "host", "", "Listen host (default 127.0.0.1)")

	// Storage
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite file")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or memory)")

	fs.StringVar(&cfg.DefaultsFile, "defaults", "", "Defaults file (YAML or JSON)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Write JSON logs to this file")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "Load environment from this file (default .env if present)")

	fs.DurationVar(&cfg.RollStep, "roll-step", 0, "Delay between roll animation frames")
	fs.DurationVar(&cfg.RollSettle, "roll-settle", 0, "Pause after a roll lands")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// godotenv never overrides variables that are already set
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port out of range: %d", cfg.Port)
	}

	if cfg.Host == "" {
		cfg.Host = os.Getenv("HOST")
		if cfg.Host == "" {
			cfg.Host = "127.0.0.1"
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "random-chooser.db"
		}
	case DatabasePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	case DatabaseMemory:
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.DefaultsFile == "" {
		cfg.DefaultsFile = os.Getenv("DEFAULTS_FILE")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("LOG_FILE")
	}

	var err error
	if cfg.RollStep, err = durationOrEnv(cfg.RollStep, "ROLL_STEP", 100*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.RollSettle, err = durationOrEnv(cfg.RollSettle, "ROLL_SETTLE", time.Second); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func durationOrEnv(v time.Duration, key string, fallback time.Duration) (time.Duration, error) {
	if v != 0 {
		return v, nil
	}
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
