// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/random-chooser/chooser"
	"github.com/danielhkuo/random-chooser/cliparse"
	"github.com/danielhkuo/random-chooser/db"
	"github.com/danielhkuo/random-chooser/defaults"
	"github.com/danielhkuo/random-chooser/models"
	"github.com/danielhkuo/random-chooser/roster"
	"github.com/danielhkuo/random-chooser/settings"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupTestStore returns a settings store backed by SetupTestDB
func SetupTestStore(t *testing.T) settings.Store {
	t.Helper()

	kv, err := settings.NewSQLKV(SetupTestDB(t), settings.DialectSQLite)
	if err != nil {
		t.Fatalf("Failed to create key/value store: %v", err)
	}
	return settings.NewStore(kv)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		Host:         "127.0.0.1",
		DatabaseType: cliparse.DatabaseSQLite,
		DatabaseURL:  ":memory:",
	}
}

// TestChoices is the roster every test chooser starts with
func TestChoices() []models.Choice {
	return defaults.Builtin().Choices[:3]
}

// FirstSource always returns 0, so draws land on the first candidate
// with a positive weight and animations make the minimum number of turns.
type FirstSource struct{}

func (FirstSource) IntN(int) int { return 0 }

// NewTestChooser builds a chooser over SetupTestStore that never sleeps.
// Extra options are applied after the test defaults.
func NewTestChooser(t *testing.T, opts ...chooser.Option) (*chooser.Chooser, settings.Store) {
	t.Helper()

	store := SetupTestStore(t)
	r := roster.New(context.Background(), store, TestChoices())
	cfg := chooser.Config{
		View:       defaults.Builtin().View,
		RollStep:   100 * time.Millisecond,
		RollSettle: time.Second,
	}

	base := []chooser.Option{
		chooser.WithSource(FirstSource{}),
		chooser.WithWait(func(time.Duration) {}),
	}
	return chooser.New(store, r, cfg, append(base, opts...)...), store
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case []byte:
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
