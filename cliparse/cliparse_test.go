// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected loopback host, got %s", cfg.Host)
	}
	if cfg.DatabaseType != DatabaseSQLite || cfg.DatabaseURL != "random-chooser.db" {
		t.Errorf("unexpected storage defaults: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.RollStep != 100*time.Millisecond || cfg.RollSettle != time.Second {
		t.Errorf("unexpected roll timing: %v %v", cfg.RollStep, cfg.RollSettle)
	}
	if cfg.Addr() != "127.0.0.1:3318" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("ROLL_STEP", "20ms")
	os.Setenv("DEFAULTS_FILE", "restaurants.yaml")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected database URL from env, got %s", cfg.DatabaseURL)
	}
	if cfg.RollStep != 20*time.Millisecond {
		t.Errorf("expected 20ms roll step, got %v", cfg.RollStep)
	}
	if cfg.DefaultsFile != "restaurants.yaml" {
		t.Errorf("expected defaults file from env, got %s", cfg.DefaultsFile)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-t", "memory", "-roll-settle", "0s", "-host", "0.0.0.0"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseMemory {
		t.Errorf("expected memory storage, got %s", cfg.DatabaseType)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("expected host from flag, got %s", cfg.Host)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PORT=7777\nDATABASE_TYPE=memory\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 7777 || cfg.DatabaseType != DatabaseMemory {
		t.Errorf("expected values from env file, got %d %s", cfg.Port, cfg.DatabaseType)
	}

	if _, err := ParseFlags([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}); err == nil {
		t.Error("expected error for missing env file")
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port env", map[string]string{"PORT": "abc"}, nil},
		{"port out of range", nil, []string{"-p", "70000"}},
		{"unknown database", nil, []string{"-t", "mysql"}},
		{"postgres without url", nil, []string{"-t", "postgres"}},
		{"bad roll step", map[string]string{"ROLL_STEP": "fast"}, nil},
		{"unknown flag", nil, []string{"-admin-salt", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
