// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// noEnvFile points --env-file at a path that does not exist so a
// developer's .env never leaks into the tests.
func noEnvFile(t *testing.T) string {
	t.Helper()
	return "--env-file=" + filepath.Join(t.TempDir(), "absent.env")
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PIPELINE_TEMPLATES", "templates.yaml")
	t.Setenv("STREAM_HEARTBEAT", "30s")

	cfg, err := ParseFlags([]string{noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected redis url %q", cfg.RedisURL)
	}
	if cfg.TemplatesPath != "templates.yaml" {
		t.Errorf("unexpected templates path %q", cfg.TemplatesPath)
	}
	if cfg.Heartbeat != 30*time.Second {
		t.Errorf("expected 30s heartbeat, got %s", cfg.Heartbeat)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STREAM_HEARTBEAT", "1m")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "--heartbeat", "5s", noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.Heartbeat != 5*time.Second {
		t.Errorf("CLI should override env: expected 5s, got %s", cfg.Heartbeat)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("STREAM_HEARTBEAT", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := ParseFlags([]string{"--database-url", "file:test.db", noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.Heartbeat != DefaultHeartbeat {
		t.Errorf("expected 15s, got %s", cfg.Heartbeat)
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected no redis url, got %q", cfg.RedisURL)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	// godotenv does not override variables that are already set, even
	// to the empty string, so unset them after registering restoration.
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PORT")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DATABASE_URL=file:fromenv.db\nPORT=7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("PORT")
	})

	cfg, err := ParseFlags([]string{"--env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "file:fromenv.db" || cfg.Port != 7000 {
		t.Errorf("expected values from env file, got %+v", cfg)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}, nil, "database URL required"},
		{"bad port", map[string]string{"PORT": "abc"}, []string{"-d", "x"}, "invalid PORT"},
		{"bad type", nil, []string{"-d", "x", "-t", "mysql"}, "unsupported database type"},
		{"bad heartbeat", map[string]string{"STREAM_HEARTBEAT": "often"}, []string{"-d", "x"}, "invalid STREAM_HEARTBEAT"},
		{"zero heartbeat", nil, []string{"-d", "x", "--heartbeat=0s"}, "must be positive"},
		{"grace window is a client setting", nil, []string{"-d", "x", "--grace-window=1s"}, "unknown flag"},
		{"unknown flag", nil, []string{"--admin-salt", "x"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			t.Setenv("DATABASE_TYPE", "")
			t.Setenv("STREAM_HEARTBEAT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := ParseFlags(append(tt.args, noEnvFile(t)))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
