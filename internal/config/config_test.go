package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TIMEOUT", "SESSION_DB_PATH", "DB_MAX_OPEN_CONNS", "EXPORT_DIR", "EXPORT_HEADERS_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Api.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL = %q", cfg.Api.BaseURL)
	}
	if cfg.Api.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Api.RequestTimeout)
	}
	if cfg.Database.Path != "session.db" || cfg.Database.MaxOpenConns != 4 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Export.Directory != "." || cfg.LogLevel != "info" {
		t.Errorf("unexpected export/log config: %+v %q", cfg.Export, cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://backoffice.example.com/api/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("DB_MAX_OPEN_CONNS", "1")
	t.Setenv("EXPORT_DIR", "/tmp/exports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Api.BaseURL != "https://backoffice.example.com/api" {
		t.Errorf("trailing slash should be trimmed: %q", cfg.Api.BaseURL)
	}
	if cfg.Api.RequestTimeout != 5*time.Second || cfg.Database.MaxOpenConns != 1 || cfg.Export.Directory != "/tmp/exports" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timeout", "API_TIMEOUT", "soon"},
		{"bad ping timeout", "DB_PING_TIMEOUT", "10"},
		{"bad base url", "API_BASE_URL", "::bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
