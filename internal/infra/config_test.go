package infra

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("DB_MIN_CONNS", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
	if cfg.StorageDriver != StorageFilesystem {
		t.Fatalf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.JWTTTL != 168*time.Hour {
		t.Fatalf("JWTTTL = %v", cfg.JWTTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("CORSOrigins = %#v", cfg.CORSOrigins)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Fatalf("pool bounds = %d/%d", cfg.DBMinConns, cfg.DBMaxConns)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:1919/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigParsesLists(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", " https://a.example, ,https://b.example ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSOrigins) != len(expected) {
		t.Fatalf("CORSOrigins mismatch: got %#v want %#v", cfg.CORSOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSOrigins[i] != origin {
			t.Fatalf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], origin)
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database", env: map[string]string{"DATABASE_URL": "", "JWT_SECRET": "x"}},
		{name: "missing secret", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": ""}},
		{name: "s3 without bucket", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "x", "STORAGE_DRIVER": "s3", "S3_BUCKET": ""}},
		{name: "unknown driver", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "x", "STORAGE_DRIVER": "ftp"}},
		{name: "pool bounds", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "x", "DB_MIN_CONNS": "20", "DB_MAX_CONNS": "5"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestConfigInMemory(t *testing.T) {
	cases := map[string]bool{
		"memory":                      true,
		" MEMORY ":                    true,
		"postgres://localhost/boards": false,
	}
	for url, want := range cases {
		cfg := &Config{DatabaseURL: url}
		if got := cfg.InMemory(); got != want {
			t.Fatalf("InMemory(%q) = %v, want %v", url, got, want)
		}
	}
}
