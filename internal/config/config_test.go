package config

import (
	"strings"
	"testing"
)

// clearEnv blanks every variable Load reads so tests see only what they
// set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DB_PATH", "CORS_ORIGIN",
		"STYLIST_JWT_SECRET",
		"GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STYLIST_JWT_SECRET", "a-secret-long-enough-for-hmac")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Port)
	}
	if cfg.DBPath != "data/stylist.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.CORSOrigin != "http://localhost:3000" {
		t.Errorf("CORSOrigin = %q", cfg.CORSOrigin)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.GeminiBaseURL != "https://generativelanguage.googleapis.com" {
		t.Errorf("GeminiBaseURL = %q", cfg.GeminiBaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STYLIST_JWT_SECRET", "a-secret-long-enough-for-hmac")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("CORS_ORIGIN", "https://stylist.example.com")
	t.Setenv("GEMINI_BASE_URL", "http://localhost:9999")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.CORSOrigin != "https://stylist.example.com" {
		t.Errorf("CORSOrigin = %q", cfg.CORSOrigin)
	}
	if cfg.GeminiBaseURL != "http://localhost:9999" {
		t.Errorf("GeminiBaseURL = %q", cfg.GeminiBaseURL)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
}

func TestLoadMissingJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without STYLIST_JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "STYLIST_JWT_SECRET") {
		t.Errorf("error %q should name the missing variable", err)
	}
}

func TestLoadMissingGeminiKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("STYLIST_JWT_SECRET", "a-secret-long-enough-for-hmac")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without GEMINI_API_KEY")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error %q should name the missing variable", err)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("STYLIST_JWT_SECRET", "a-secret-long-enough-for-hmac")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a non-numeric PORT")
	}
}
