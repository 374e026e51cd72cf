// Package config loads server configuration from the environment.
//
// A .env file is overlaid first if one exists (convenient for local
// development, absent in production), then plain environment variables
// are read. Two values are hard requirements with no fallback:
//
//   - STYLIST_JWT_SECRET — the token signing key. It must never be
//     compiled into the binary or defaulted; a missing value is a fatal
//     configuration error, not something to paper over.
//   - GEMINI_API_KEY — the hosted-model key. The server owns this so it
//     never ships to clients.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/server needs to wire the application.
type Config struct {
	Port       int    // HTTP listen port (PORT, default 4000)
	DBPath     string // sqlite database file (DB_PATH, default data/stylist.db)
	CORSOrigin string // allowed browser origin (CORS_ORIGIN, default http://localhost:3000)

	JWTSecret string // token signing key (STYLIST_JWT_SECRET, required)

	GeminiAPIKey  string // hosted model key (GEMINI_API_KEY, required)
	GeminiBaseURL string // override for tests/proxies (GEMINI_BASE_URL)
	GeminiModel   string // model name (GEMINI_MODEL, default gemini-2.5-flash)
}

// Load reads the .env overlay (if present) and the environment, applies
// defaults, and validates required values.
func Load() (*Config, error) {
	// ok if missing in prod
	_ = godotenv.Load()

	cfg := &Config{
		Port:          4000,
		DBPath:        "data/stylist.db",
		CORSOrigin:    "http://localhost:3000",
		JWTSecret:     os.Getenv("STYLIST_JWT_SECRET"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: "https://generativelanguage.googleapis.com",
		GeminiModel:   "gemini-2.5-flash",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		cfg.GeminiBaseURL = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: STYLIST_JWT_SECRET is not set; refusing to start")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("config: GEMINI_API_KEY is not set; refusing to start")
	}

	return cfg, nil
}
