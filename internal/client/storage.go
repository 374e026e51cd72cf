package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists exactly one thing between runs: the session token.
// The user record and closet are never written to disk; they are
// re-fetched from /get-user on every start, so the server stays the
// single source of truth.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store rooted at the platform config dir,
// ~/.config/ai-stylist/token on Linux.
func NewTokenStore() (*TokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("client: locating config dir: %w", err)
	}
	return &TokenStore{path: filepath.Join(dir, "ai-stylist", "token")}, nil
}

// NewTokenStoreAt returns a store with an explicit path. Used by tests.
func NewTokenStoreAt(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the stored token. A missing file is not an error; it just
// means no session, and the caller lands in the anonymous state.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("client: reading token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with owner-only permissions.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("client: creating config dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("client: writing token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is a no-op.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("client: removing token: %w", err)
	}
	return nil
}
