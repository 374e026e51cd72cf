package client

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := NewTokenStoreAt(filepath.Join(t.TempDir(), "nested", "token"))

	if err := store.Save("abc.def.ghi"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "abc.def.ghi" {
		t.Errorf("Load() = %q", got)
	}
}

func TestTokenStore_MissingFileIsEmptyToken(t *testing.T) {
	store := NewTokenStoreAt(filepath.Join(t.TempDir(), "token"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "" {
		t.Errorf("Load() = %q, want empty", got)
	}
}

func TestTokenStore_ClearIsIdempotent(t *testing.T) {
	store := NewTokenStoreAt(filepath.Join(t.TempDir(), "token"))

	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("first Clear() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
	got, _ := store.Load()
	if got != "" {
		t.Errorf("token survived Clear(): %q", got)
	}
}

func TestTokenStore_OwnerOnlyPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "token")
	store := NewTokenStoreAt(path)

	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}
