package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"taskpad/internal/service"
	"taskpad/internal/session"
)

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskpad", "session.json")
	store := session.NewStore(path)

	if err := store.Save("abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	reloaded := session.NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if reloaded.Current() != "abc" {
		t.Errorf("expected token abc, got %q", reloaded.Current())
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if reloaded.HasToken() {
		t.Error("expected no token after clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should have been removed")
	}
	if err := reloaded.Clear(); err != nil {
		t.Errorf("clearing twice should succeed, got %v", err)
	}
}

func TestStore_SaveCreatesConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "taskpad")
	store := session.NewStore(filepath.Join(dir, "session.json"))

	if err := store.Save("abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("expected mode 0700, got %o", info.Mode().Perm())
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.HasToken() {
		t.Error("expected empty store")
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	store := session.NewStore(path)
	if err := store.Load(); err == nil {
		t.Fatal("expected parse error")
	}
	if store.HasToken() {
		t.Error("corrupt file must leave store empty")
	}
}

func TestStore_SaveRejectsEmpty(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestStore_TokenSource(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	if _, err := store.Token(); !errors.Is(err, service.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	if err := store.Save("xyz"); err != nil {
		t.Fatal(err)
	}
	tok, err := store.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "xyz" || tok.Type() != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}
}
