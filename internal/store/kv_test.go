package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetSet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	if _, found, err := s.Get("missing"); err != nil || found {
		t.Errorf("missing key: found=%v err=%v", found, err)
	}

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, found, err := s.Get("k")
	if err != nil || !found || got != "v1" {
		t.Errorf("get after set: %q found=%v err=%v", got, found, err)
	}

	// Overwrite replaces.
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _, _ := s.Get("k"); got != "v2" {
		t.Errorf("expected overwrite, got %q", got)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Get("k"); found {
		t.Error("key still present after delete")
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("deleting a missing key must not error: %v", err)
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, k := range []string{"session:b", "session:a", "settings"} {
		if err := s.Set(k, "{}"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys("session:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "session:a" || keys[1] != "session:b" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", "persisted"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if got, found, _ := s2.Get("k"); !found || got != "persisted" {
		t.Errorf("value lost across reopen: %q found=%v", got, found)
	}
}
