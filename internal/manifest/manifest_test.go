package manifest

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTemp(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func entry(key string) Entry {
	return Entry{
		Key:        key,
		Formula:    "x^" + key,
		Mode:       "inline",
		Artifact:   "img/tex_" + key + ".png",
		Width:      30,
		Height:     12,
		DPI:        300,
		RenderedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// TestStore - Put, Get, List, Delete
// ---------------------------------------------------------------------------

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	want := entry("a1")

	if err := s.Put(want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := s.Get("a1")
	if err != nil || !ok {
		t.Fatalf("Get() = (_, %v, %v), want found", ok, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if _, ok, err := s.Get("missing"); ok || err != nil {
		t.Errorf("Get(missing) = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}

func TestStore_PutEmptyKey(t *testing.T) {
	t.Parallel()

	if err := openTemp(t).Put(Entry{}); err == nil {
		t.Error("Put() with empty key succeeded")
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	for _, k := range []string{"c", "a", "b"} {
		if err := s.Put(entry(k)); err != nil {
			t.Fatalf("Put(%s) error = %v", k, err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var keys []string
	for _, e := range list {
		keys = append(keys, e.Key)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("List() keys mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete("a", "zz"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, _ = s.List()
	if len(list) != 2 {
		t.Errorf("len(List()) after delete = %d, want 2", len(list))
	}
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	for _, k := range []string{"keep1", "drop1", "keep2", "drop2"} {
		if err := s.Put(entry(k)); err != nil {
			t.Fatalf("Put(%s) error = %v", k, err)
		}
	}

	removed, err := s.Prune(func(e Entry) bool { return e.Key[:4] == "keep" })
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("Prune() removed %d entries, want 2", len(removed))
	}

	list, _ := s.List()
	for _, e := range list {
		if e.Key[:4] != "keep" {
			t.Errorf("entry %s survived prune", e.Key)
		}
	}
	if len(list) != 2 {
		t.Errorf("len(List()) = %d, want 2", len(list))
	}
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Put(entry("k")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	if _, ok, _ := s.Get("k"); !ok {
		t.Error("entry lost after reopen")
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "manifest.db"))
	if err == nil {
		t.Fatal("Open() into missing directory succeeded")
	}
	if errors.Is(err, ErrLocked) {
		t.Errorf("Open() error = %v, should not be ErrLocked", err)
	}
}
