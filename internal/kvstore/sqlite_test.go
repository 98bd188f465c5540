package kvstore

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStringRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetString("alarm.chainKey", "a1_20260901_0700"); err != nil {
		t.Fatalf("set string: %v", err)
	}
	got, err := store.GetString("alarm.chainKey")
	if err != nil {
		t.Fatalf("get string: %v", err)
	}
	if got != "a1_20260901_0700" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestSQLiteOverwriteLastWriteWins(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetInt("alarm.snooze.x", 1); err != nil {
		t.Fatalf("set int: %v", err)
	}
	if err := store.SetInt("alarm.snooze.x", 2); err != nil {
		t.Fatalf("overwrite int: %v", err)
	}
	got, err := store.GetInt("alarm.snooze.x")
	if err != nil {
		t.Fatalf("get int: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestSQLiteMissingKeyIsNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.GetString("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetInt("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDelete(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetString("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetString("k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// deleting an absent key is not an error
	if err := store.Delete("k"); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
}

func TestMemoryStoreMatchesContract(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.GetInt("n"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.SetInt("n", 7); err != nil {
		t.Fatalf("set int: %v", err)
	}
	got, err := store.GetInt("n")
	if err != nil || got != 7 {
		t.Fatalf("expected 7, got %d err %v", got, err)
	}
	if err := store.Delete("n"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d keys", store.Len())
	}
}
