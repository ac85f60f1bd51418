package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSQLiteNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "board", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	store.Close()

	store, err = OpenSQLite(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	got, ok, err := store.Get(ctx, "board")
	if err != nil || !ok || string(got) != `[]` {
		t.Errorf("Get() after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestSQLiteRevisions(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	for i := 1; i <= 3; i++ {
		if err := store.Set(ctx, "board", []byte(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
	}
	store.Set(ctx, "other", []byte("x"))

	revs, err := store.Revisions(ctx, "board", 10)
	if err != nil {
		t.Fatalf("Revisions() failed: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("Expected 2 revisions, got %d", len(revs))
	}
	// Newest first
	if string(revs[0].Value) != "v2" || string(revs[1].Value) != "v1" {
		t.Errorf("unexpected revision order: %q, %q", revs[0].Value, revs[1].Value)
	}
	if revs[0].CreatedAt.IsZero() {
		t.Error("revision timestamp was not parsed")
	}

	rev, ok, err := store.Revision(ctx, revs[1].ID)
	if err != nil || !ok || string(rev.Value) != "v1" || rev.Key != "board" {
		t.Errorf("Revision() = %+v, %v, %v", rev, ok, err)
	}
	if _, ok, _ := store.Revision(ctx, 9999); ok {
		t.Error("unknown revision should not be found")
	}
}

func TestSQLiteRevisionsPruned(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)
	store.revisions = 3

	for i := 0; i < 10; i++ {
		store.Set(ctx, "board", []byte(fmt.Sprintf("v%d", i)))
	}

	revs, err := store.Revisions(ctx, "board", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(revs) != 3 {
		t.Errorf("Expected 3 revisions after pruning, got %d", len(revs))
	}
	if string(revs[0].Value) != "v8" {
		t.Errorf("newest revision = %q, expected v8", revs[0].Value)
	}
}

func TestSQLiteDeleteDropsRevisions(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	store.Set(ctx, "board", []byte("a"))
	store.Set(ctx, "board", []byte("b"))
	if err := store.Delete(ctx, "board"); err != nil {
		t.Fatal(err)
	}

	revs, _ := store.Revisions(ctx, "board", 10)
	if len(revs) != 0 {
		t.Errorf("Expected no revisions after delete, got %d", len(revs))
	}
}
