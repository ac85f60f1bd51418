package storage

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	fileStore, err := OpenFile(filepath.Join(t.TempDir(), "boards"))
	if err != nil {
		t.Fatal(err)
	}
	return map[string]KV{
		"sqlite": openTestSQLite(t),
		"file":   fileStore,
		"memory": NewMemory(),
	}
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Get(ctx, "dashboard-tiles"); ok || err != nil {
				t.Fatalf("Get() on empty store = %v, %v", ok, err)
			}

			if err := kv.Set(ctx, "dashboard-tiles", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			if err := kv.Set(ctx, "dashboard-tiles:alice", []byte(`[]`)); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			if err := kv.Set(ctx, "dashboard-tiles:bob/../x", []byte(`[]`)); err != nil {
				t.Fatalf("Set() with odd key failed: %v", err)
			}
			kv.Set(ctx, "other", []byte(`1`))

			got, ok, err := kv.Get(ctx, "dashboard-tiles")
			if err != nil || !ok || string(got) != `[{"id":"a"}]` {
				t.Errorf("Get() = %q, %v, %v", got, ok, err)
			}

			// Overwrite
			kv.Set(ctx, "dashboard-tiles", []byte(`[]`))
			got, _, _ = kv.Get(ctx, "dashboard-tiles")
			if string(got) != `[]` {
				t.Errorf("overwrite not applied: %q", got)
			}

			keys, err := kv.Keys(ctx, "dashboard-tiles")
			if err != nil {
				t.Fatalf("Keys() failed: %v", err)
			}
			expected := []string{"dashboard-tiles", "dashboard-tiles:alice", "dashboard-tiles:bob/../x"}
			if !slices.Equal(keys, expected) {
				t.Errorf("Keys() = %v, expected %v", keys, expected)
			}

			if err := kv.Delete(ctx, "dashboard-tiles:alice"); err != nil {
				t.Fatalf("Delete() failed: %v", err)
			}
			if _, ok, _ := kv.Get(ctx, "dashboard-tiles:alice"); ok {
				t.Error("deleted key still present")
			}
			if err := kv.Delete(ctx, "never-set"); err != nil {
				t.Errorf("Delete() of missing key: %v", err)
			}
		})
	}
}

func TestOpenDSN(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{"sqlite:" + filepath.Join(dir, "a.db"), "*storage.SQLiteStore", false},
		{filepath.Join(dir, "b.db"), "*storage.SQLiteStore", false},
		{"file:" + filepath.Join(dir, "files"), "*storage.FileStore", false},
		{"memory:", "*storage.MemoryStore", false},
		{"postgres://localhost/db", "", true},
		{"redis://%zz", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.dsn, func(t *testing.T) {
			kv, err := Open(ctx, tc.dsn)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tc.dsn, err, tc.wantErr)
			}
			if err != nil {
				return
			}
			defer kv.Close()
			if got := typeName(kv); got != tc.want {
				t.Errorf("Open(%q) = %s, expected %s", tc.dsn, got, tc.want)
			}
		})
	}
}

func typeName(kv KV) string {
	switch kv.(type) {
	case *SQLiteStore:
		return "*storage.SQLiteStore"
	case *FileStore:
		return "*storage.FileStore"
	case *MemoryStore:
		return "*storage.MemoryStore"
	case *RedisStore:
		return "*storage.RedisStore"
	}
	return "unknown"
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte("abc")
	m.Set(ctx, "k", value)
	value[0] = 'X'

	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("store aliased caller's slice: %q", got)
	}
}

// TestRedisContract runs against a real server when DASHBOARD_TEST_REDIS is
// set, e.g. redis://localhost:6379/15.
func TestRedisContract(t *testing.T) {
	url := os.Getenv("DASHBOARD_TEST_REDIS")
	if url == "" {
		t.Skip("DASHBOARD_TEST_REDIS not set")
	}
	ctx := context.Background()

	kv, err := OpenRedis(ctx, url)
	if err != nil {
		t.Fatalf("OpenRedis() failed: %v", err)
	}
	defer kv.Close()

	key := "test:" + t.Name()
	defer kv.Delete(ctx, key)

	if err := kv.Set(ctx, key, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	got, ok, err := kv.Get(ctx, key)
	if err != nil || !ok || string(got) != `[]` {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
	keys, err := kv.Keys(ctx, "test:")
	if err != nil || !slices.Contains(keys, key) {
		t.Errorf("Keys() = %v, %v", keys, err)
	}
}
