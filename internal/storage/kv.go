// Package storage persists dashboard boards in key-value backends: SQLite
// (pure Go, modernc.org/sqlite), Redis, JSON files, or memory.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// KV is the storage contract every backend satisfies.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys that start with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Open selects a backend from a DSN:
//
//	sqlite:<path>      SQLite database (also any bare path)
//	redis://...        Redis, see redis.ParseURL
//	rediss://...       Redis over TLS
//	file:<dir>         one JSON file per key
//	memory:            process memory, lost on exit
func Open(ctx context.Context, dsn string) (KV, error) {
	scheme, rest, found := strings.Cut(dsn, ":")
	if !found {
		return OpenSQLite(dsn)
	}

	switch strings.ToLower(scheme) {
	case "sqlite":
		return OpenSQLite(rest)
	case "redis", "rediss":
		return OpenRedis(ctx, dsn)
	case "file":
		return OpenFile(rest)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q in %q", scheme, dsn)
	}
}

var (
	_ KV = (*SQLiteStore)(nil)
	_ KV = (*RedisStore)(nil)
	_ KV = (*FileStore)(nil)
	_ KV = (*MemoryStore)(nil)
)
