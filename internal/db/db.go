package db

import (
	"context"
	"time"
)

// Store is the database facade used by the service and the loader.
type Store interface {
	Pinger
	SnapshotReader
	CollectionWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Snapshot is the type and full contents of a key, read atomically.
// Values is flat: members for set/list, field/value pairs for hash,
// member/score pairs for zset. Type is "none" for a missing key.
type Snapshot struct {
	Type   string
	Values []string
}

// SnapshotReader reads a consistent view of one key.
type SnapshotReader interface {
	Snapshot(ctx context.Context, key string) (Snapshot, error)
}

// ZMember is a sorted-set member with its score.
type ZMember struct {
	Member string
	Score  float64
}

// CollectionWriter populates the four scannable collection kinds.
type CollectionWriter interface {
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	RPush(ctx context.Context, key string, values ...string) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	ZAdd(ctx context.Context, key string, members ...ZMember) error
}

// ScriptCacheHook is notified on every cached script call with
// "hit" (EVALSHA succeeded) or "miss" (body re-sent after NOSCRIPT).
type ScriptCacheHook func(result string)

// Script cache outcomes passed to ScriptCacheHook.
const (
	ScriptCacheHit  = "hit"
	ScriptCacheMiss = "miss"
)
