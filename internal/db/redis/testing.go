package redis

import (
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/fuzzdex/internal/db"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client, hook ...db.ScriptCacheHook) *Store {
	s := &Store{client: c}
	if len(hook) > 0 {
		s.onCache = hook[0]
	}
	return s
}
