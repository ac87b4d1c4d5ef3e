// Package driver opens a db.Store by driver name.
package driver

import (
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/db"
	dbGoRedis "github.com/kailas-cloud/fuzzdex/internal/db/goredis"
	dbRedis "github.com/kailas-cloud/fuzzdex/internal/db/redis"
)

// Driver names.
const (
	Redis   = "redis"   // rueidis
	Valkey  = "valkey"  // rueidis, same wire protocol
	GoRedis = "goredis" // go-redis v8
)

// Options are the connection settings shared by all drivers.
type Options struct {
	Addrs         []string
	Username      string
	Password      string
	DB            int
	OnScriptCache db.ScriptCacheHook
}

// Open creates a store for the named driver. Empty selects Redis.
func Open(name string, opts Options) (db.Store, error) {
	switch name {
	case "", Redis, Valkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:         opts.Addrs,
			Username:      opts.Username,
			Password:      opts.Password,
			DB:            opts.DB,
			OnScriptCache: opts.OnScriptCache,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", Redis, err)
		}
		return store, nil
	case GoRedis:
		store, err := dbGoRedis.NewStore(dbGoRedis.Config{
			Addrs:         opts.Addrs,
			Username:      opts.Username,
			Password:      opts.Password,
			DB:            opts.DB,
			OnScriptCache: opts.OnScriptCache,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", GoRedis, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", name)
	}
}
