// Package goredis implements db.Store on github.com/go-redis/redis/v8.
// It is the alternative to the rueidis driver for deployments that already
// standardize on go-redis (sentinel, cluster via UniversalClient).
package goredis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kailas-cloud/fuzzdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters.
type Config struct {
	Addrs         []string
	Username      string
	Password      string
	DB            int
	DialTimeout   time.Duration
	MaxRetries    int
	OnScriptCache db.ScriptCacheHook
}

// Store implements db.Store via go-redis.
type Store struct {
	client  redis.UniversalClient
	onCache db.ScriptCacheHook
}

// NewStore creates a go-redis backed store. A single address yields a plain
// client; several addresses yield a cluster client.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       cfg.Addrs,
		Username:    cfg.Username,
		Password:    cfg.Password, // pragma: allowlist secret
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		MaxRetries:  cfg.MaxRetries,
	})

	return &Store{client: client, onCache: cfg.OnScriptCache}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return wrapErr(db.OpPing, err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	_ = s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// EvalCached runs a script by SHA, re-sending the body once on NOSCRIPT.
func (s *Store) EvalCached(ctx context.Context, script *db.Script, key string, args ...any) (any, error) {
	val, err := s.client.EvalSha(ctx, script.SHA(), []string{key}, args...).Result()
	if err == nil {
		s.observeCache(db.ScriptCacheHit)
		return val, nil
	}
	var redisErr redis.Error
	if !errors.As(err, &redisErr) || !db.IsNoScript(redisErr.Error()) {
		return nil, wrapErr(db.OpEvalSHA, err)
	}

	s.observeCache(db.ScriptCacheMiss)
	val, err = s.client.Eval(ctx, script.Body(), []string{key}, args...).Result()
	if err != nil {
		return nil, wrapErr(db.OpEval, err)
	}
	return val, nil
}

// Snapshot reads the type and contents of key atomically.
func (s *Store) Snapshot(ctx context.Context, key string) (db.Snapshot, error) {
	val, err := s.EvalCached(ctx, db.SnapshotScript, key)
	if err != nil {
		return db.Snapshot{}, err
	}
	snap, err := parseSnapshot(val)
	if err != nil {
		return db.Snapshot{}, &db.Error{Op: db.OpEvalSHA, Err: err}
	}
	return snap, nil
}

func parseSnapshot(val any) (db.Snapshot, error) {
	arr, ok := val.([]any)
	if !ok || len(arr) != 2 {
		return db.Snapshot{}, fmt.Errorf("%w: snapshot reply is %T", db.ErrMalformedReply, val)
	}
	typ, ok := arr[0].(string)
	if !ok {
		return db.Snapshot{}, fmt.Errorf("%w: snapshot type is %T", db.ErrMalformedReply, arr[0])
	}
	raw, ok := arr[1].([]any)
	if !ok {
		return db.Snapshot{}, fmt.Errorf("%w: snapshot values are %T", db.ErrMalformedReply, arr[1])
	}
	values := make([]string, len(raw))
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			return db.Snapshot{}, fmt.Errorf("%w: snapshot value %d is %T", db.ErrMalformedReply, i, v)
		}
		values[i] = str
	}
	return db.ParseSnapshot(typ, values)
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return wrapErr(db.OpDel, err)
	}
	return nil
}

// SAdd adds members to a set.
func (s *Store) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if err := s.client.SAdd(ctx, key, toAny(members)...).Err(); err != nil {
		return wrapErr(db.OpSAdd, err)
	}
	return nil
}

// RPush appends values to a list.
func (s *Store) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	if err := s.client.RPush(ctx, key, toAny(values)...).Err(); err != nil {
		return wrapErr(db.OpRPush, err)
	}
	return nil
}

// HSet sets hash fields.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, key, args...).Err(); err != nil {
		return wrapErr(db.OpHSet, err)
	}
	return nil
}

// ZAdd adds scored members to a sorted set.
func (s *Store) ZAdd(ctx context.Context, key string, members ...db.ZMember) error {
	if len(members) == 0 {
		return nil
	}
	zs := make([]*redis.Z, len(members))
	for i, m := range members {
		zs[i] = &redis.Z{Score: m.Score, Member: m.Member}
	}
	if err := s.client.ZAdd(ctx, key, zs...).Err(); err != nil {
		return wrapErr(db.OpZAdd, err)
	}
	return nil
}

func (s *Store) observeCache(result string) {
	if s.onCache != nil {
		s.onCache(result)
	}
}

// wrapErr builds the db.Error for op, tagging server error replies with
// db.ErrServer unless they report a temporarily unavailable server.
func wrapErr(op string, err error) error {
	var redisErr redis.Error
	if !errors.Is(err, redis.Nil) && errors.As(err, &redisErr) && !db.IsUnavailableReply(redisErr.Error()) {
		err = fmt.Errorf("%w: %w", db.ErrServer, err)
	}
	return &db.Error{Op: op, Err: err}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
