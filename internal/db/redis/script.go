package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/fuzzdex/internal/db"
)

// EvalCached runs a script by SHA and falls back to sending the body once
// when the server has not cached it yet (NOSCRIPT). Other errors are
// returned unchanged, without retry.
func (s *Store) EvalCached(ctx context.Context, script *db.Script, key string, args ...string) (rueidis.RedisResult, error) {
	cmd := s.b().Evalsha().Sha1(script.SHA()).Numkeys(1).Key(key).Arg(args...).Build()
	res := s.do(ctx, cmd)
	err := res.Error()
	if err == nil {
		s.observeCache(db.ScriptCacheHit)
		return res, nil
	}
	if re, ok := rueidis.IsRedisErr(err); !ok || !re.IsNoScript() {
		return res, wrapErr(db.OpEvalSHA, err)
	}

	s.observeCache(db.ScriptCacheMiss)
	cmd = s.b().Eval().Script(script.Body()).Numkeys(1).Key(key).Arg(args...).Build()
	res = s.do(ctx, cmd)
	if err := res.Error(); err != nil {
		return res, wrapErr(db.OpEval, err)
	}
	return res, nil
}

// Snapshot reads the type and contents of key atomically.
func (s *Store) Snapshot(ctx context.Context, key string) (db.Snapshot, error) {
	res, err := s.EvalCached(ctx, db.SnapshotScript, key)
	if err != nil {
		return db.Snapshot{}, err
	}

	arr, err := res.ToArray()
	if err != nil || len(arr) != 2 {
		return db.Snapshot{}, &db.Error{Op: db.OpEvalSHA, Err: fmt.Errorf("%w: snapshot reply", db.ErrMalformedReply)}
	}
	typ, err := arr[0].ToString()
	if err != nil {
		return db.Snapshot{}, &db.Error{Op: db.OpEvalSHA, Err: fmt.Errorf("%w: snapshot type: %w", db.ErrMalformedReply, err)}
	}
	values, err := arr[1].AsStrSlice()
	if err != nil {
		return db.Snapshot{}, &db.Error{Op: db.OpEvalSHA, Err: fmt.Errorf("%w: snapshot values: %w", db.ErrMalformedReply, err)}
	}

	snap, err := db.ParseSnapshot(typ, values)
	if err != nil {
		return db.Snapshot{}, wrapErr(db.OpEvalSHA, err)
	}
	return snap, nil
}
