package collection

import (
	"context"

	"github.com/kailas-cloud/fuzzdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	snapshotFn func(ctx context.Context, key string) (db.Snapshot, error)

	err     error
	deleted []string
	sadd    []string
	rpush   []string
	hset    map[string]string
	zadd    []db.ZMember
}

func (m *mockStore) Snapshot(ctx context.Context, key string) (db.Snapshot, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx, key)
	}
	return db.Snapshot{Type: "none"}, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return m.err
}

func (m *mockStore) SAdd(_ context.Context, _ string, members ...string) error {
	m.sadd = append(m.sadd, members...)
	return m.err
}

func (m *mockStore) RPush(_ context.Context, _ string, values ...string) error {
	m.rpush = append(m.rpush, values...)
	return m.err
}

func (m *mockStore) HSet(_ context.Context, _ string, fields map[string]string) error {
	if m.hset == nil {
		m.hset = map[string]string{}
	}
	for k, v := range fields {
		m.hset[k] = v
	}
	return m.err
}

func (m *mockStore) ZAdd(_ context.Context, _ string, members ...db.ZMember) error {
	m.zadd = append(m.zadd, members...)
	return m.err
}

func snapshotOf(typ string, values ...string) func(context.Context, string) (db.Snapshot, error) {
	return func(context.Context, string) (db.Snapshot, error) {
		return db.Snapshot{Type: typ, Values: values}, nil
	}
}
