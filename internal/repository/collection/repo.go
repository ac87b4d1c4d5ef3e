package collection

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/domain"
	domcol "github.com/kailas-cloud/fuzzdex/internal/domain/collection"
)

// Store is the consumer contract for collection storage.
type Store interface {
	db.SnapshotReader
	db.CollectionWriter
}

// Repo reads collections as candidate sources and writes word batches.
type Repo struct {
	store Store
}

// New creates a collection repository.
func New(store Store) *Repo {
	return &Repo{store: store}
}

// Load reads an atomic snapshot of key and wraps it in the source for its kind.
// A missing key loads as an empty source.
func (r *Repo) Load(ctx context.Context, key string) (domcol.Source, error) {
	snap, err := r.store.Snapshot(ctx, key)
	if err != nil {
		return nil, storeErr(err)
	}

	kind, err := domcol.ParseKind(snap.Type)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", key, err)
	}

	src, err := domcol.NewSource(kind, snap.Values)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", key, err)
	}
	return src, nil
}

// Drop deletes key.
func (r *Repo) Drop(ctx context.Context, key string) error {
	if err := r.store.Del(ctx, key); err != nil {
		return storeErr(err)
	}
	return nil
}

// Append writes items into key as the given kind. offset is the number of
// items already written; hashes use the 1-based position as field name and
// sorted sets as score, so a list of words keeps its order in every kind.
func (r *Repo) Append(ctx context.Context, key string, kind domcol.Kind, items []string, offset int) error {
	var err error
	switch kind {
	case domcol.Set:
		err = r.store.SAdd(ctx, key, items...)
	case domcol.List:
		err = r.store.RPush(ctx, key, items...)
	case domcol.Hash:
		fields := make(map[string]string, len(items))
		for i, it := range items {
			fields[strconv.Itoa(offset+i+1)] = it
		}
		err = r.store.HSet(ctx, key, fields)
	case domcol.SortedSet:
		members := make([]db.ZMember, len(items))
		for i, it := range items {
			members[i] = db.ZMember{Member: it, Score: float64(offset + i + 1)}
		}
		err = r.store.ZAdd(ctx, key, members...)
	default:
		return fmt.Errorf("%w: cannot write %q", domain.ErrUnsupportedCollectionKind, kind)
	}
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// storeErr maps a store failure to a domain error. Error replies from a
// reachable server keep only the driver cause; anything else means the
// host could not serve the call.
func storeErr(err error) error {
	switch {
	case errors.Is(err, db.ErrMalformedReply):
		return fmt.Errorf("%w: %w", domain.ErrMalformedReply, err)
	case errors.Is(err, db.ErrServer):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrHostUnavailable, err)
	}
}
