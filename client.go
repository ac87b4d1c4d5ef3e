package fuzzdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/db/driver"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/bigram"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
	collectionrepo "github.com/kailas-cloud/fuzzdex/internal/repository/collection"
	searchuc "github.com/kailas-cloud/fuzzdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultParallelism      = 8
)

// Client is the fuzzdex SDK entry point. It is safe for concurrent use.
type Client struct {
	store       db.Store
	search      *searchuc.Service
	obs         *observer
	limit       int
	assemble    []result.AssembleOption
	parallelism int
}

// New creates a Client and waits until the store answers.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:           driver.Redis,
		readinessTimeout: defaultReadinessTimeout,
		defaultLimit:     request.DefaultLimit,
		normalization:    bigram.None,
		parallelism:      defaultParallelism,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("fuzzdex: database address required (use WithRedis, WithValkey or WithGoRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := driver.Open(cfg.driver, driver.Options{
		Addrs:         cfg.addrs,
		Username:      cfg.username,
		Password:      cfg.password,
		DB:            cfg.db,
		OnScriptCache: obs.scriptCache,
	})
	if err != nil {
		return nil, fmt.Errorf("fuzzdex: %w", err)
	}

	if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("fuzzdex: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	form, err := bigram.ParseNormalization(string(cfg.normalization))
	if err != nil {
		return nil, fmt.Errorf("fuzzdex: %w", err)
	}
	if cfg.maxLimit < 0 || cfg.maxNeedle < 0 {
		return nil, fmt.Errorf("fuzzdex: %w: caps must not be negative (max limit %d, max needle %d)",
			ErrInvalidArgument, cfg.maxLimit, cfg.maxNeedle)
	}
	if cfg.defaultLimit <= 0 || (cfg.maxLimit > 0 && cfg.defaultLimit > cfg.maxLimit) {
		return nil, fmt.Errorf("fuzzdex: %w: default limit must be positive and within max limit %d, got %d",
			ErrInvalidArgument, cfg.maxLimit, cfg.defaultLimit)
	}
	if cfg.minScore < 0 || cfg.minScore > 1 {
		return nil, fmt.Errorf("fuzzdex: %w: min score must be within [0, 1], got %v", ErrInvalidArgument, cfg.minScore)
	}

	svc := searchuc.New(collectionrepo.New(store),
		searchuc.WithNormalization(form),
		searchuc.WithMaxLimit(cfg.maxLimit),
		searchuc.WithMaxNeedleBytes(cfg.maxNeedle),
		searchuc.WithMinScore(cfg.minScore),
		searchuc.WithTimeout(cfg.searchTimeout),
	)

	c := &Client{
		store:       store,
		search:      svc,
		obs:         obs,
		limit:       cfg.defaultLimit,
		parallelism: max(cfg.parallelism, 1),
	}
	if cfg.precision > 0 {
		c.assemble = append(c.assemble, result.WithPrecision(cfg.precision))
	}
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns the members of the collection at key most similar to
// needle. A missing key yields an empty result.
func (c *Client) Search(ctx context.Context, key, needle string, opts ...SearchOption) (Result, error) {
	start := time.Now()
	seq, err := c.run(ctx, key, needle, opts)
	c.obs.observe("search", key, start, err)
	if err != nil {
		return Result{}, err
	}
	return resultFromSequence(seq), nil
}

// SearchJSON is Search with the result encoded as a JSON array.
func (c *Client) SearchJSON(ctx context.Context, key, needle string, opts ...SearchOption) ([]byte, error) {
	start := time.Now()
	seq, err := c.run(ctx, key, needle, opts)
	var out []byte
	if err == nil {
		out, err = result.Marshal(result.Assemble(seq, c.assemble...))
	}
	c.obs.observe("search_json", key, start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SearchMany runs queries concurrently and returns their results in order.
// The first failure cancels the remaining queries.
func (c *Client) SearchMany(ctx context.Context, queries []Query) ([]Result, error) {
	start := time.Now()
	out := make([]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, q := range queries {
		opts := []SearchOption{MinScore(q.MinScore)}
		if q.Limit != 0 {
			opts = append(opts, Limit(q.Limit))
		}
		g.Go(func() error {
			seq, err := c.run(gctx, q.Key, q.Needle, opts)
			if err != nil {
				return fmt.Errorf("query %d (%q): %w", i, q.Key, err)
			}
			out[i] = resultFromSequence(seq)
			return nil
		})
	}
	err := g.Wait()
	c.obs.observe("search_many", "", start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) run(ctx context.Context, key, needle string, opts []SearchOption) (result.Sequence, error) {
	p := searchParams{limit: c.limit}
	for _, o := range opts {
		o(&p)
	}

	req, err := request.New(key, needle, p.limit, p.minScore)
	if err != nil {
		return result.Sequence{}, fmt.Errorf("fuzzdex: %w", err)
	}
	seq, err := c.search.Search(ctx, req)
	if err != nil {
		return result.Sequence{}, fmt.Errorf("fuzzdex: %w", err)
	}
	return seq, nil
}
