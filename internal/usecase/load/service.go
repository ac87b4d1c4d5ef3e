// Package load populates collections from newline-separated word lists.
package load

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	domcol "github.com/kailas-cloud/fuzzdex/internal/domain/collection"
	"github.com/kailas-cloud/fuzzdex/internal/logger"
)

// Options controls one load.
type Options struct {
	Kind      domcol.Kind
	Every     int  // keep every Nth line; 1 keeps all
	BatchSize int  // words per write
	Workers   int  // concurrent batch writes for set, hash and zset
	Append    bool // keep the existing key instead of replacing it
}

// Stats describes a finished load.
type Stats struct {
	Lines   int
	Written int
	Batches int
}

// Service loads word lists.
type Service struct {
	writer CollectionWriter
}

// New creates a load service.
func New(writer CollectionWriter) *Service {
	return &Service{writer: writer}
}

// Load reads r line by line and writes the sampled words into key.
// Hash fields and sorted-set scores are the 1-based position of the word in
// the load, so every kind preserves the input order. Lists are written
// sequentially; other kinds write batches concurrently.
func (s *Service) Load(ctx context.Context, key string, r io.Reader, opts Options) (Stats, error) {
	if err := validate(key, &opts); err != nil {
		return Stats{}, err
	}
	log := logger.FromContext(ctx).With(zap.String("key", key), zap.String("kind", opts.Kind.String()))

	if !opts.Append {
		if err := s.writer.Drop(ctx, key); err != nil {
			return Stats{}, fmt.Errorf("drop %q: %w", key, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if opts.Kind == domcol.List {
		workers = 1
	}
	g.SetLimit(workers)

	var stats Stats
	batch := make([]string, 0, opts.BatchSize)
	flush := func() {
		items, offset := batch, stats.Written
		stats.Written += len(items)
		stats.Batches++
		batch = make([]string, 0, opts.BatchSize)
		g.Go(func() error {
			if err := s.writer.Append(gctx, key, opts.Kind, items, offset); err != nil {
				return fmt.Errorf("batch at %d: %w", offset, err)
			}
			return nil
		})
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		stats.Lines++
		if (stats.Lines-1)%opts.Every != 0 {
			continue
		}
		word := strings.TrimRight(sc.Text(), "\r")
		if word == "" {
			continue
		}
		batch = append(batch, word)
		if len(batch) == opts.BatchSize {
			flush()
		}
		if gctx.Err() != nil {
			break
		}
	}
	if len(batch) > 0 && gctx.Err() == nil {
		flush()
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read words: %w", err)
	}

	log.Info("collection loaded",
		zap.Int("lines", stats.Lines),
		zap.Int("written", stats.Written),
		zap.Int("batches", stats.Batches),
	)
	return stats, nil
}

func validate(key string, opts *Options) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", domain.ErrInvalidArgument)
	}
	if opts.Kind == domcol.None {
		return fmt.Errorf("%w: cannot load into %q", domain.ErrUnsupportedCollectionKind, opts.Kind)
	}
	if opts.Every <= 0 {
		opts.Every = 1
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return nil
}
