package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/bigram"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
	"github.com/kailas-cloud/fuzzdex/internal/logger"
)

// Status labels reported to the Recorder.
const (
	StatusOK              = "ok"
	StatusInvalidArgument = "invalid_argument"
	StatusUnsupportedKind = "unsupported_kind"
	StatusHostUnavailable = "host_unavailable"
	StatusInvalidEncoding = "invalid_encoding"
	StatusError           = "error"
	kindUnknown           = "unknown"
)

// Service runs fuzzy searches against stored collections.
type Service struct {
	loader    CollectionLoader
	recorder  Recorder
	form      bigram.Normalization
	maxLimit  int
	maxNeedle int
	minScore  float64
	timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder reports every search outcome to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithNormalization applies a Unicode normal form to needle and candidates.
func WithNormalization(form bigram.Normalization) Option {
	return func(s *Service) { s.form = form }
}

// WithMaxLimit caps the number of results a single search may ask for.
// Zero or less means no cap.
func WithMaxLimit(n int) Option {
	return func(s *Service) { s.maxLimit = max(n, 0) }
}

// WithMaxNeedleBytes caps the needle size in bytes. Zero or less means no cap.
func WithMaxNeedleBytes(n int) Option {
	return func(s *Service) { s.maxNeedle = max(n, 0) }
}

// WithMinScore sets a floor applied on top of each request's own threshold.
func WithMinScore(v float64) Option {
	return func(s *Service) { s.minScore = v }
}

// WithTimeout bounds the store round-trip of each search.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// New creates a search service.
func New(loader CollectionLoader, opts ...Option) *Service {
	s := &Service{loader: loader, form: bigram.None}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search loads the collection named by req and returns its best matches.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Sequence, error) {
	start := time.Now()
	seq, stats, err := s.search(ctx, req)

	kind := kindUnknown
	if err == nil {
		kind = seq.Kind.String()
	}
	status := statusOf(err)
	if s.recorder != nil {
		s.recorder.ObserveSearch(kind, status, time.Since(start), stats.Scanned)
	}

	logger.FromContext(ctx).Debug("fuzzy search",
		zap.String("key", req.Key()),
		zap.String("kind", kind),
		zap.String("status", status),
		zap.Int("limit", req.Limit()),
		zap.Int("scanned", stats.Scanned),
		zap.Int("offered", stats.Offered),
		zap.Int("returned", len(seq.Matches)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return seq, err
}

func (s *Service) search(ctx context.Context, req request.Request) (result.Sequence, match.Stats, error) {
	if s.maxLimit > 0 && req.Limit() > s.maxLimit {
		return result.Sequence{}, match.Stats{}, fmt.Errorf(
			"%w: max results must be at most %d, got %d", domain.ErrInvalidArgument, s.maxLimit, req.Limit())
	}
	if s.maxNeedle > 0 && len(req.Needle()) > s.maxNeedle {
		return result.Sequence{}, match.Stats{}, fmt.Errorf(
			"%w: needle too long (max %d bytes)", domain.ErrInvalidArgument, s.maxNeedle)
	}

	loadCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	src, err := s.loader.Load(loadCtx, req.Key())
	if err != nil {
		return result.Sequence{}, match.Stats{}, fmt.Errorf("load %q: %w", req.Key(), err)
	}

	seq, stats, err := match.Run(src, req.Needle(), match.Options{
		Limit:         req.Limit(),
		MinScore:      max(req.MinScore(), s.minScore),
		Normalization: s.form,
	})
	if err != nil {
		return result.Sequence{}, stats, fmt.Errorf("match %q: %w", req.Key(), err)
	}
	return seq, stats, nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, domain.ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, domain.ErrUnsupportedCollectionKind):
		return StatusUnsupportedKind
	case errors.Is(err, domain.ErrHostUnavailable):
		return StatusHostUnavailable
	case errors.Is(err, domain.ErrInvalidEncoding):
		return StatusInvalidEncoding
	default:
		return StatusError
	}
}
