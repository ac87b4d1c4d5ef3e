package request

import (
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/topk"
)

// DefaultLimit is the number of results when the caller does not ask for one.
const DefaultLimit = topk.DefaultLimit

// Request is a validated fuzzy search.
type Request struct {
	key      string
	needle   string
	limit    int
	minScore float64
}

// New validates search parameters. The needle may be empty; it then only
// matches empty members exactly. Limit and needle size are unbounded here;
// operator caps belong to the search service.
func New(key, needle string, limit int, minScore float64) (Request, error) {
	if key == "" {
		return Request{}, fmt.Errorf("%w: collection key is required", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		return Request{}, fmt.Errorf("%w: max results must be positive, got %d", domain.ErrInvalidArgument, limit)
	}
	if minScore < 0 || minScore > 1 {
		return Request{}, fmt.Errorf("%w: min score must be within [0, 1], got %v", domain.ErrInvalidArgument, minScore)
	}
	return Request{key: key, needle: needle, limit: limit, minScore: minScore}, nil
}

// Key returns the collection key.
func (r *Request) Key() string { return r.key }

// Needle returns the query string.
func (r *Request) Needle() string { return r.needle }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }

// MinScore returns the similarity threshold.
func (r *Request) MinScore() float64 { return r.minScore }
