// Package match runs the scan-score-select pass of a fuzzy search.
//
// Run is pure and synchronous: it tokenizes the needle once, walks the
// source in a single forward pass, scores each candidate against the needle
// and keeps the best K. It takes no locks and assumes the source is an
// isolated view of the collection; callers that read from a live store must
// provide that isolation (the repository reads an atomic snapshot).
package match

import (
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/collection"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/bigram"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/topk"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

// Options controls one pass.
type Options struct {
	Limit         int                  // K, must be positive
	MinScore      float64              // candidates below are dropped, in [0, 1]
	Normalization bigram.Normalization // applied to needle and candidates
}

// Stats describes what a pass did.
type Stats struct {
	Scanned int // candidates read from the source
	Offered int // candidates that shared at least one bigram (or were equal)
}

// Run searches src for needle. Candidates with a zero score are never
// returned. An invalid UTF-8 candidate aborts the whole pass.
func Run(src collection.Source, needle string, opts Options) (result.Sequence, Stats, error) {
	var stats Stats

	if opts.MinScore < 0 || opts.MinScore > 1 {
		return result.Sequence{}, stats, fmt.Errorf(
			"%w: min score must be within [0, 1], got %v", domain.ErrInvalidArgument, opts.MinScore)
	}
	sel, err := topk.New(opts.Limit)
	if err != nil {
		return result.Sequence{}, stats, err
	}

	query, err := bigram.NewTokenizer(opts.Normalization).Tokenize(needle)
	if err != nil {
		return result.Sequence{}, stats, fmt.Errorf("needle: %w", err)
	}

	tok := bigram.NewTokenizer(opts.Normalization)
	for c := range src.All() {
		stats.Scanned++

		set, err := tok.Tokenize(c.Haystack)
		if err != nil {
			return result.Sequence{}, stats, fmt.Errorf("candidate %d: %w", stats.Scanned, err)
		}

		score := bigram.Score(query, set)
		if score == 0 || score < opts.MinScore {
			continue
		}
		stats.Offered++
		sel.Offer(result.New(c.Haystack, c.Meta, score))
	}

	return result.Sequence{Kind: src.Kind(), Matches: sel.Finalize()}, stats, nil
}
