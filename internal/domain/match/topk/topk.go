// Package topk keeps the K best matches of a single forward scan.
package topk

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

// DefaultLimit is K when the caller does not specify one.
const DefaultLimit = 10

type entry struct {
	match result.Match
	seq   uint64 // offer order, for first-seen tie-breaks
}

// Selector is a bounded min-heap of matches. The root is the next eviction
// victim: the lowest score, and among equal scores the earliest offered.
// Heap operations are inlined instead of going through container/heap to
// avoid boxing every entry in an interface.
type Selector struct {
	k    int
	heap []entry
	seq  uint64
}

// New creates a selector retaining at most k matches.
func New(k int) (*Selector, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidArgument, k)
	}
	return &Selector{k: k, heap: make([]entry, 0, min(k, 1024))}, nil
}

// Len returns the number of retained matches.
func (s *Selector) Len() int { return len(s.heap) }

// Offer considers a match. While fewer than k are retained it is kept;
// afterwards it replaces the current minimum only if its score is strictly
// higher. It reports whether the match was retained.
func (s *Selector) Offer(m result.Match) bool {
	e := entry{match: m, seq: s.seq}
	s.seq++

	if len(s.heap) < s.k {
		s.heap = append(s.heap, e)
		s.up(len(s.heap) - 1)
		return true
	}
	if m.Score() <= s.heap[0].match.Score() {
		return false
	}
	s.heap[0] = e
	s.down(0)
	return true
}

// Finalize returns the retained matches by descending score, ties in offer order.
// The selector can keep receiving offers afterwards.
func (s *Selector) Finalize() []result.Match {
	sorted := slices.Clone(s.heap)
	slices.SortFunc(sorted, func(a, b entry) int {
		if c := cmp.Compare(b.match.Score(), a.match.Score()); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]result.Match, len(sorted))
	for i := range sorted {
		out[i] = sorted[i].match
	}
	return out
}

func (s *Selector) less(i, j int) bool {
	a, b := s.heap[i].match.Score(), s.heap[j].match.Score()
	if a != b {
		return a < b
	}
	return s.heap[i].seq < s.heap[j].seq
}

func (s *Selector) up(j int) {
	for j > 0 {
		i := (j - 1) / 2 // parent
		if !s.less(j, i) {
			break
		}
		s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
		j = i
	}
}

func (s *Selector) down(i int) {
	n := len(s.heap)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		j := l
		if r := l + 1; r < n && s.less(r, l) {
			j = r
		}
		if !s.less(j, i) {
			return
		}
		s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
		i = j
	}
}
