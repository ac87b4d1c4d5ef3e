package collection

import (
	"fmt"
	"iter"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
)

// Candidate is one haystack string with the metadata of its kind.
// Meta is the hash field or the sorted-set score and is empty for sets and lists.
type Candidate struct {
	Haystack string
	Meta     string
}

// Source streams the candidates of one collection in a single forward pass.
// Calling All again restarts from the beginning.
type Source interface {
	Kind() Kind
	Len() int
	All() iter.Seq[Candidate]
}

// NewSource builds the source for a kind from the flat store reply:
// members for sets and lists, field/value pairs for hashes,
// member/score pairs for sorted sets.
func NewSource(kind Kind, raw []string) (Source, error) {
	switch kind {
	case None:
		return emptySource{}, nil
	case Set:
		return setSource{members: raw}, nil
	case List:
		return listSource{items: raw}, nil
	case Hash:
		if len(raw)%2 != 0 {
			return nil, fmt.Errorf("%w: hash reply has %d elements", domain.ErrMalformedReply, len(raw))
		}
		return hashSource{pairs: raw}, nil
	case SortedSet:
		if len(raw)%2 != 0 {
			return nil, fmt.Errorf("%w: zset reply has %d elements", domain.ErrMalformedReply, len(raw))
		}
		return sortedSetSource{pairs: raw}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCollectionKind, kind)
	}
}

type emptySource struct{}

func (emptySource) Kind() Kind { return None }
func (emptySource) Len() int   { return 0 }

func (emptySource) All() iter.Seq[Candidate] {
	return func(func(Candidate) bool) {}
}

// setSource yields members in store order, which is unspecified.
type setSource struct {
	members []string
}

func (s setSource) Kind() Kind { return Set }
func (s setSource) Len() int   { return len(s.members) }

func (s setSource) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, m := range s.members {
			if !yield(Candidate{Haystack: m}) {
				return
			}
		}
	}
}

// listSource yields items head to tail.
type listSource struct {
	items []string
}

func (s listSource) Kind() Kind { return List }
func (s listSource) Len() int   { return len(s.items) }

func (s listSource) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i := range s.items {
			if !yield(Candidate{Haystack: s.items[i]}) {
				return
			}
		}
	}
}

// hashSource matches against values and reports the field.
type hashSource struct {
	pairs []string // field, value, field, value, ...
}

func (s hashSource) Kind() Kind { return Hash }
func (s hashSource) Len() int   { return len(s.pairs) / 2 }

func (s hashSource) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i := 0; i+1 < len(s.pairs); i += 2 {
			if !yield(Candidate{Haystack: s.pairs[i+1], Meta: s.pairs[i]}) {
				return
			}
		}
	}
}

// sortedSetSource matches against members and reports the score verbatim.
type sortedSetSource struct {
	pairs []string // member, score, member, score, ...
}

func (s sortedSetSource) Kind() Kind { return SortedSet }
func (s sortedSetSource) Len() int   { return len(s.pairs) / 2 }

func (s sortedSetSource) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i := 0; i+1 < len(s.pairs); i += 2 {
			if !yield(Candidate{Haystack: s.pairs[i], Meta: s.pairs[i+1]}) {
				return
			}
		}
	}
}
