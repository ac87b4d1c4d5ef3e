package fuzzdex

import (
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/bigram"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

// Kind is the type of the searched key.
type Kind string

// Collection kinds. KindNone is reported for a key that does not exist.
const (
	KindNone      Kind = "none"
	KindSet       Kind = "set"
	KindList      Kind = "list"
	KindHash      Kind = "hash"
	KindSortedSet Kind = "zset"
)

// Normalization is the Unicode normal form applied before matching.
type Normalization = bigram.Normalization

// Normal forms.
const (
	NormalizationNone = bigram.None
	NormalizationNFC  = bigram.NFC
	NormalizationNFKC = bigram.NFKC
)

// Match is one search hit.
type Match struct {
	Haystack string
	// Meta is the hash field or sorted-set score the haystack is stored
	// under, empty for sets and lists.
	Meta       string
	Similarity float64
}

// Result is the ranked outcome of one search.
type Result struct {
	Kind    Kind
	Matches []Match
}

// Query is one search of a SearchMany call.
type Query struct {
	Key      string
	Needle   string
	Limit    int // 0 uses the client default
	MinScore float64
}

func resultFromSequence(seq result.Sequence) Result {
	out := Result{Kind: Kind(seq.Kind), Matches: make([]Match, len(seq.Matches))}
	for i := range seq.Matches {
		m := &seq.Matches[i]
		out.Matches[i] = Match{Haystack: m.Haystack(), Meta: m.Meta(), Similarity: m.Score()}
	}
	return out
}
