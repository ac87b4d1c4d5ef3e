// Package bigram tokenizes strings into code-point bigram sets and scores
// them with the Jaccard index.
package bigram

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
)

// Normalization selects the Unicode normal form applied before tokenizing.
type Normalization string

const (
	// None keeps strings as stored.
	None Normalization = "none"
	// NFC composes canonically equivalent sequences.
	NFC Normalization = "nfc"
	// NFKC composes and folds compatibility variants (full-width forms, ligatures).
	NFKC Normalization = "nfkc"
)

// ParseNormalization validates a normalization name. Empty means None.
func ParseNormalization(s string) (Normalization, error) {
	switch Normalization(s) {
	case "", None:
		return None, nil
	case NFC, NFKC:
		return Normalization(s), nil
	default:
		return "", fmt.Errorf("%w: unknown normalization %q", domain.ErrInvalidArgument, s)
	}
}

// Set is the set of distinct adjacent code-point pairs of a string.
// Each pair is packed into a uint64 (first rune in the high half) and the
// slice is kept sorted, so intersection is a linear merge.
type Set struct {
	src   string
	grams []uint64
}

// Len returns the number of distinct bigrams.
func (s Set) Len() int { return len(s.grams) }

// Source returns the (normalized) string the set was built from.
func (s Set) Source() string { return s.src }

// Tokenizer builds bigram sets while reusing one scratch buffer.
// A Set returned by Tokenize aliases that buffer and is only valid until the
// next call; use Tokenize (the package function) for a set that must outlive it.
// A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	form Normalization
	buf  []uint64
}

// NewTokenizer creates a tokenizer applying the given normalization.
func NewTokenizer(form Normalization) *Tokenizer {
	if form == "" {
		form = None
	}
	return &Tokenizer{form: form}
}

// Tokenize builds the bigram set of s into the tokenizer's buffer.
func (t *Tokenizer) Tokenize(s string) (Set, error) {
	if !utf8.ValidString(s) {
		return Set{}, fmt.Errorf("%w: %q", domain.ErrInvalidEncoding, s)
	}
	s = t.normalize(s)

	t.buf = t.buf[:0]
	prev, first := rune(0), true
	for _, r := range s {
		if !first {
			t.buf = append(t.buf, pack(prev, r))
		}
		prev, first = r, false
	}

	slices.Sort(t.buf)
	t.buf = slices.Compact(t.buf)
	return Set{src: s, grams: t.buf}, nil
}

func (t *Tokenizer) normalize(s string) string {
	switch t.form {
	case NFC:
		return norm.NFC.String(s)
	case NFKC:
		return norm.NFKC.String(s)
	default:
		return s
	}
}

// Tokenize returns an independently owned bigram set of s without normalization.
func Tokenize(s string) (Set, error) {
	return NewTokenizer(None).Tokenize(s)
}

// Score returns the Jaccard index |a ∩ b| / |a ∪ b| of two bigram sets.
//
// Strings shorter than two code points have no bigrams, and the index is
// 0/0 for them. In that case Score falls back to exact equality of the
// source strings: 1 when equal, 0 otherwise.
func Score(a, b Set) float64 {
	if len(a.grams) == 0 || len(b.grams) == 0 {
		if a.src == b.src {
			return 1
		}
		return 0
	}

	inter := 0
	i, j := 0, 0
	for i < len(a.grams) && j < len(b.grams) {
		switch {
		case a.grams[i] == b.grams[j]:
			inter++
			i++
			j++
		case a.grams[i] < b.grams[j]:
			i++
		default:
			j++
		}
	}

	return float64(inter) / float64(len(a.grams)+len(b.grams)-inter)
}

// Similarity tokenizes both strings and scores them.
func Similarity(a, b string) (float64, error) {
	sa, err := Tokenize(a)
	if err != nil {
		return 0, err
	}
	sb, err := Tokenize(b)
	if err != nil {
		return 0, err
	}
	return Score(sa, sb), nil
}

func pack(a, b rune) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}
