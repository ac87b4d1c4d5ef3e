package result

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/fuzzdex/internal/domain/collection"
)

// Sequence is the ranked output of one search.
// Every match shares the metadata shape of Kind.
type Sequence struct {
	Kind    collection.Kind
	Matches []Match
}

// Record is the wire form of a match.
// Score and Field are mutually exclusive and set according to the collection kind.
type Record struct {
	Haystack string  `json:"haystack"`
	Score    *string `json:"score,omitempty"`
	Field    *string `json:"field,omitempty"`
	Match    float64 `json:"match"`
}

// AssembleOption configures Assemble.
type AssembleOption func(*assembleConfig)

type assembleConfig struct {
	precision int
}

// WithPrecision rounds the similarity to n significant digits.
// Zero keeps native float64 precision.
func WithPrecision(n int) AssembleOption {
	return func(c *assembleConfig) {
		c.precision = n
	}
}

// LegacyPrecision is the number of significant digits emitted by
// Lua cjson encoders, e.g. 0.33333333333333.
const LegacyPrecision = 14

// Assemble converts the sequence into records in the same order.
func Assemble(seq Sequence, opts ...AssembleOption) []Record {
	cfg := assembleConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	records := make([]Record, 0, len(seq.Matches))
	for i := range seq.Matches {
		m := &seq.Matches[i]
		rec := Record{
			Haystack: m.Haystack(),
			Match:    round(m.Score(), cfg.precision),
		}
		switch seq.Kind.MetadataField() {
		case "score":
			meta := m.Meta()
			rec.Score = &meta
		case "field":
			meta := m.Meta()
			rec.Field = &meta
		}
		records = append(records, rec)
	}
	return records
}

// Marshal serializes records as a JSON array. An empty input encodes as [].
func Marshal(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return data, nil
}

func round(v float64, digits int) float64 {
	if digits <= 0 {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil {
		return v
	}
	return r
}
