package result

// Match is a single scored candidate.
type Match struct {
	haystack string
	meta     string
	score    float64
}

// New creates a match.
func New(haystack, meta string, score float64) Match {
	return Match{haystack: haystack, meta: meta, score: score}
}

// Haystack returns the matched collection member or value.
func (m *Match) Haystack() string { return m.haystack }

// Meta returns the hash field or sorted-set score, empty for sets and lists.
func (m *Match) Meta() string { return m.meta }

// Score returns the similarity in [0, 1].
func (m *Match) Score() float64 { return m.score }
