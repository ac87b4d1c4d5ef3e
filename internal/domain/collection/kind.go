package collection

import (
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
)

// Kind is the backing structure of a scanned key.
type Kind string

const (
	// None is an absent key, scanned as an empty collection.
	None Kind = "none"
	// Set is an unordered set of strings.
	Set Kind = "set"
	// List is a list of strings in insertion order.
	List Kind = "list"
	// Hash maps field names to string values.
	Hash Kind = "hash"
	// SortedSet holds members ordered by ascending score.
	SortedSet Kind = "zset"
)

// ParseKind maps a store TYPE reply to a Kind.
func ParseKind(storeType string) (Kind, error) {
	switch k := Kind(storeType); k {
	case None, Set, List, Hash, SortedSet:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedCollectionKind, storeType)
	}
}

// MetadataField names the per-candidate metadata the kind carries:
// "field" for hashes, "score" for sorted sets, empty otherwise.
func (k Kind) MetadataField() string {
	switch k {
	case Hash:
		return "field"
	case SortedSet:
		return "score"
	default:
		return ""
	}
}

// HasMetadata reports whether candidates of this kind carry metadata.
func (k Kind) HasMetadata() bool { return k.MetadataField() != "" }

func (k Kind) String() string { return string(k) }
