package search

import (
	"context"
	"time"

	domcol "github.com/kailas-cloud/fuzzdex/internal/domain/collection"
)

// CollectionLoader reads an isolated view of a collection.
type CollectionLoader interface {
	Load(ctx context.Context, key string) (domcol.Source, error)
}

// Recorder observes completed searches.
type Recorder interface {
	ObserveSearch(kind, status string, elapsed time.Duration, scanned int)
}
