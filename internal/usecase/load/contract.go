package load

import (
	"context"

	domcol "github.com/kailas-cloud/fuzzdex/internal/domain/collection"
)

// CollectionWriter writes word batches into a collection.
type CollectionWriter interface {
	Drop(ctx context.Context, key string) error
	Append(ctx context.Context, key string, kind domcol.Kind, items []string, offset int) error
}
