package indexing

import (
	"context"

	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
)

// Indexer writes hotel documents to the search index.
type Indexer interface {
	Index(ctx context.Context, h hotel.Hotel) error
	Delete(ctx context.Context, id int64) error
}

// FacetEvictor drops cached facets a hotel change in city made stale.
type FacetEvictor interface {
	EvictCity(ctx context.Context, city string)
}
