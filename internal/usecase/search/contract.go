package search

import (
	"context"

	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
)

// Engine executes a planned request against the search index.
// *plan.Search yields *response.Hits, *plan.Facets yields *response.Aggregations,
// *plan.Suggest yields *response.Suggestions.
type Engine interface {
	Execute(ctx context.Context, req plan.Request) (response.Response, error)
}

// FacetCache stores facet maps by criteria cache key. Failures are treated as misses.
type FacetCache interface {
	Get(ctx context.Context, key string) (result.Facets, bool)
	Set(ctx context.Context, key string, facets result.Facets)
}
