package search

import (
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
)

// facetLabels maps aggregation names to caller-facing labels.
var facetLabels = map[string]string{
	plan.AggBrand: result.FacetBrand,
	plan.AggCity:  result.FacetCity,
	plan.AggStar:  result.FacetStarRating,
}

// extractFacets converts aggregation buckets into a FacetMap.
// Every known label is present; unknown aggregations are ignored; values keep engine rank order.
func extractFacets(aggs *response.Aggregations, bucketSize int) result.Facets {
	out := make(result.Facets, len(facetLabels))
	for name, label := range facetLabels {
		buckets := aggs.Buckets[name]
		values := make([]string, 0, len(buckets))
		seen := make(map[string]struct{}, len(buckets))
		for _, b := range buckets {
			if bucketSize > 0 && len(values) == bucketSize {
				break
			}
			if _, dup := seen[b.Key]; dup {
				continue
			}
			seen[b.Key] = struct{}{}
			values = append(values, b.Key)
		}
		out[label] = values
	}
	return out
}

// extractSuggestions returns the option texts of the named suggester, deduplicated, in engine order.
func extractSuggestions(s *response.Suggestions, name string, size int) []string {
	opts := s.Options[name]
	out := make([]string, 0, len(opts))
	seen := make(map[string]struct{}, len(opts))
	for _, text := range opts {
		if size > 0 && len(out) == size {
			break
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	return out
}
