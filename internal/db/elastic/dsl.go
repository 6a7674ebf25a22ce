package elastic

import (
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/query"
)

// renderNode translates a predicate tree into query DSL.
func renderNode(n query.Node) map[string]any {
	switch q := n.(type) {
	case nil, query.MatchAll:
		return map[string]any{"match_all": map[string]any{}}
	case query.Match:
		return map[string]any{"match": map[string]any{q.Field: q.Text}}
	case query.Term:
		return map[string]any{"term": map[string]any{q.Field: q.Value}}
	case query.Range:
		bounds := map[string]any{}
		if q.GTE != nil {
			bounds["gte"] = *q.GTE
		}
		if q.LTE != nil {
			bounds["lte"] = *q.LTE
		}
		return map[string]any{"range": map[string]any{q.Field: bounds}}
	case query.Bool:
		b := map[string]any{}
		if must := q.Must(); len(must) > 0 {
			b["must"] = renderNodes(must)
		}
		if filter := q.Filter(); len(filter) > 0 {
			b["filter"] = renderNodes(filter)
		}
		return map[string]any{"bool": b}
	case query.FunctionScore:
		fs := map[string]any{"query": renderNode(q.Query())}
		if fns := q.Functions(); len(fns) > 0 {
			out := make([]any, 0, len(fns))
			for _, f := range fns {
				out = append(out, map[string]any{
					"filter": renderNode(f.Filter),
					"weight": f.Weight,
				})
			}
			fs["functions"] = out
		}
		return map[string]any{"function_score": fs}
	default:
		return map[string]any{"match_all": map[string]any{}}
	}
}

func renderNodes(nodes []query.Node) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, renderNode(n))
	}
	return out
}

func renderSearch(s *plan.Search) map[string]any {
	body := map[string]any{
		"query": renderNode(s.Query),
		"from":  s.Page.Offset,
		"size":  s.Page.Limit,
	}
	if s.Sort.Kind == plan.ByGeoDistance {
		body["sort"] = []any{
			map[string]any{
				"_geo_distance": map[string]any{
					s.Sort.Field: map[string]any{"lat": s.Sort.Origin.Lat(), "lon": s.Sort.Origin.Lon()},
					"order":      "asc",
					"unit":       s.Sort.Unit,
				},
			},
		}
	}
	if s.Highlight != nil {
		body["highlight"] = map[string]any{
			"fields":              map[string]any{s.Highlight.Field: map[string]any{}},
			"require_field_match": s.Highlight.RequireFieldMatch,
		}
	}
	return body
}

func renderFacets(f *plan.Facets) map[string]any {
	aggs := make(map[string]any, len(f.Aggregations))
	for _, a := range f.Aggregations {
		aggs[a.Name] = map[string]any{
			"terms": map[string]any{"field": a.Field, "size": a.Size},
		}
	}
	return map[string]any{
		"query": renderNode(f.Query),
		"size":  0,
		"aggs":  aggs,
	}
}

func renderSuggest(s *plan.Suggest) map[string]any {
	return map[string]any{
		"_source": false,
		"suggest": map[string]any{
			s.Name: map[string]any{
				"prefix": s.Prefix,
				"completion": map[string]any{
					"field":           s.Field,
					"skip_duplicates": s.SkipDuplicates,
					"size":            s.Size,
				},
			},
		},
	}
}
