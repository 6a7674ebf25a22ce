// Package plan turns validated criteria and a query tree into engine requests.
// Each request kind is its own type; the engine dispatches on the concrete type.
package plan

import (
	"github.com/kailas-cloud/hotelsearch/internal/domain/geo"
	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/query"
)

// Aggregation names used by facet requests.
const (
	AggBrand = "brandAgg"
	AggCity  = "cityAgg"
	AggStar  = "starAgg"
)

// SuggestionName is the name of the completion suggester in suggest requests.
const SuggestionName = "suggestions"

// Defaults for facet and suggestion requests.
const (
	DefaultFacetBucketSize = 100
	DefaultSuggestSize     = 10
)

// Request is an engine request: *Search, *Facets or *Suggest.
type Request interface {
	isRequest()
}

// Page is a zero-based offset window.
type Page struct {
	Offset int
	Limit  int
}

// Paginate converts a 1-based page number and page size into an offset window.
// Both arguments must be at least 1.
func Paginate(page, size int) Page {
	return Page{Offset: (page - 1) * size, Limit: size}
}

// SortKind selects the result ordering.
type SortKind int

const (
	// ByRelevance leaves ordering to the engine score, descending.
	ByRelevance SortKind = iota
	// ByGeoDistance orders by great-circle distance from an origin, ascending.
	ByGeoDistance
)

// DistanceUnit is the unit requested for geo-distance sort values.
const DistanceUnit = "km"

// Sort describes the ordering of a search request.
type Sort struct {
	Kind   SortKind
	Field  string
	Origin geo.Point
	Unit   string
}

// Highlight requests highlighted fragments for Field.
type Highlight struct {
	Field             string
	RequireFieldMatch bool
}

// Search is a paged hits request.
type Search struct {
	Query     query.Node
	Sort      Sort
	Page      Page
	Highlight *Highlight
}

// Aggregation is a terms aggregation.
type Aggregation struct {
	Name  string
	Field string
	Size  int
}

// Facets is an aggregation-only request. It returns no hits.
type Facets struct {
	Query        query.Node
	Aggregations []Aggregation
}

// Suggest is a completion suggestion request.
type Suggest struct {
	Name           string
	Field          string
	Prefix         string
	SkipDuplicates bool
	Size           int
}

func (*Search) isRequest()  {}
func (*Facets) isRequest()  {}
func (*Suggest) isRequest() {}

// SearchOptions tunes ForSearch.
type SearchOptions struct {
	// HighlightName requests highlighting of the name field when a keyword is present.
	HighlightName bool
}

// ForSearch plans a hits request over q.
// A geo origin in c switches sorting to ascending distance in kilometers.
func ForSearch(c criteria.Criteria, q query.Node, opts SearchOptions) *Search {
	s := &Search{
		Query: q,
		Sort:  Sort{Kind: ByRelevance},
		Page:  Paginate(c.Page(), c.PageSize()),
	}
	if o := c.GeoOrigin(); o != nil {
		s.Sort = Sort{
			Kind:   ByGeoDistance,
			Field:  hotel.FieldLocation,
			Origin: *o,
			Unit:   DistanceUnit,
		}
	}
	if opts.HighlightName && c.HasKeyword() {
		s.Highlight = &Highlight{Field: hotel.FieldName, RequireFieldMatch: false}
	}
	return s
}

// ForFacets plans the brand, city and star aggregations over q.
// bucketSize <= 0 uses DefaultFacetBucketSize.
func ForFacets(q query.Node, bucketSize int) *Facets {
	if bucketSize <= 0 {
		bucketSize = DefaultFacetBucketSize
	}
	return &Facets{
		Query: q,
		Aggregations: []Aggregation{
			{Name: AggBrand, Field: hotel.FieldBrand, Size: bucketSize},
			{Name: AggCity, Field: hotel.FieldCity, Size: bucketSize},
			{Name: AggStar, Field: hotel.FieldStarName, Size: bucketSize},
		},
	}
}

// ForSuggest plans a completion request for prefix.
// size <= 0 uses DefaultSuggestSize.
func ForSuggest(prefix string, size int) *Suggest {
	if size <= 0 {
		size = DefaultSuggestSize
	}
	return &Suggest{
		Name:           SuggestionName,
		Field:          hotel.FieldSuggestion,
		Prefix:         prefix,
		SkipDuplicates: true,
		Size:           size,
	}
}
