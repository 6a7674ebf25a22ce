package hotelsearch

import (
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
)

// Facet labels in Facets.
const (
	FacetBrand      = result.FacetBrand
	FacetCity       = result.FacetCity
	FacetStarRating = result.FacetStarRating
)

// Criteria describes a hotel search. Zero values mean "no constraint".
// Location is "lat,lon"; when set, results are ordered by distance.
// A zero Page or PageSize means unset and takes the default; negative values are rejected.
// Query.Page passes both through as given, so zero is rejected there.
type Criteria struct {
	Keyword  string
	City     string
	Brand    string
	StarName string
	MinPrice *int
	MaxPrice *int
	Location string
	Page     int // 1-based, default 1
	PageSize int // default 10
}

// Hotel is a stored hotel document.
type Hotel struct {
	ID       int64
	Name     string
	Address  string
	Price    int
	Score    int
	Brand    string
	City     string
	StarName string
	Business string
	Location string
	Pic      string
	IsAD     bool
}

// Hit is a hotel in a result page.
type Hit struct {
	Hotel
	// DisplayName is the highlighted name when the keyword matched it, otherwise Name.
	DisplayName string
	// Distance from the search origin in kilometers, nil without a location.
	Distance *float64
	// Relevance is nil when results are ordered by distance.
	Relevance *float64
}

// Page is one page of results in rank order.
type Page struct {
	Total   uint64
	Hits    []Hit
	Partial bool
	Skipped int
}

// Facets maps FacetBrand, FacetCity and FacetStarRating to their available values.
type Facets map[string][]string

func (c Criteria) toInternal(l criteria.Limits) (criteria.Criteria, error) {
	return criteria.New(c.params(), l)
}

func (c Criteria) params() criteria.Params {
	return criteria.Params{
		Keyword:    c.Keyword,
		City:       c.City,
		Brand:      c.Brand,
		StarRating: c.StarName,
		MinPrice:   c.MinPrice,
		MaxPrice:   c.MaxPrice,
		Location:   c.Location,
		Page:       optional(c.Page),
		PageSize:   optional(c.PageSize),
	}
}

// optional treats zero as absent so that unset fields take defaults.
func optional(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func fromInternalPage(p result.Page) Page {
	items := p.Items()
	hits := make([]Hit, 0, len(items))
	for i := range items {
		hits = append(hits, fromInternalItem(&items[i]))
	}
	return Page{
		Total:   p.Total(),
		Hits:    hits,
		Partial: p.Partial(),
		Skipped: p.Skipped(),
	}
}

func fromInternalItem(it *result.Item) Hit {
	h := it.Hotel()
	return Hit{
		Hotel: Hotel{
			ID:       h.ID,
			Name:     h.Name,
			Address:  h.Address,
			Price:    h.Price,
			Score:    h.Score,
			Brand:    h.Brand,
			City:     h.City,
			StarName: h.StarName,
			Business: h.Business,
			Location: h.Location,
			Pic:      h.Pic,
			IsAD:     h.IsAD,
		},
		DisplayName: it.Name(),
		Distance:    it.Distance(),
		Relevance:   it.Score(),
	}
}

func fromInternalFacets(f result.Facets) Facets {
	out := Facets{
		FacetBrand:      {},
		FacetCity:       {},
		FacetStarRating: {},
	}
	for k, v := range f {
		if v != nil {
			out[k] = append([]string(nil), v...)
		}
	}
	return out
}
