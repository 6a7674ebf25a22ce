package hotelsearch

import (
	"testing"

	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
)

func TestCriteriaToInternal_ZeroMeansDefault(t *testing.T) {
	ic, err := Criteria{}.toInternal(criteria.DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ic.Page() != criteria.DefaultPage || ic.PageSize() != criteria.DefaultPageSize {
		t.Errorf("page = %d size = %d", ic.Page(), ic.PageSize())
	}
}

func TestCriteriaToInternal_NegativeRejected(t *testing.T) {
	if _, err := (Criteria{Page: -1}).toInternal(criteria.DefaultLimits()); err == nil {
		t.Fatal("expected error for negative page")
	}
}

func TestFromInternalPage(t *testing.T) {
	d := 3.5
	items := []result.Item{
		result.NewItem(hotel.Hotel{ID: 1, Name: "如家", Price: 199}, nil, &d, "<em>如家</em>"),
	}
	p := fromInternalPage(result.NewPage(10, items, 2))

	if p.Total != 10 || !p.Partial || p.Skipped != 2 {
		t.Errorf("page = %+v", p)
	}
	h := p.Hits[0]
	if h.ID != 1 || h.Price != 199 || h.Name != "如家" || h.DisplayName != "<em>如家</em>" {
		t.Errorf("hit = %+v", h)
	}
	if h.Distance == nil || *h.Distance != 3.5 {
		t.Errorf("distance = %v", h.Distance)
	}
}

func TestFromInternalFacets_AllLabels(t *testing.T) {
	f := fromInternalFacets(result.Facets{result.FacetCity: {"北京"}})
	for _, k := range []string{FacetBrand, FacetCity, FacetStarRating} {
		if v, ok := f[k]; !ok || v == nil {
			t.Errorf("%s missing or nil", k)
		}
	}
	if len(f[FacetCity]) != 1 {
		t.Errorf("city = %v", f[FacetCity])
	}
}
