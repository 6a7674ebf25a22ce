package hotelsearch

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestQuery_Immutable(t *testing.T) {
	base := (&Client{}).Query().City("上海").Price(100, 300)
	a := base.Brand("如家")
	b := base.Brand("汉庭").Price(0, 50)

	if base.Criteria().Brand != "" {
		t.Error("base query was mutated")
	}
	if a.Criteria().Brand != "如家" || b.Criteria().Brand != "汉庭" {
		t.Errorf("a=%q b=%q", a.Criteria().Brand, b.Criteria().Brand)
	}
	if *a.Criteria().MaxPrice != 300 || *b.Criteria().MaxPrice != 50 {
		t.Error("price ranges leaked between derived queries")
	}

	c := a.Criteria()
	*c.MinPrice = 999
	if *a.Criteria().MinPrice != 100 {
		t.Error("Criteria must return a copy")
	}
}

func TestQuery_Near(t *testing.T) {
	q := (&Client{}).Query().Near(31.21, 121.5)
	if got := q.Criteria().Location; got != "31.21,121.5" {
		t.Errorf("location = %q", got)
	}
}

func TestQuery_Do(t *testing.T) {
	f := newFakeES(t)
	f.respond(http.StatusOK, `{"hits":{"total":{"value":1},"hits":[{"_id":"7","_score":2.5,"_source":{"id":7,"name":"如家酒店","starName":"四星"},"highlight":{"name":["<em>如家</em>酒店"]}}]}}`)
	c := newTestClient(t, f)

	page, err := c.Query().Keyword("如家").Stars("四星").Page(2, 10).Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Hits) != 1 || page.Hits[0].DisplayName != "<em>如家</em>酒店" || page.Hits[0].Name != "如家酒店" {
		t.Errorf("hits = %+v", page.Hits)
	}
	if r := page.Hits[0].Relevance; r == nil || *r != 2.5 {
		t.Errorf("relevance = %v", r)
	}

	q := f.lastSearch(t)
	if q["from"] != float64(10) || q["size"] != float64(10) {
		t.Errorf("paging = from %v size %v", q["from"], q["size"])
	}
	if _, ok := q["highlight"]; !ok {
		t.Error("keyword query must request highlighting")
	}
}

func TestQuery_Facets(t *testing.T) {
	f := newFakeES(t)
	f.respond(http.StatusOK, `{"hits":{"total":0,"hits":[]},"aggregations":{"cityAgg":{"buckets":[{"key":"深圳","doc_count":1}]}}}`)
	c := newTestClient(t, f)

	facets, err := c.Query().Brand("如家").Facets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(facets[FacetCity]) != 1 || facets[FacetCity][0] != "深圳" {
		t.Errorf("city = %v", facets[FacetCity])
	}
	if len(facets) != 3 {
		t.Errorf("facets = %v", facets)
	}
}

func TestQuery_PageRejectsNonPositive(t *testing.T) {
	f := newFakeES(t)
	c := newTestClient(t, f)

	for _, tc := range []struct{ page, size int }{{0, 0}, {0, 10}, {1, 0}, {-1, 10}} {
		_, err := c.Query().City("上海").Page(tc.page, tc.size).Do(context.Background())
		if !errors.Is(err, ErrInvalidCriteria) {
			t.Errorf("Page(%d, %d): got %v, want ErrInvalidCriteria", tc.page, tc.size, err)
		}
	}
	if n := f.searchCount(); n != 0 {
		t.Errorf("invalid paging reached the engine %d times", n)
	}
}

func TestQuery_UnpagedUsesDefaults(t *testing.T) {
	f := newFakeES(t)
	f.respond(http.StatusOK, `{"hits":{"total":{"value":0},"hits":[]}}`)
	c := newTestClient(t, f)

	if _, err := c.Query().City("上海").Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := f.lastSearch(t)
	if q["from"] != float64(0) || q["size"] != float64(10) {
		t.Errorf("paging = from %v size %v", q["from"], q["size"])
	}
}
