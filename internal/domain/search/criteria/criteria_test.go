package criteria

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNew_Defaults(t *testing.T) {
	c, err := New(Params{}, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Page() != DefaultPage {
		t.Errorf("Page() = %d, want %d", c.Page(), DefaultPage)
	}
	if c.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", c.PageSize(), DefaultPageSize)
	}
	if c.HasKeyword() {
		t.Error("HasKeyword() = true")
	}
	if c.GeoOrigin() != nil {
		t.Error("GeoOrigin() != nil")
	}
	if _, ok := c.PriceRange(); ok {
		t.Error("PriceRange() ok = true")
	}
}

func TestNew_ZeroLimitsFallBack(t *testing.T) {
	c, err := New(Params{PageSize: intPtr(MaxPageSize)}, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.PageSize() != MaxPageSize {
		t.Errorf("PageSize() = %d", c.PageSize())
	}
}

func TestNew_TrimsStrings(t *testing.T) {
	c, err := New(Params{
		Keyword:    "  如家  ",
		City:       " 上海 ",
		Brand:      "\t7天酒店\n",
		StarRating: "   ",
	}, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Keyword() != "如家" || c.City() != "上海" || c.Brand() != "7天酒店" {
		t.Errorf("unexpected trimmed values: %q %q %q", c.Keyword(), c.City(), c.Brand())
	}
	if c.StarRating() != "" {
		t.Errorf("StarRating() = %q, want empty", c.StarRating())
	}
}

func TestNew_PriceRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max *int
		wantOK   bool
	}{
		{"both", intPtr(100), intPtr(300), true},
		{"min only", intPtr(100), nil, false},
		{"max only", nil, intPtr(300), false},
		{"equal", intPtr(200), intPtr(200), true},
		{"none", nil, nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(Params{MinPrice: tc.min, MaxPrice: tc.max}, DefaultLimits())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			r, ok := c.PriceRange()
			if ok != tc.wantOK {
				t.Fatalf("PriceRange() ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && (r.Min != *tc.min || r.Max != *tc.max) {
				t.Errorf("PriceRange() = %+v", r)
			}
		})
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero page", Params{Page: intPtr(0)}},
		{"negative page", Params{Page: intPtr(-1)}},
		{"zero page size", Params{PageSize: intPtr(0)}},
		{"page size over max", Params{PageSize: intPtr(MaxPageSize + 1)}},
		{"negative min price", Params{MinPrice: intPtr(-1)}},
		{"negative max price", Params{MaxPrice: intPtr(-1)}},
		{"inverted price range", Params{MinPrice: intPtr(500), MaxPrice: intPtr(100)}},
		{"bad location", Params{Location: "31.2"}},
		{"out of range location", Params{Location: "95,121.5"}},
		{"keyword too long", Params{Keyword: strings.Repeat("a", MaxKeywordLength+1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.p, DefaultLimits())
			if !errors.Is(err, domain.ErrInvalidCriteria) {
				t.Fatalf("expected ErrInvalidCriteria, got %v", err)
			}
		})
	}
}

func TestNew_BadLocationKeepsGeoCause(t *testing.T) {
	_, err := New(Params{Location: "abc"}, DefaultLimits())
	if !errors.Is(err, domain.ErrInvalidGeoPoint) {
		t.Fatalf("expected ErrInvalidGeoPoint in chain, got %v", err)
	}
}

func TestNew_GeoOrigin(t *testing.T) {
	c, err := New(Params{Location: " 31.2, 121.5 "}, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := c.GeoOrigin()
	if o == nil || o.Lat() != 31.2 || o.Lon() != 121.5 {
		t.Fatalf("GeoOrigin() = %v", o)
	}
}

func TestNew_BlankLocationIsAbsent(t *testing.T) {
	c, err := New(Params{Location: "   "}, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.GeoOrigin() != nil {
		t.Error("blank location must be treated as absent")
	}
}

func TestNew_CopiesInputPointers(t *testing.T) {
	minP := 100
	c, err := New(Params{MinPrice: &minP}, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	minP = 999
	if v, _ := c.MinPrice(); v != 100 {
		t.Errorf("MinPrice() = %d, criteria must not alias caller memory", v)
	}
}

func TestCacheKey_IgnoresPaging(t *testing.T) {
	a, _ := New(Params{City: "上海", Page: intPtr(1)}, DefaultLimits())
	b, _ := New(Params{City: "上海", Page: intPtr(3), PageSize: intPtr(20)}, DefaultLimits())
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("CacheKey differs by page: %q vs %q", a.CacheKey(), b.CacheKey())
	}
	c, _ := New(Params{City: "北京"}, DefaultLimits())
	if a.CacheKey() == c.CacheKey() {
		t.Error("CacheKey must differ by city")
	}
}

func TestCacheKey_FieldValuesCannotCollide(t *testing.T) {
	tests := []struct {
		name string
		a, b Params
	}{
		{"separator in keyword", Params{Keyword: "a|c="}, Params{Keyword: "a", City: "|c="}},
		{"separator in brand", Params{Brand: "x|s=五星"}, Params{Brand: "x", StarRating: "五星"}},
		{"price in text", Params{Keyword: "|min=100"}, Params{MinPrice: intPtr(100)}},
		{"min vs max", Params{MinPrice: intPtr(100)}, Params{MaxPrice: intPtr(100)}},
		{"quote in keyword", Params{Keyword: `a","c":"b`}, Params{Keyword: "a", City: "b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := New(tc.a, DefaultLimits())
			if err != nil {
				t.Fatalf("New(a): %v", err)
			}
			b, err := New(tc.b, DefaultLimits())
			if err != nil {
				t.Fatalf("New(b): %v", err)
			}
			if a.CacheKey() == b.CacheKey() {
				t.Errorf("distinct criteria share cache key %q", a.CacheKey())
			}
		})
	}
}

func TestCacheKey_IgnoresLocation(t *testing.T) {
	a, _ := New(Params{City: "上海"}, DefaultLimits())
	b, _ := New(Params{City: "上海", Location: "31.2,121.5"}, DefaultLimits())
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("CacheKey differs by location: %q vs %q", a.CacheKey(), b.CacheKey())
	}
}
