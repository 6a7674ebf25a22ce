// Package criteria holds the validated hotel search request.
package criteria

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
	"github.com/kailas-cloud/hotelsearch/internal/domain/geo"
)

// Search parameter limits.
const (
	MaxKeywordLength = 256
	DefaultPage      = 1
	DefaultPageSize  = 10
	MaxPageSize      = 100
)

// Limits bounds the page size accepted by New.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the package default limits.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

// Params is the raw, unvalidated request. Nil pointers mean "absent".
type Params struct {
	Keyword    string
	City       string
	Brand      string
	StarRating string
	MinPrice   *int
	MaxPrice   *int
	Location   string
	Page       *int
	PageSize   *int
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min int
	Max int
}

// Criteria is a validated search request.
type Criteria struct {
	keyword    string
	city       string
	brand      string
	starRating string
	minPrice   *int
	maxPrice   *int
	origin     *geo.Point
	page       int
	pageSize   int
}

// New validates and normalizes search parameters.
// Strings are trimmed. Absent page and pageSize take defaults; present values must be positive.
func New(p Params, l Limits) (Criteria, error) {
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = DefaultPageSize
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = MaxPageSize
	}

	c := Criteria{
		keyword:    strings.TrimSpace(p.Keyword),
		city:       strings.TrimSpace(p.City),
		brand:      strings.TrimSpace(p.Brand),
		starRating: strings.TrimSpace(p.StarRating),
		minPrice:   copyInt(p.MinPrice),
		maxPrice:   copyInt(p.MaxPrice),
		page:       DefaultPage,
		pageSize:   l.DefaultPageSize,
	}

	if len([]rune(c.keyword)) > MaxKeywordLength {
		return Criteria{}, fmt.Errorf("%w: keyword exceeds %d characters", domain.ErrInvalidCriteria, MaxKeywordLength)
	}

	if p.Page != nil {
		if *p.Page <= 0 {
			return Criteria{}, fmt.Errorf("%w: page must be positive, got %d", domain.ErrInvalidCriteria, *p.Page)
		}
		c.page = *p.Page
	}
	if p.PageSize != nil {
		if *p.PageSize <= 0 {
			return Criteria{}, fmt.Errorf("%w: page size must be positive, got %d", domain.ErrInvalidCriteria, *p.PageSize)
		}
		if *p.PageSize > l.MaxPageSize {
			return Criteria{}, fmt.Errorf("%w: page size must not exceed %d, got %d",
				domain.ErrInvalidCriteria, l.MaxPageSize, *p.PageSize)
		}
		c.pageSize = *p.PageSize
	}

	if c.minPrice != nil && *c.minPrice < 0 {
		return Criteria{}, fmt.Errorf("%w: min price must be non-negative", domain.ErrInvalidCriteria)
	}
	if c.maxPrice != nil && *c.maxPrice < 0 {
		return Criteria{}, fmt.Errorf("%w: max price must be non-negative", domain.ErrInvalidCriteria)
	}
	if c.minPrice != nil && c.maxPrice != nil && *c.minPrice > *c.maxPrice {
		return Criteria{}, fmt.Errorf("%w: min price %d exceeds max price %d",
			domain.ErrInvalidCriteria, *c.minPrice, *c.maxPrice)
	}

	if loc := strings.TrimSpace(p.Location); loc != "" {
		pt, err := geo.ParsePoint(loc)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: location: %w", domain.ErrInvalidCriteria, err)
		}
		c.origin = &pt
	}

	return c, nil
}

// Keyword returns the trimmed keyword, or "" when absent.
func (c Criteria) Keyword() string { return c.keyword }

// HasKeyword reports whether a keyword was given.
func (c Criteria) HasKeyword() bool { return c.keyword != "" }

// City returns the city filter, or "".
func (c Criteria) City() string { return c.city }

// Brand returns the brand filter, or "".
func (c Criteria) Brand() string { return c.brand }

// StarRating returns the star rating filter, or "".
func (c Criteria) StarRating() string { return c.starRating }

// MinPrice returns the lower price bound if present.
func (c Criteria) MinPrice() (int, bool) { return deref(c.minPrice) }

// MaxPrice returns the upper price bound if present.
func (c Criteria) MaxPrice() (int, bool) { return deref(c.maxPrice) }

// PriceRange returns the price interval; ok is false unless both bounds are present.
func (c Criteria) PriceRange() (PriceRange, bool) {
	if c.minPrice == nil || c.maxPrice == nil {
		return PriceRange{}, false
	}
	return PriceRange{Min: *c.minPrice, Max: *c.maxPrice}, true
}

// GeoOrigin returns the parsed location, or nil when absent.
func (c Criteria) GeoOrigin() *geo.Point {
	if c.origin == nil {
		return nil
	}
	p := *c.origin
	return &p
}

// Page returns the 1-based page number.
func (c Criteria) Page() int { return c.page }

// PageSize returns the number of results per page.
func (c Criteria) PageSize() int { return c.pageSize }

// CacheKey returns a canonical representation of the filter fields, excluding paging
// and geo origin. Fields are JSON-encoded so no field value can imitate another field.
func (c Criteria) CacheKey() string {
	b, _ := json.Marshal(struct {
		Keyword    string `json:"k"`
		City       string `json:"c"`
		Brand      string `json:"b"`
		StarRating string `json:"s"`
		MinPrice   *int   `json:"min,omitempty"`
		MaxPrice   *int   `json:"max,omitempty"`
	}{c.keyword, c.city, c.brand, c.starRating, c.minPrice, c.maxPrice})
	return string(b)
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
