package hotelsearch

import (
	"context"
	"strconv"
)

// Query is a fluent, immutable search builder. Every setter returns a copy,
// so a partially built Query can be shared and extended safely.
type Query struct {
	client *Client
	c      Criteria
	paged  bool
}

// Keyword sets the full-text keyword.
func (q Query) Keyword(kw string) Query {
	q.c.Keyword = kw
	return q
}

// City restricts results to one city.
func (q Query) City(city string) Query {
	q.c.City = city
	return q
}

// Brand restricts results to one brand.
func (q Query) Brand(brand string) Query {
	q.c.Brand = brand
	return q
}

// Stars restricts results to one star rating, e.g. "五星".
func (q Query) Stars(starName string) Query {
	q.c.StarName = starName
	return q
}

// Price restricts results to the inclusive range [minPrice, maxPrice].
func (q Query) Price(minPrice, maxPrice int) Query {
	q.c.MinPrice = &minPrice
	q.c.MaxPrice = &maxPrice
	return q
}

// Near orders results by distance from (lat, lon).
func (q Query) Near(lat, lon float64) Query {
	q.c.Location = strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
	return q
}

// Page selects a 1-based page of the given size.
// Both must be positive; Do reports ErrInvalidCriteria otherwise.
func (q Query) Page(page, size int) Query {
	q.c.Page = page
	q.c.PageSize = size
	q.paged = true
	return q
}

// Criteria returns the criteria built so far.
func (q Query) Criteria() Criteria {
	c := q.c
	c.MinPrice = copyInt(c.MinPrice)
	c.MaxPrice = copyInt(c.MaxPrice)
	return c
}

// Do runs the query.
func (q Query) Do(ctx context.Context) (Page, error) {
	p := q.c.params()
	if q.paged {
		page, size := q.c.Page, q.c.PageSize
		p.Page, p.PageSize = &page, &size
	}
	return q.client.search(ctx, p)
}

// Facets returns the facets available under the query's filters.
func (q Query) Facets(ctx context.Context) (Facets, error) {
	return q.client.Facets(ctx, q.Criteria())
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
