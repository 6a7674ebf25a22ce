package result

import "github.com/kailas-cloud/hotelsearch/internal/domain/hotel"

// Facet labels returned to callers.
const (
	FacetBrand      = "brand"
	FacetCity       = "city"
	FacetStarRating = "starRating"
)

// Item is a single projected search hit.
type Item struct {
	hotel    hotel.Hotel
	score    *float64
	distance *float64
	name     string
}

// NewItem creates a search result item.
// A non-empty highlightedName replaces the stored name; distance is in kilometers.
func NewItem(h hotel.Hotel, score, distance *float64, highlightedName string) Item {
	it := Item{hotel: h, score: copyFloat(score), distance: copyFloat(distance), name: h.Name}
	if highlightedName != "" {
		it.name = highlightedName
	}
	return it
}

// Hotel returns the stored document.
func (i *Item) Hotel() hotel.Hotel { return i.hotel }

// Name returns the display name, highlighted when the engine returned a fragment.
func (i *Item) Name() string { return i.name }

// Score returns the relevance score, or nil when the engine omitted it (e.g. sorted by distance).
func (i *Item) Score() *float64 { return copyFloat(i.score) }

// Distance returns the distance from the search origin in kilometers, or nil.
func (i *Item) Distance() *float64 { return copyFloat(i.distance) }

// Page is one page of projected hits in engine rank order.
type Page struct {
	total   uint64
	items   []Item
	skipped int
}

// NewPage creates a result page. skipped counts hits dropped during lenient projection.
func NewPage(total uint64, items []Item, skipped int) Page {
	return Page{total: total, items: append([]Item(nil), items...), skipped: skipped}
}

// Total returns the number of matching documents, which may exceed len(Items()).
func (p *Page) Total() uint64 { return p.total }

// Items returns the page items in rank order.
func (p *Page) Items() []Item { return append([]Item(nil), p.items...) }

// Partial reports whether any hit was dropped.
func (p *Page) Partial() bool { return p.skipped > 0 }

// Skipped returns the number of dropped hits.
func (p *Page) Skipped() int { return p.skipped }

// Facets maps a facet label to its distinct values in engine rank order.
type Facets map[string][]string

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
