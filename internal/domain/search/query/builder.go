package query

import (
	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
)

// DefaultPromotedWeight is the score multiplier applied to promoted listings.
const DefaultPromotedWeight = 10

// Options tunes predicate construction.
type Options struct {
	// OpenEndedPrice applies a single price bound as a half-open range.
	// When false, a price filter is added only if both bounds are present.
	OpenEndedPrice bool
}

// BuildPredicate derives the boolean predicate tree for c.
// The keyword becomes the only scoring clause; every other criterion is a filter.
func BuildPredicate(c criteria.Criteria, opts Options) Bool {
	var must Node = MatchAll{}
	if c.HasKeyword() {
		must = Match{Field: hotel.FieldAll, Text: c.Keyword()}
	}

	var filters []Node
	if v := c.City(); v != "" {
		filters = append(filters, Term{Field: hotel.FieldCity, Value: v})
	}
	if v := c.Brand(); v != "" {
		filters = append(filters, Term{Field: hotel.FieldBrand, Value: v})
	}
	if v := c.StarRating(); v != "" {
		filters = append(filters, Term{Field: hotel.FieldStarName, Value: v})
	}
	if r, ok := priceFilter(c, opts); ok {
		filters = append(filters, r)
	}

	return NewBool([]Node{must}, filters)
}

func priceFilter(c criteria.Criteria, opts Options) (Range, bool) {
	if pr, ok := c.PriceRange(); ok {
		return NewRange(hotel.FieldPrice, &pr.Min, &pr.Max), true
	}
	if !opts.OpenEndedPrice {
		return Range{}, false
	}
	lo, hasLo := c.MinPrice()
	hi, hasHi := c.MaxPrice()
	switch {
	case hasLo:
		return NewRange(hotel.FieldPrice, &lo, nil), true
	case hasHi:
		return NewRange(hotel.FieldPrice, nil, &hi), true
	default:
		return Range{}, false
	}
}

// PromotedBoost multiplies the score of advertised hotels by weight.
func PromotedBoost(weight float64) ScoreFunction {
	return ScoreFunction{Filter: Term{Field: hotel.FieldIsAD, Value: true}, Weight: weight}
}

// Boost wraps base in a FunctionScore carrying the given rules.
// Rules with a nil filter or a weight below 1 are dropped so boosting never demotes a match.
func Boost(base Node, rules ...ScoreFunction) FunctionScore {
	kept := make([]ScoreFunction, 0, len(rules))
	for _, r := range rules {
		if r.Filter == nil || r.Weight < 1 {
			continue
		}
		kept = append(kept, r)
	}
	return NewFunctionScore(base, kept)
}
