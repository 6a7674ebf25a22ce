// Package response holds the engine-independent shapes of search engine replies.
package response

import "encoding/json"

// Response is an engine reply: *Hits, *Aggregations or *Suggestions.
type Response interface {
	isResponse()
}

// RawHit is one matched document before projection.
type RawHit struct {
	ID        string
	Score     *float64
	Source    json.RawMessage
	Sort      []any
	Highlight map[string][]string
}

// Hits answers a search request. Total may exceed len(Items).
type Hits struct {
	Total uint64
	Items []RawHit
}

// Bucket is one terms aggregation bucket.
type Bucket struct {
	Key      string
	DocCount int64
}

// Aggregations answers a facet request, keyed by aggregation name.
type Aggregations struct {
	Buckets map[string][]Bucket
}

// Suggestions answers a suggest request, keyed by suggester name.
type Suggestions struct {
	Options map[string][]string
}

func (*Hits) isResponse()         {}
func (*Aggregations) isResponse() {}
func (*Suggestions) isResponse()  {}
