package elastic

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
)

// searchBody is the subset of a _search reply the engine reads.
type searchBody struct {
	Hits struct {
		Total totalHits `json:"total"`
		Hits  []hitBody `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []bucketBody `json:"buckets"`
	} `json:"aggregations"`
	Suggest map[string][]struct {
		Options []struct {
			Text string `json:"text"`
		} `json:"options"`
	} `json:"suggest"`
}

type hitBody struct {
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Sort      []any               `json:"sort"`
	Highlight map[string][]string `json:"highlight"`
}

type bucketBody struct {
	Key         json.RawMessage `json:"key"`
	KeyAsString string          `json:"key_as_string"`
	DocCount    int64           `json:"doc_count"`
}

// totalHits accepts both {"value": n, "relation": ...} and a bare number.
type totalHits uint64

func (t *totalHits) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value uint64 `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = totalHits(obj.Value)
		return nil
	}
	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = totalHits(n)
	return nil
}

func (b *searchBody) hits() *response.Hits {
	items := make([]response.RawHit, 0, len(b.Hits.Hits))
	for _, h := range b.Hits.Hits {
		source := h.Source
		if bytes.Equal(bytes.TrimSpace(source), []byte("null")) {
			source = nil
		}
		items = append(items, response.RawHit{
			ID:        h.ID,
			Score:     h.Score,
			Source:    source,
			Sort:      h.Sort,
			Highlight: h.Highlight,
		})
	}
	return &response.Hits{Total: uint64(b.Hits.Total), Items: items}
}

func (b *searchBody) aggregations() *response.Aggregations {
	out := make(map[string][]response.Bucket, len(b.Aggregations))
	for name, agg := range b.Aggregations {
		buckets := make([]response.Bucket, 0, len(agg.Buckets))
		for _, bk := range agg.Buckets {
			buckets = append(buckets, response.Bucket{Key: bucketKey(bk), DocCount: bk.DocCount})
		}
		out[name] = buckets
	}
	return &response.Aggregations{Buckets: out}
}

func (b *searchBody) suggestions() *response.Suggestions {
	out := make(map[string][]string, len(b.Suggest))
	for name, entries := range b.Suggest {
		var texts []string
		for _, entry := range entries {
			for _, opt := range entry.Options {
				texts = append(texts, opt.Text)
			}
		}
		out[name] = texts
	}
	return &response.Suggestions{Options: out}
}

// bucketKey renders a terms bucket key as a string. Keyword keys pass through; numeric and boolean keys are formatted.
func bucketKey(b bucketBody) string {
	if b.KeyAsString != "" {
		return b.KeyAsString
	}
	var v any
	if err := json.Unmarshal(b.Key, &v); err != nil {
		return string(b.Key)
	}
	switch k := v.(type) {
	case string:
		return k
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(k)
	default:
		return string(b.Key)
	}
}
