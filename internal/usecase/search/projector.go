package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
	"github.com/kailas-cloud/hotelsearch/internal/domain/geo"
	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/hotelsearch/internal/logger"
	"github.com/kailas-cloud/hotelsearch/internal/metrics"
)

// HitPolicy decides what a malformed hit does to its page.
type HitPolicy string

const (
	// HitPolicyStrict fails the whole page.
	HitPolicyStrict HitPolicy = "strict"
	// HitPolicyLenient drops the hit and marks the page partial.
	HitPolicyLenient HitPolicy = "lenient"
)

// ParseHitPolicy validates a configured policy name.
func ParseHitPolicy(s string) (HitPolicy, error) {
	switch HitPolicy(s) {
	case HitPolicyStrict, HitPolicyLenient:
		return HitPolicy(s), nil
	case "":
		return HitPolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown hit policy %q", s)
	}
}

func (s *Service) project(ctx context.Context, hits *response.Hits, req *plan.Search) (result.Page, error) {
	var origin *geo.Point
	if req.Sort.Kind == plan.ByGeoDistance {
		o := req.Sort.Origin
		origin = &o
	}

	items := make([]result.Item, 0, len(hits.Items))
	skipped := 0
	for i := range hits.Items {
		item, err := projectHit(&hits.Items[i], origin)
		if err != nil {
			if s.cfg.HitPolicy != HitPolicyLenient {
				return result.Page{}, err
			}
			skipped++
			metrics.SkippedHitsTotal.Inc()
			logpkg.FromContext(ctx).Warn("Skipping malformed hit",
				zap.String("hit_id", hits.Items[i].ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return result.NewPage(hits.Total, items, skipped), nil
}

// projectHit decodes the stored source and attaches distance and highlight.
// origin is non-nil only for distance-sorted requests.
func projectHit(h *response.RawHit, origin *geo.Point) (result.Item, error) {
	if len(h.Source) == 0 {
		return result.Item{}, &domain.MalformedHitError{HitID: h.ID, Err: errors.New("missing _source")}
	}
	doc, err := hotel.DecodeJSON(h.Source)
	if err != nil {
		return result.Item{}, &domain.MalformedHitError{HitID: h.ID, Err: err}
	}
	if doc.ID == 0 {
		// Documents indexed without an id field still carry it as _id.
		if id, err := strconv.ParseInt(h.ID, 10, 64); err == nil {
			doc.ID = id
		}
	}

	var distance *float64
	if origin != nil {
		distance = distanceOf(h, doc, *origin)
	}

	var name string
	if frags := h.Highlight[hotel.FieldName]; len(frags) > 0 {
		name = frags[0]
	}

	return result.NewItem(doc, h.Score, distance, name), nil
}

// distanceOf prefers the engine sort value and falls back to computing it from the stored location.
func distanceOf(h *response.RawHit, doc hotel.Hotel, origin geo.Point) *float64 {
	if len(h.Sort) > 0 {
		if d, ok := toFloat(h.Sort[0]); ok {
			return &d
		}
	}
	p, err := doc.Point()
	if err != nil {
		return nil
	}
	d := origin.DistanceKm(p)
	return &d
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
