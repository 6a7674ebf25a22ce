package chi

import (
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeEngineUnavailable ErrorCode = "engine_unavailable"
	ErrorCodeEngineTimeout     ErrorCode = "engine_timeout"
	ErrorCodeQueryRejected     ErrorCode = "query_rejected"
	ErrorCodeMalformedHit      ErrorCode = "malformed_hit"
	ErrorCodeMalformedResponse ErrorCode = "malformed_response"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RequestParams is the search and filter request body.
type RequestParams struct {
	Key      string `json:"key"`
	City     string `json:"city"`
	Brand    string `json:"brand"`
	StarName string `json:"starName"`
	MinPrice *int   `json:"minPrice"`
	MaxPrice *int   `json:"maxPrice"`
	Location string `json:"location"`
	Page     *int   `json:"page"`
	Size     *int   `json:"size"`
}

func (p RequestParams) toCriteria(l criteria.Limits) (criteria.Criteria, error) {
	return criteria.New(criteria.Params{
		Keyword:    p.Key,
		City:       p.City,
		Brand:      p.Brand,
		StarRating: p.StarName,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		Location:   p.Location,
		Page:       p.Page,
		PageSize:   p.Size,
	}, l)
}

// HotelResponse is one hotel in a result page.
type HotelResponse struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Price    int      `json:"price"`
	Score    int      `json:"score"`
	Brand    string   `json:"brand"`
	City     string   `json:"city"`
	StarName string   `json:"starName"`
	Business string   `json:"business"`
	Location string   `json:"location"`
	Pic      string   `json:"pic"`
	IsAD     bool     `json:"isAD"`
	Distance *float64 `json:"distance,omitempty"`
}

// PageResponse is the /hotel/list reply.
type PageResponse struct {
	Total   uint64          `json:"total"`
	Hotels  []HotelResponse `json:"hotels"`
	Partial bool            `json:"partial,omitempty"`
	Skipped int             `json:"skipped,omitempty"`
}

// HealthResponse is the /health reply.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func pageToResponse(p result.Page) PageResponse {
	items := p.Items()
	hotels := make([]HotelResponse, 0, len(items))
	for i := range items {
		hotels = append(hotels, itemToResponse(&items[i]))
	}
	return PageResponse{
		Total:   p.Total(),
		Hotels:  hotels,
		Partial: p.Partial(),
		Skipped: p.Skipped(),
	}
}

func itemToResponse(it *result.Item) HotelResponse {
	h := it.Hotel()
	return HotelResponse{
		ID:       h.ID,
		Name:     it.Name(),
		Address:  h.Address,
		Price:    h.Price,
		Score:    h.Score,
		Brand:    h.Brand,
		City:     h.City,
		StarName: h.StarName,
		Business: h.Business,
		Location: h.Location,
		Pic:      h.Pic,
		IsAD:     h.IsAD,
		Distance: it.Distance(),
	}
}

// facetsToResponse guarantees every facet label is present with a non-nil list.
func facetsToResponse(f result.Facets) map[string][]string {
	out := map[string][]string{
		result.FacetBrand:      {},
		result.FacetCity:       {},
		result.FacetStarRating: {},
	}
	for k, v := range f {
		if v == nil {
			v = []string{}
		}
		out[k] = v
	}
	return out
}
