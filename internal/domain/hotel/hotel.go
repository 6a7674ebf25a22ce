// Package hotel defines the hotel document stored in and returned by the search index.
package hotel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
	"github.com/kailas-cloud/hotelsearch/internal/domain/geo"
)

// Index field names.
const (
	FieldAll        = "all"
	FieldID         = "id"
	FieldName       = "name"
	FieldPrice      = "price"
	FieldBrand      = "brand"
	FieldCity       = "city"
	FieldStarName   = "starName"
	FieldLocation   = "location"
	FieldIsAD       = "isAD"
	FieldSuggestion = "suggestion"
)

// Hotel is a document in the hotel index.
// Location uses the "lat, lon" string form understood by geo_point fields.
type Hotel struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Price      int      `json:"price"`
	Score      int      `json:"score"`
	Brand      string   `json:"brand"`
	City       string   `json:"city"`
	StarName   string   `json:"starName"`
	Business   string   `json:"business"`
	Location   string   `json:"location"`
	Pic        string   `json:"pic"`
	IsAD       bool     `json:"isAD"`
	Suggestion []string `json:"suggestion,omitempty"`
}

// DecodeJSON decodes a JSON object into a Hotel. Numbers are kept exact, so a
// fractional value in an integer field is an error rather than a truncation.
// The result is not validated.
func DecodeJSON(data []byte) (Hotel, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Hotel{}, fmt.Errorf("%w: %w", domain.ErrInvalidHotel, err)
	}
	if raw == nil {
		return Hotel{}, fmt.Errorf("%w: document is null", domain.ErrInvalidHotel)
	}
	return Decode(raw)
}

// Decode converts a generic document (decoded JSON object or stream fields) into a Hotel.
// Numeric and boolean fields are accepted in string form. The result is not validated;
// readers accept whatever the index stores, writers call Validate.
func Decode(raw any) (Hotel, error) {
	var h Hotel
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &h,
	})
	if err != nil {
		return Hotel{}, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Hotel{}, fmt.Errorf("%w: %w", domain.ErrInvalidHotel, err)
	}
	return h, nil
}

// Validate checks the fields the index relies on.
func (h Hotel) Validate() error {
	if h.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", domain.ErrInvalidHotel, h.ID)
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidHotel)
	}
	if h.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative, got %d", domain.ErrInvalidHotel, h.Price)
	}
	if h.Location != "" {
		if _, err := geo.ParsePoint(h.Location); err != nil {
			return fmt.Errorf("%w: location: %w", domain.ErrInvalidHotel, err)
		}
	}
	return nil
}

// DocumentID returns the index document id.
func (h Hotel) DocumentID() string {
	return fmt.Sprintf("%d", h.ID)
}

// Point parses the hotel location.
func (h Hotel) Point() (geo.Point, error) {
	p, err := geo.ParsePoint(h.Location)
	if err != nil {
		return geo.Point{}, fmt.Errorf("hotel %d location: %w", h.ID, err)
	}
	return p, nil
}

// WithSuggestions returns a copy whose completion inputs are derived from brand and business.
// Business districts joined with "/" or "、" are split into separate inputs.
func (h Hotel) WithSuggestions() Hotel {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(h.Brand)
	for _, part := range strings.FieldsFunc(h.Business, func(r rune) bool { return r == '/' || r == '、' }) {
		add(part)
	}
	for _, s := range h.Suggestion {
		add(s)
	}
	h.Suggestion = out
	return h
}
