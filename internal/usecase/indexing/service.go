// Package indexing applies hotel change events to the search index.
package indexing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/metrics"
)

// Event types understood by the service.
const (
	EventUpsert = "hotel.upsert"
	EventDelete = "hotel.delete"
)

// Event is one hotel change notification.
type Event struct {
	ID      string
	Type    string
	Payload json.RawMessage
}

// Service applies events through an Indexer.
type Service struct {
	indexer Indexer
	evictor FacetEvictor
	logger  *zap.Logger
}

// New creates an indexing Service.
func New(indexer Indexer, logger *zap.Logger) *Service {
	return &Service{indexer: indexer, logger: logger}
}

// WithFacetEvictor evicts cached facets after each applied change.
func (s *Service) WithFacetEvictor(e FacetEvictor) *Service {
	s.evictor = e
	return s
}

// HandleEvent applies a single event.
// Upserts carry the full hotel document and get completion suggestions derived before writing.
// Deletes carry the hotel id, either bare or as {"id": n}.
func (s *Service) HandleEvent(ctx context.Context, ev Event) error {
	var err error
	switch ev.Type {
	case EventUpsert:
		err = s.upsert(ctx, ev.Payload)
	case EventDelete:
		err = s.delete(ctx, ev.Payload)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Type)
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SyncEventsTotal.WithLabelValues(eventLabel(ev.Type), status).Inc()
	return err
}

func (s *Service) upsert(ctx context.Context, payload json.RawMessage) error {
	h, err := hotel.DecodeJSON(payload)
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	if err := h.Validate(); err != nil {
		return err
	}
	h = h.WithSuggestions()
	if err := s.indexer.Index(ctx, h); err != nil {
		return fmt.Errorf("index hotel %d: %w", h.ID, err)
	}
	s.evict(ctx, h.City)
	s.logger.Debug("Hotel indexed", zap.Int64("hotel_id", h.ID))
	return nil
}

func (s *Service) delete(ctx context.Context, payload json.RawMessage) error {
	id, err := parseID(payload)
	if err != nil {
		return err
	}
	if err := s.indexer.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete hotel %d: %w", id, err)
	}
	// The delete payload has no city.
	s.evict(ctx, "")
	s.logger.Debug("Hotel deleted", zap.Int64("hotel_id", id))
	return nil
}

func (s *Service) evict(ctx context.Context, city string) {
	if s.evictor != nil {
		s.evictor.EvictCity(ctx, city)
	}
}

func parseID(payload json.RawMessage) (int64, error) {
	payload = bytes.TrimSpace(payload)
	var id int64
	if len(payload) > 0 && payload[0] == '{' {
		var body struct {
			ID json.Number `json:"id"`
		}
		if err := json.Unmarshal(payload, &body); err != nil {
			return 0, fmt.Errorf("%w: payload: %w", domain.ErrInvalidHotel, err)
		}
		n, err := strconv.ParseInt(body.ID.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: id %q", domain.ErrInvalidHotel, body.ID)
		}
		id = n
	} else {
		n, err := strconv.ParseInt(string(bytes.Trim(payload, `"`)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: id %q", domain.ErrInvalidHotel, payload)
		}
		id = n
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: id must be positive, got %d", domain.ErrInvalidHotel, id)
	}
	return id, nil
}

// eventLabel bounds metric cardinality to known event types.
func eventLabel(t string) string {
	switch t {
	case EventUpsert, EventDelete:
		return t
	default:
		return "unknown"
	}
}
