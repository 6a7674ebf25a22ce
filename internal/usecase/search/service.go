package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/query"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
	"github.com/kailas-cloud/hotelsearch/internal/metrics"
)

// Engine operation names used in errors, logs and metrics.
const (
	OpSearch  = "search"
	OpFacets  = "facets"
	OpSuggest = "suggest"
)

// DefaultTimeout bounds a single engine call.
const DefaultTimeout = 3 * time.Second

// Config tunes query construction and projection.
type Config struct {
	Timeout         time.Duration
	PromotedWeight  float64
	FacetBucketSize int
	SuggestSize     int
	HitPolicy       HitPolicy
	OpenEndedPrice  bool
	HighlightName   bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		PromotedWeight:  query.DefaultPromotedWeight,
		FacetBucketSize: plan.DefaultFacetBucketSize,
		SuggestSize:     plan.DefaultSuggestSize,
		HitPolicy:       HitPolicyStrict,
		HighlightName:   true,
	}
}

// Service builds hotel queries, dispatches them to the engine and projects the replies.
type Service struct {
	engine Engine
	cache  FacetCache
	cfg    Config
	logger *zap.Logger
}

// New creates a search service. Zero Config fields take DefaultConfig values.
func New(engine Engine, cfg Config, logger *zap.Logger) *Service {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PromotedWeight == 0 {
		cfg.PromotedWeight = def.PromotedWeight
	}
	if cfg.FacetBucketSize <= 0 {
		cfg.FacetBucketSize = def.FacetBucketSize
	}
	if cfg.SuggestSize <= 0 {
		cfg.SuggestSize = def.SuggestSize
	}
	if cfg.HitPolicy == "" {
		cfg.HitPolicy = def.HitPolicy
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, cfg: cfg, logger: logger}
}

// WithFacetCache enables facet caching.
func (s *Service) WithFacetCache(c FacetCache) *Service {
	s.cache = c
	return s
}

// Search returns one page of hotels matching c.
// An empty page is a valid result; errors always mean the query failed.
func (s *Service) Search(ctx context.Context, c criteria.Criteria) (result.Page, error) {
	pred := query.BuildPredicate(c, query.Options{OpenEndedPrice: s.cfg.OpenEndedPrice})
	q := query.Boost(pred, query.PromotedBoost(s.cfg.PromotedWeight))
	req := plan.ForSearch(c, q, plan.SearchOptions{HighlightName: s.cfg.HighlightName})

	resp, err := s.execute(ctx, OpSearch, req)
	if err != nil {
		return result.Page{}, fmt.Errorf("search hotels: %w", err)
	}
	hits, ok := resp.(*response.Hits)
	if !ok || hits == nil {
		return result.Page{}, unexpectedResponse(OpSearch, resp)
	}

	page, err := s.project(ctx, hits, req)
	if err != nil {
		return result.Page{}, fmt.Errorf("search hotels: %w", err)
	}
	return page, nil
}

// Facets returns the brand, city and star rating values available under c.
// Paging and geo origin in c are ignored; promoted listings are not boosted.
func (s *Service) Facets(ctx context.Context, c criteria.Criteria) (result.Facets, error) {
	key := c.CacheKey()
	if s.cache != nil {
		if f, ok := s.cache.Get(ctx, key); ok {
			return f, nil
		}
	}

	pred := query.BuildPredicate(c, query.Options{OpenEndedPrice: s.cfg.OpenEndedPrice})
	req := plan.ForFacets(pred, s.cfg.FacetBucketSize)

	resp, err := s.execute(ctx, OpFacets, req)
	if err != nil {
		return nil, fmt.Errorf("hotel facets: %w", err)
	}
	aggs, ok := resp.(*response.Aggregations)
	if !ok || aggs == nil {
		return nil, unexpectedResponse(OpFacets, resp)
	}

	facets := extractFacets(aggs, s.cfg.FacetBucketSize)
	if s.cache != nil {
		s.cache.Set(ctx, key, facets)
	}
	return facets, nil
}

// Suggest returns completion suggestions for prefix. A blank prefix yields no suggestions.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	if len([]rune(prefix)) > criteria.MaxKeywordLength {
		return nil, fmt.Errorf("%w: prefix exceeds %d characters", domain.ErrInvalidCriteria, criteria.MaxKeywordLength)
	}

	req := plan.ForSuggest(prefix, s.cfg.SuggestSize)
	resp, err := s.execute(ctx, OpSuggest, req)
	if err != nil {
		return nil, fmt.Errorf("hotel suggestions: %w", err)
	}
	sugg, ok := resp.(*response.Suggestions)
	if !ok || sugg == nil {
		return nil, unexpectedResponse(OpSuggest, resp)
	}
	return extractSuggestions(sugg, req.Name, req.Size), nil
}

// execute runs a single engine call under the configured timeout.
func (s *Service) execute(ctx context.Context, op string, req plan.Request) (response.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.engine.Execute(ctx, req)
	duration := time.Since(start)
	metrics.EngineRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		var ee *domain.EngineError
		if !errors.As(err, &ee) && errors.Is(err, context.DeadlineExceeded) {
			err = &domain.EngineError{Op: op, Err: fmt.Errorf("%w: %w", domain.ErrEngineTimeout, err)}
		}
		kind := errorKind(err)
		metrics.EngineErrorsTotal.WithLabelValues(op, kind).Inc()
		s.logger.Warn("Engine request failed",
			zap.String("op", op),
			zap.String("kind", kind),
			zap.Bool("retryable", domain.IsRetryable(err)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}
	if resp == nil {
		return nil, unexpectedResponse(op, nil)
	}
	return resp, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrEngineTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrEngineUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrQueryRejected):
		return "rejected"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "other"
	}
}

func unexpectedResponse(op string, resp response.Response) error {
	return &domain.EngineError{
		Op:     op,
		Reason: fmt.Sprintf("unexpected response type %T", resp),
		Err:    domain.ErrMalformedResponse,
	}
}
