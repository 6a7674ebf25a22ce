package hotelsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/db/elastic"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	searchuc "github.com/kailas-cloud/hotelsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the hotelsearch SDK entry point.
type Client struct {
	engine *elastic.Engine
	svc    *searchuc.Service
	limits criteria.Limits
}

// New creates a Client and waits for the cluster to answer.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("hotelsearch: elasticsearch address required (use WithElasticsearch)")
	}

	engine, err := elastic.NewEngine(elastic.Config{
		Addresses: cfg.addrs,
		Username:  cfg.username,
		Password:  cfg.password,
		Index:     cfg.index,
	})
	if err != nil {
		return nil, fmt.Errorf("hotelsearch: create engine: %w", err)
	}

	if cfg.readinessTimeout > 0 {
		if err := engine.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
			return nil, fmt.Errorf("hotelsearch: search engine not ready: %w", err)
		}
	}

	return wireClient(engine, cfg), nil
}

func wireClient(engine *elastic.Engine, cfg *clientConfig) *Client {
	policy := searchuc.HitPolicyStrict
	if cfg.lenient {
		policy = searchuc.HitPolicyLenient
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := searchuc.New(engine, searchuc.Config{
		Timeout:        cfg.timeout,
		PromotedWeight: cfg.promotedWeight,
		HitPolicy:      policy,
		HighlightName:  true,
	}, logger)

	limits := criteria.DefaultLimits()
	if cfg.maxPageSize > 0 {
		limits.MaxPageSize = cfg.maxPageSize
	}
	if limits.DefaultPageSize > limits.MaxPageSize {
		limits.DefaultPageSize = limits.MaxPageSize
	}

	return &Client{engine: engine, svc: svc, limits: limits}
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.engine.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns one page of hotels matching cr.
// Promoted hotels are boosted; a Location switches ordering to distance.
func (c *Client) Search(ctx context.Context, cr Criteria) (Page, error) {
	return c.search(ctx, cr.params())
}

func (c *Client) search(ctx context.Context, p criteria.Params) (Page, error) {
	ic, err := criteria.New(p, c.limits)
	if err != nil {
		return Page{}, err
	}
	page, err := c.svc.Search(ctx, ic)
	if err != nil {
		return Page{}, err
	}
	return fromInternalPage(page), nil
}

// Facets returns the brands, cities and star ratings available under cr.
// Paging and Location are ignored.
func (c *Client) Facets(ctx context.Context, cr Criteria) (Facets, error) {
	ic, err := cr.toInternal(c.limits)
	if err != nil {
		return nil, err
	}
	f, err := c.svc.Facets(ctx, ic)
	if err != nil {
		return nil, err
	}
	return fromInternalFacets(f), nil
}

// Suggest returns completions for prefix in engine order, without duplicates.
func (c *Client) Suggest(ctx context.Context, prefix string) ([]string, error) {
	s, err := c.svc.Suggest(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Query starts a fluent query.
func (c *Client) Query() Query {
	return Query{client: c}
}
