// Package elastic executes search plans against Elasticsearch 7.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
)

// DefaultIndex is the hotel index name.
const DefaultIndex = "hotel"

// Engine operation names used in errors.
const (
	OpSearch  = "search"
	OpFacets  = "facets"
	OpSuggest = "suggest"
	OpIndex   = "index"
	OpDelete  = "delete"
	OpPing    = "ping"
)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addresses    []string
	Username     string
	Password     string
	Index        string
	MaxRetries   int
	DisableRetry bool
}

// Engine implements the search usecase Engine and the sync Indexer over one index.
type Engine struct {
	client *elasticsearch.Client
	index  string
}

// NewEngine creates an Elasticsearch-backed engine.
func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}
	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Engine{client: client, index: index}, nil
}

// Execute renders req to the query DSL, runs it and decodes the reply into the matching response kind.
func (e *Engine) Execute(ctx context.Context, req plan.Request) (response.Response, error) {
	switch r := req.(type) {
	case *plan.Search:
		var body searchBody
		if err := e.search(ctx, OpSearch, renderSearch(r), &body); err != nil {
			return nil, err
		}
		return body.hits(), nil
	case *plan.Facets:
		var body searchBody
		if err := e.search(ctx, OpFacets, renderFacets(r), &body); err != nil {
			return nil, err
		}
		return body.aggregations(), nil
	case *plan.Suggest:
		var body searchBody
		if err := e.search(ctx, OpSuggest, renderSuggest(r), &body); err != nil {
			return nil, err
		}
		return body.suggestions(), nil
	default:
		return nil, fmt.Errorf("unsupported request %T", req)
	}
}

func (e *Engine) search(ctx context.Context, op string, query map[string]any, out *searchBody) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return fmt.Errorf("encode %s query: %w", op, err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return transportError(op, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(op, res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return malformedError(op, res.StatusCode, err)
	}
	return nil
}

// Index writes a hotel document under its id, replacing any previous version.
func (e *Engine) Index(ctx context.Context, h hotel.Hotel) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(h); err != nil {
		return fmt.Errorf("encode hotel %d: %w", h.ID, err)
	}
	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: h.DocumentID(),
		Body:       &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return transportError(OpIndex, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(OpIndex, res)
	}
	return nil
}

// Delete removes a hotel document. A missing document is not an error.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: strconv.FormatInt(id, 10),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return transportError(OpDelete, err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return nil
	}
	if res.IsError() {
		return responseError(OpDelete, res)
	}
	return nil
}

// Ping checks cluster connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return transportError(OpPing, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(OpPing, res)
	}
	return nil
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (e *Engine) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search engine: %w", ctx.Err())
		case <-ticker.C:
			if err := e.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
