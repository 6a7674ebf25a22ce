package search

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
)

// mockEngine records requests and delegates to executeFn.
type mockEngine struct {
	executeFn func(ctx context.Context, req plan.Request) (response.Response, error)
	requests  []plan.Request
}

func (m *mockEngine) Execute(ctx context.Context, req plan.Request) (response.Response, error) {
	m.requests = append(m.requests, req)
	if m.executeFn != nil {
		return m.executeFn(ctx, req)
	}
	return &response.Hits{}, nil
}

func (m *mockEngine) lastSearch(t *testing.T) *plan.Search {
	t.Helper()
	if len(m.requests) == 0 {
		t.Fatal("engine was not called")
	}
	s, ok := m.requests[len(m.requests)-1].(*plan.Search)
	if !ok {
		t.Fatalf("last request = %T, want *plan.Search", m.requests[len(m.requests)-1])
	}
	return s
}

// mockCache is an in-memory FacetCache.
type mockCache struct {
	mu   sync.Mutex
	data map[string]result.Facets
	gets int
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]result.Facets)}
}

func (m *mockCache) Get(_ context.Context, key string) (result.Facets, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	f, ok := m.data[key]
	return f, ok
}

func (m *mockCache) Set(_ context.Context, key string, f result.Facets) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = f
}

func newTestService(engine Engine, cfg Config) *Service {
	return New(engine, cfg, zap.NewNop())
}

func mustCriteria(t *testing.T, p criteria.Params) criteria.Criteria {
	t.Helper()
	c, err := criteria.New(p, criteria.DefaultLimits())
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	return c
}

func intPtr(v int) *int { return &v }

func source(t *testing.T, h hotel.Hotel) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal hotel: %v", err)
	}
	return b
}

func hitsResponse(total uint64, items ...response.RawHit) func(context.Context, plan.Request) (response.Response, error) {
	return func(context.Context, plan.Request) (response.Response, error) {
		return &response.Hits{Total: total, Items: items}, nil
	}
}
