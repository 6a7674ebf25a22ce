package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/plan"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/response"
	healthuc "github.com/kailas-cloud/hotelsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hotelsearch/internal/usecase/search"
)

type mockEngine struct {
	executeFn func(ctx context.Context, req plan.Request) (response.Response, error)
	requests  []plan.Request
}

func (m *mockEngine) Execute(ctx context.Context, req plan.Request) (response.Response, error) {
	m.requests = append(m.requests, req)
	if m.executeFn != nil {
		return m.executeFn(ctx, req)
	}
	switch req.(type) {
	case *plan.Facets:
		return &response.Aggregations{}, nil
	case *plan.Suggest:
		return &response.Suggestions{}, nil
	default:
		return &response.Hits{}, nil
	}
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

type testServer struct {
	engine *mockEngine
	router http.Handler
}

func newTestServer(t *testing.T, engine *mockEngine, enginePing, cachePing *mockPinger) *testServer {
	t.Helper()
	if engine == nil {
		engine = &mockEngine{}
	}
	if enginePing == nil {
		enginePing = &mockPinger{}
	}
	var health *healthuc.Service
	if cachePing != nil {
		health = healthuc.New(enginePing, cachePing)
	} else {
		health = healthuc.New(enginePing, nil)
	}

	svc := searchuc.New(engine, searchuc.DefaultConfig(), zap.NewNop())
	srv := NewServer(svc, health, criteria.DefaultLimits(), zap.NewNop())

	r := chi.NewRouter()
	srv.Routes(r)
	return &testServer{engine: engine, router: r}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func hotelSource(t *testing.T, h hotel.Hotel) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal hotel: %v", err)
	}
	return b
}

func intPtr(v int) *int { return &v }
