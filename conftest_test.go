package hotelsearch

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeES is a minimal Elasticsearch 7.14 node answering _search with a fixed body.
type fakeES struct {
	srv *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	searches []map[string]any
}

func newFakeES(t *testing.T) *fakeES {
	t.Helper()
	f := &fakeES{status: http.StatusOK, body: `{"hits":{"total":{"value":0},"hits":[]}}`}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, `{"version":{"number":"7.14.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
			return
		}

		var q map[string]any
		_ = json.NewDecoder(r.Body).Decode(&q)

		f.mu.Lock()
		f.searches = append(f.searches, q)
		status, body := f.status, f.body
		f.mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeES) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

func (f *fakeES) lastSearch(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.searches) == 0 {
		t.Fatal("no search request received")
	}
	return f.searches[len(f.searches)-1]
}

func (f *fakeES) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func newTestClient(t *testing.T, f *fakeES, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithElasticsearch(f.srv.URL),
		WithReadinessTimeout(2 * time.Second),
	}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func intPtr(v int) *int { return &v }
