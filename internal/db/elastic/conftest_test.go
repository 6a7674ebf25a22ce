package elastic

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
)

// recordedRequest is one call the fake cluster received.
type recordedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// fakeCluster is an httptest-backed Elasticsearch 7.14 node.
// handleFn answers everything except the product check on GET /.
type fakeCluster struct {
	srv      *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	handleFn func(w http.ResponseWriter, r *http.Request, body []byte)
}

func newFakeCluster(t *testing.T) *fakeCluster {
	t.Helper()
	fc := &fakeCluster{}
	fc.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/" && r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"version":{"number":"7.14.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
			return
		}

		body, _ := io.ReadAll(r.Body)
		fc.mu.Lock()
		fc.requests = append(fc.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		handle := fc.handleFn
		fc.mu.Unlock()

		if handle == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{}`)
			return
		}
		handle(w, r, body)
	}))
	t.Cleanup(fc.srv.Close)
	return fc
}

func (fc *fakeCluster) handle(fn func(w http.ResponseWriter, r *http.Request, body []byte)) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.handleFn = fn
}

func (fc *fakeCluster) respond(status int, body string) {
	fc.handle(func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (fc *fakeCluster) last(t *testing.T) recordedRequest {
	t.Helper()
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if len(fc.requests) == 0 {
		t.Fatal("cluster received no requests")
	}
	return fc.requests[len(fc.requests)-1]
}

func newTestEngine(t *testing.T, fc *fakeCluster) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Addresses: []string{fc.srv.URL}, DisableRetry: true})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// assertJSON compares got (any JSON-encodable value or raw bytes) with want structurally.
func assertJSON(t *testing.T, got any, want string) {
	t.Helper()
	var raw []byte
	switch g := got.(type) {
	case []byte:
		raw = g
	default:
		b, err := json.Marshal(g)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		raw = b
	}
	var gv, wv any
	if err := json.Unmarshal(raw, &gv); err != nil {
		t.Fatalf("unmarshal got: %v", err)
	}
	if err := json.Unmarshal([]byte(want), &wv); err != nil {
		t.Fatalf("unmarshal want: %v", err)
	}
	if !reflect.DeepEqual(gv, wv) {
		t.Errorf("JSON mismatch\n got: %s\nwant: %s", raw, want)
	}
}
