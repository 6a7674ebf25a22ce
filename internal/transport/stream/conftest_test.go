package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/db"
	"github.com/kailas-cloud/hotelsearch/internal/usecase/indexing"
)

type mockStreamStore struct {
	mu            sync.Mutex
	ensureGroupFn func(ctx context.Context, stream, group string) error
	readGroupFn   func(ctx context.Context, args db.ReadGroupArgs) ([]db.StreamMessage, error)
	ackFn         func(ctx context.Context, stream, group string, ids ...string) error
	reads         []db.ReadGroupArgs
	acked         []string
}

func (m *mockStreamStore) EnsureGroup(ctx context.Context, stream, group string) error {
	if m.ensureGroupFn != nil {
		return m.ensureGroupFn(ctx, stream, group)
	}
	return nil
}

func (m *mockStreamStore) ReadGroup(ctx context.Context, args db.ReadGroupArgs) ([]db.StreamMessage, error) {
	m.mu.Lock()
	m.reads = append(m.reads, args)
	fn := m.readGroupFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, args)
	}
	return nil, nil
}

func (m *mockStreamStore) Ack(ctx context.Context, stream, group string, ids ...string) error {
	m.mu.Lock()
	m.acked = append(m.acked, ids...)
	fn := m.ackFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, stream, group, ids...)
	}
	return nil
}

func (m *mockStreamStore) ackedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

type mockHandler struct {
	mu       sync.Mutex
	handleFn func(ctx context.Context, ev indexing.Event) error
	events   []indexing.Event
}

func (m *mockHandler) HandleEvent(ctx context.Context, ev indexing.Event) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	fn := m.handleFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, ev)
	}
	return nil
}

func (m *mockHandler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func newTestConsumer(t *testing.T, store *mockStreamStore, handler *mockHandler) *Consumer {
	t.Helper()
	return New(store, handler, Config{
		Stream:    "hotels",
		Group:     "hotelsearch",
		Consumer:  "worker-1",
		BatchSize: 10,
		Block:     10 * time.Millisecond,
		Backoff:   5 * time.Millisecond,
	}, zap.NewNop())
}

func message(id, eventType, payload string) db.StreamMessage {
	return db.StreamMessage{ID: id, Fields: map[string]string{FieldEventType: eventType, FieldPayload: payload}}
}
