// Package db defines the key-value and stream storage contracts used by the cache and sync worker.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	StreamStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// StreamMessage is a single entry read from a stream by a consumer group.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ReadGroupArgs selects what a consumer group read returns.
// An empty ID reads new messages (">"); "0" replays the consumer's pending entries.
type ReadGroupArgs struct {
	Stream   string
	Group    string
	Consumer string
	ID       string
	Count    int64
	Block    time.Duration
}

// StreamStore provides consumer-group stream operations.
type StreamStore interface {
	EnsureGroup(ctx context.Context, stream, group string) error
	ReadGroup(ctx context.Context, args ReadGroupArgs) ([]StreamMessage, error)
	Ack(ctx context.Context, stream, group string, ids ...string) error
}
