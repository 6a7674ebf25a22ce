// Package stream consumes hotel change events from a Redis stream consumer group.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/db"
	"github.com/kailas-cloud/hotelsearch/internal/domain"
	"github.com/kailas-cloud/hotelsearch/internal/usecase/indexing"
)

// Message field names.
const (
	FieldEventType = "event_type"
	FieldPayload   = "payload"
)

const defaultBackoff = time.Second

// EventHandler processes one decoded event.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev indexing.Event) error
}

// streamStore is the consumer interface for the consumer (ISP).
type streamStore interface {
	EnsureGroup(ctx context.Context, stream, group string) error
	ReadGroup(ctx context.Context, args db.ReadGroupArgs) ([]db.StreamMessage, error)
	Ack(ctx context.Context, stream, group string, ids ...string) error
}

// Config selects the stream and consumer identity.
type Config struct {
	Stream    string
	Group     string
	Consumer  string
	BatchSize int64
	Block     time.Duration
	Backoff   time.Duration
}

// Consumer reads events, hands them to the handler and acknowledges them.
// Retryable failures stay pending and are replayed before new messages are read.
type Consumer struct {
	store   streamStore
	handler EventHandler
	cfg     Config
	logger  *zap.Logger

	replay   bool
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Consumer.
func New(store streamStore, handler EventHandler, cfg Config, logger *zap.Logger) *Consumer {
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	return &Consumer{
		store:   store,
		handler: handler,
		cfg:     cfg,
		logger:  logger,
		replay:  true,
		done:    make(chan struct{}),
	}
}

// Start ensures the consumer group exists and starts the read loop in the background.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.store.EnsureGroup(ctx, c.cfg.Stream, c.cfg.Group); err != nil {
		return fmt.Errorf("ensure consumer group: %w", err)
	}
	c.logger.Info("Starting stream consumer",
		zap.String("stream", c.cfg.Stream),
		zap.String("group", c.cfg.Group),
		zap.String("consumer", c.cfg.Consumer),
	)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.loop(ctx)
	}()
	return nil
}

// Stop signals the loop to exit and waits for the in-flight batch.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

func (c *Consumer) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stream consumer context cancelled, stopping")
			return
		case <-c.done:
			c.logger.Info("Stream consumer stopped")
			return
		default:
		}

		if err := c.poll(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.logger.Error("Failed to process stream batch", zap.Error(err))
			select {
			case <-time.After(c.cfg.Backoff):
			case <-ctx.Done():
			case <-c.done:
			}
		}
	}
}

// poll reads one batch and processes it. It returns an error when reading fails
// or when a message failed retryably, so the loop backs off before replaying.
func (c *Consumer) poll(ctx context.Context) error {
	args := db.ReadGroupArgs{
		Stream:   c.cfg.Stream,
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Count:    c.cfg.BatchSize,
		Block:    c.cfg.Block,
	}
	if c.replay {
		args.ID = "0"
	}

	msgs, err := c.store.ReadGroup(ctx, args)
	if err != nil {
		return err
	}
	if c.replay && len(msgs) == 0 {
		c.replay = false
		return nil
	}

	for _, m := range msgs {
		if err := c.process(ctx, m); err != nil {
			c.replay = true
			return err
		}
	}
	return nil
}

// process handles one message. Permanent failures are logged and acknowledged
// so a poison message cannot stall the group; retryable ones are left pending.
func (c *Consumer) process(ctx context.Context, m db.StreamMessage) error {
	ev := toEvent(m)
	err := c.handler.HandleEvent(ctx, ev)
	if err != nil {
		if domain.IsRetryable(err) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("message %s: %w", m.ID, err)
		}
		c.logger.Error("Dropping unprocessable event",
			zap.String("message_id", m.ID),
			zap.String("event_type", ev.Type),
			zap.Error(err),
		)
	}

	if err := c.store.Ack(ctx, c.cfg.Stream, c.cfg.Group, m.ID); err != nil {
		c.logger.Error("Failed to acknowledge message", zap.String("message_id", m.ID), zap.Error(err))
		c.replay = true
	}
	return nil
}

func toEvent(m db.StreamMessage) indexing.Event {
	return indexing.Event{
		ID:      m.ID,
		Type:    m.Fields[FieldEventType],
		Payload: json.RawMessage(m.Fields[FieldPayload]),
	}
}
