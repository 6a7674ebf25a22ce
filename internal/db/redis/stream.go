package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/hotelsearch/internal/db"
)

const defaultBlock = 2 * time.Second

// EnsureGroup creates the consumer group (and the stream) if it does not exist yet.
func (s *Store) EnsureGroup(ctx context.Context, stream, group string) error {
	cmd := s.b().XgroupCreate().Key(stream).Group(group).Id("0").Mkstream().Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if errorCode(err) == "BUSYGROUP" {
			return nil
		}
		return &db.Error{Op: db.OpGroupCreate, Err: err}
	}
	return nil
}

// ReadGroup reads new messages for the consumer. A block timeout returns no messages and no error.
func (s *Store) ReadGroup(ctx context.Context, args db.ReadGroupArgs) ([]db.StreamMessage, error) {
	count := args.Count
	if count <= 0 {
		count = 1
	}
	block := args.Block
	if block <= 0 {
		block = defaultBlock
	}
	id := args.ID
	if id == "" {
		id = ">"
	}

	cmd := s.b().Xreadgroup().
		Group(args.Group, args.Consumer).
		Count(count).
		Block(block.Milliseconds()).
		Streams().Key(args.Stream).Id(id).
		Build()

	streams, err := s.do(ctx, cmd).AsXRead()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpReadGroup, Err: err}
	}

	entries := streams[args.Stream]
	msgs := make([]db.StreamMessage, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, db.StreamMessage{ID: e.ID, Fields: e.FieldValues})
	}
	return msgs, nil
}

// Ack acknowledges processed messages.
func (s *Store) Ack(ctx context.Context, stream, group string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	cmd := s.b().Xack().Key(stream).Group(group).Id(ids...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpAck, Err: err}
	}
	return nil
}
