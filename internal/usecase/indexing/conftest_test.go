package indexing

import (
	"context"

	"github.com/kailas-cloud/hotelsearch/internal/domain/hotel"
)

type mockIndexer struct {
	indexFn  func(ctx context.Context, h hotel.Hotel) error
	deleteFn func(ctx context.Context, id int64) error
	indexed  []hotel.Hotel
	deleted  []int64
}

func (m *mockIndexer) Index(ctx context.Context, h hotel.Hotel) error {
	m.indexed = append(m.indexed, h)
	if m.indexFn != nil {
		return m.indexFn(ctx, h)
	}
	return nil
}

func (m *mockIndexer) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockEvictor struct {
	cities []string
}

func (m *mockEvictor) EvictCity(_ context.Context, city string) {
	m.cities = append(m.cities, city)
}
