package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/chartlayout/pkg/chartdoc"
)

// MemoryStore keeps layouts in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]chartdoc.Layout
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]chartdoc.Layout)}
}

func (s *MemoryStore) Save(ctx context.Context, l *chartdoc.Layout) error {
	if err := prepare(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[l.ID] = *l
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*chartdoc.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[id]
	if !ok {
		return nil, notFound(id)
	}
	return &l, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]chartdoc.Layout, error) {
	s.mu.RLock()
	out := make([]chartdoc.Layout, 0, len(s.layouts))
	for _, l := range s.layouts {
		out = append(out, l)
	}
	s.mu.RUnlock()
	sortNewest(out)
	return out[:min(len(out), listLimit(limit))], nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// sortNewest orders layouts by creation time, newest first, then by id.
func sortNewest(ls []chartdoc.Layout) {
	slices.SortFunc(ls, func(a, b chartdoc.Layout) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

var _ Store = (*MemoryStore)(nil)
