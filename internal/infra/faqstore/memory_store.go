package faqstore

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
)

type queryCount struct {
	display string
	count   int64
}

// MemoryStore is an in-process faq.QueryLog for tests/dev.
type MemoryStore struct {
	mu      sync.Mutex
	queries map[string]*queryCount
}

// NewMemoryStore constructs an empty query log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{queries: make(map[string]*queryCount)}
}

// IncrementQuery bumps the counter for canonical; the first display string wins.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.queries[canonical]
	if !ok {
		entry = &queryCount{display: display}
		s.queries[canonical] = entry
	}
	entry.count++
	return nil
}

// TopQueries returns the most frequent messages, ties ordered alphabetically.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]faq.TrendingQuery, error) {
	s.mu.Lock()
	items := make([]faq.TrendingQuery, 0, len(s.queries))
	for canonical, entry := range s.queries {
		display := entry.display
		if display == "" {
			display = canonical
		}
		items = append(items, faq.TrendingQuery{Query: display, Count: entry.count})
	}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ faq.QueryLog = (*MemoryStore)(nil)
