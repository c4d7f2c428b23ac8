package history

import (
	"context"
	"sync"
	"time"

	"smartmarket/internal/domain"
)

// MemoryStore keeps history in process. Used when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.HistoryRecord
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Append(_ context.Context, records []domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		r.ID = s.nextID
		s.nextID++
		s.records = append(s.records, r)
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
	s.mu.RLock()
	out := append([]domain.HistoryRecord(nil), s.records...)
	s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	sortRecent(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Range(_ context.Context, from, to time.Time) ([]domain.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.HistoryRecord
	for _, r := range s.records {
		if !from.IsZero() && r.Date.Before(Day(from)) {
			continue
		}
		if !to.IsZero() && r.Date.After(Day(to)) {
			continue
		}
		out = append(out, r)
	}
	sortChronological(out)
	return out, nil
}
