package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
)

// MemoryStore keeps feedback in process memory. Used for local runs without a
// database and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.FeedbackRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(ctx context.Context, rec models.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return wrap("memory", "insert", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = strconv.Itoa(len(s.records) + 1)
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]models.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("memory", "list_recent", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		return []models.FeedbackRecord{}, nil
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]models.FeedbackRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
