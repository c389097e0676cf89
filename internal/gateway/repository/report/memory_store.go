package report

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and local runs without a
// database.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byUser map[string][]Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, byUser: make(map[string][]Report)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) ListByUser(_ context.Context, userID string, offset, limit int) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := append([]Report(nil), s.byUser[userID]...)
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if offset >= len(reports) {
		return nil, nil
	}
	reports = reports[offset:]
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (s *MemoryStore) Create(_ context.Context, userID string, rep Report) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep.ID = s.nextID
	s.nextID++
	rep.UserID = userID
	rep.CreatedAt = time.Now().UTC()
	s.byUser[userID] = append(s.byUser[userID], rep)
	return rep, nil
}
