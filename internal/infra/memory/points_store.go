package memory

import (
	"context"
	"sync"

	"quiz-grading-service/internal/domain"
)

// PointsStore is an in-memory implementation of app.UserStore.
type PointsStore struct {
	mu     sync.RWMutex
	totals map[string]int
}

func NewPointsStore() *PointsStore {
	return &PointsStore{totals: make(map[string]int)}
}

func (s *PointsStore) IncrementPoints(_ context.Context, userID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals[userID] += delta
	return nil
}

// Total returns a user's cumulative point total.
func (s *PointsStore) Total(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals[userID]
}

// Ledger is an in-memory implementation of app.LedgerStore.
type Ledger struct {
	mu      sync.RWMutex
	entries []domain.PointTransaction
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(_ context.Context, tx domain.PointTransaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, tx)
	return nil
}

// Entries returns a copy of the appended transactions.
func (l *Ledger) Entries() []domain.PointTransaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.PointTransaction, len(l.entries))
	copy(out, l.entries)
	return out
}
