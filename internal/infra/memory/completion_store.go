package memory

import (
	"context"
	"sync"

	"quiz-grading-service/internal/domain"
)

type completionKey struct {
	userID string
	quizID string
}

// CompletionStore is an in-memory implementation of app.CompletionStore. The
// (user, quiz) uniqueness invariant is enforced under the store mutex, same
// as the unique index does for the Postgres store.
type CompletionStore struct {
	mu          sync.RWMutex
	completions map[completionKey]domain.Completion
}

func NewCompletionStore() *CompletionStore {
	return &CompletionStore{completions: make(map[completionKey]domain.Completion)}
}

func (s *CompletionStore) Completed(_ context.Context, userID, quizID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.completions[completionKey{userID, quizID}]
	return ok, nil
}

func (s *CompletionStore) Insert(_ context.Context, completion domain.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := completionKey{completion.UserID, completion.QuizID}
	if _, ok := s.completions[key]; ok {
		return domain.ErrAlreadyCompleted
	}
	s.completions[key] = completion
	return nil
}

func (s *CompletionStore) DeleteByQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.completions {
		if key.quizID == quizID {
			delete(s.completions, key)
		}
	}
	return nil
}

// Get returns the stored completion for a pair, if any. Test helper.
func (s *CompletionStore) Get(userID, quizID string) (domain.Completion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	completion, ok := s.completions[completionKey{userID, quizID}]
	return completion, ok
}
