package app

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"quiz-grading-service/internal/domain"
)

// AuthoringService owns the quiz create/update/delete path. Grading never
// writes quiz definitions; authoring never writes completions except through
// the deletion cascade.
type AuthoringService struct {
	quizzes     QuizStore
	completions CompletionStore
	newID       func() string
}

func NewAuthoringService(quizzes QuizStore, completions CompletionStore) *AuthoringService {
	return &AuthoringService{quizzes: quizzes, completions: completions, newID: uuid.NewString}
}

// GetQuiz loads a quiz definition, answer key included. Callers outside the
// grading engine must strip the key before transmission.
func (s *AuthoringService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// CreateQuiz validates a draft and persists it. Nothing is written when
// validation fails.
func (s *AuthoringService) CreateQuiz(ctx context.Context, draft domain.Quiz) (domain.Quiz, error) {
	if err := domain.ValidateQuiz(&draft); err != nil {
		return domain.Quiz{}, err
	}
	if draft.ID == "" {
		draft.ID = s.newID()
	}
	if err := s.quizzes.PutQuiz(ctx, draft); err != nil {
		return domain.Quiz{}, fmt.Errorf("persist quiz: %w", err)
	}
	return draft, nil
}

// UpdateQuiz validates a draft and replaces the stored quiz. The stored quiz
// is untouched when the draft is invalid or the id is unknown.
func (s *AuthoringService) UpdateQuiz(ctx context.Context, quizID string, draft domain.Quiz) (domain.Quiz, error) {
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.Quiz{}, err
	}
	draft.ID = quizID
	if err := domain.ValidateQuiz(&draft); err != nil {
		return domain.Quiz{}, err
	}
	if err := s.quizzes.PutQuiz(ctx, draft); err != nil {
		return domain.Quiz{}, fmt.Errorf("persist quiz: %w", err)
	}
	return draft, nil
}

// DeleteQuiz removes a quiz and cascades to its completions. There is no
// cross-entity transaction: a cascade failure leaves orphaned completions
// and is only logged.
func (s *AuthoringService) DeleteQuiz(ctx context.Context, quizID string) error {
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.completions.DeleteByQuiz(ctx, quizID); err != nil {
		log.Printf("cascade delete of completions for quiz %s failed: %v", quizID, err)
	}
	return nil
}
