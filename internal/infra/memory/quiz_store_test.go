package memory

import (
	"context"
	"errors"
	"testing"

	"quiz-grading-service/internal/domain"
)

func TestQuizStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore(map[string]domain.Quiz{
		"quiz-1": {ID: "quiz-1", Title: "Seeded"},
	})

	quiz, err := store.GetQuiz(ctx, "quiz-1")
	if err != nil || quiz.Title != "Seeded" {
		t.Fatalf("expected seeded quiz, got %+v err=%v", quiz, err)
	}

	if err := store.PutQuiz(ctx, domain.Quiz{ID: "quiz-2", Title: "New"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.GetQuiz(ctx, "quiz-2"); err != nil {
		t.Fatalf("get after put: %v", err)
	}

	if err := store.DeleteQuiz(ctx, "quiz-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetQuiz(ctx, "quiz-2"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound after delete, got %v", err)
	}
	if err := store.DeleteQuiz(ctx, "quiz-2"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound for unknown delete, got %v", err)
	}
}
