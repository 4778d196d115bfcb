package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-grading-service/internal/domain"
)

// CompletionStore persists completion records. The quiz_completions table
// carries UNIQUE (user_id, quiz_id); the conditional insert turns the losing
// side of a concurrent duplicate submission into ErrAlreadyCompleted instead
// of a double point grant.
type CompletionStore struct {
	pool *pgxpool.Pool
}

func NewCompletionStore(pool *pgxpool.Pool) *CompletionStore {
	return &CompletionStore{pool: pool}
}

func (s *CompletionStore) Completed(ctx context.Context, userID, quizID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quiz_completions WHERE user_id=$1 AND quiz_id=$2)`,
		userID, quizID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	return exists, nil
}

func (s *CompletionStore) Insert(ctx context.Context, completion domain.Completion) error {
	answers, err := json.Marshal(completion.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO quiz_completions
			(id, user_id, quiz_id, course_id, section_id, score, max_score, answers, time_spent_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, quiz_id) DO NOTHING`,
		completion.ID, completion.UserID, completion.QuizID,
		completion.CourseID, completion.SectionID,
		completion.Score, completion.MaxScore, answers,
		completion.TimeSpent.Milliseconds(), completion.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyCompleted
	}
	return nil
}

func (s *CompletionStore) DeleteByQuiz(ctx context.Context, quizID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM quiz_completions WHERE quiz_id=$1`, quizID)
	if err != nil {
		return fmt.Errorf("delete completions: %w", err)
	}
	return nil
}
