package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-grading-service/internal/domain"
)

// PointsStore maintains the cumulative point total per user. The increment is
// a single upsert so concurrent grading of different quizzes by the same user
// cannot lose updates.
type PointsStore struct {
	pool *pgxpool.Pool
}

func NewPointsStore(pool *pgxpool.Pool) *PointsStore {
	return &PointsStore{pool: pool}
}

func (s *PointsStore) IncrementPoints(ctx context.Context, userID string, delta int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_points (user_id, points) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET points = user_points.points + EXCLUDED.points`,
		userID, delta)
	if err != nil {
		return fmt.Errorf("increment points: %w", err)
	}
	return nil
}

// Ledger appends point transactions; rows are never updated or deleted.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

func (l *Ledger) Append(ctx context.Context, tx domain.PointTransaction) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO point_transactions (id, user_id, action, type, points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.ID, tx.UserID, tx.Action, tx.Type, tx.Points, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}
