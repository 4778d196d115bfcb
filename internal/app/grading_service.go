package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"quiz-grading-service/internal/domain"
)

// QuizStore abstracts how quiz definitions are stored (in-memory, Postgres
// behind a Redis cache, etc).
type QuizStore interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	PutQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

// CompletionStore is the append-only completion ledger. Insert must enforce
// uniqueness of (UserID, QuizID) at the storage layer and return
// domain.ErrAlreadyCompleted for a duplicate pair, so concurrent submissions
// cannot both award points.
type CompletionStore interface {
	Completed(ctx context.Context, userID, quizID string) (bool, error)
	Insert(ctx context.Context, completion domain.Completion) error
	DeleteByQuiz(ctx context.Context, quizID string) error
}

// UserStore maintains the mutable cumulative point total per user. The
// increment must be atomic at the storage layer.
type UserStore interface {
	IncrementPoints(ctx context.Context, userID string, delta int) error
}

// LedgerStore appends point transactions.
type LedgerStore interface {
	Append(ctx context.Context, tx domain.PointTransaction) error
}

// GradingService accepts quiz submissions, grades them and drives the point
// side effects from that single grading event.
type GradingService struct {
	quizzes     QuizStore
	completions CompletionStore
	users       UserStore
	ledger      LedgerStore
	events      *EventBus
	now         func() time.Time
	newID       func() string
}

func NewGradingService(quizzes QuizStore, completions CompletionStore, users UserStore, ledger LedgerStore, events *EventBus) *GradingService {
	return &GradingService{
		quizzes:     quizzes,
		completions: completions,
		users:       users,
		ledger:      ledger,
		events:      events,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Submit grades a user's answers against the quiz identified by quizID.
// Answers are matched to questions positionally; missing entries grade as
// that question type's empty case. A user completes a given quiz at most
// once: the second submission fails with domain.ErrAlreadyCompleted.
//
// Once the completion record is persisted it is the score of record. Failures
// of the later side effects (point increment, ledger append, badge trigger)
// are logged and the grade is still returned.
func (s *GradingService) Submit(ctx context.Context, userID, quizID string, answers []any, timeSpent time.Duration) (domain.GradeResult, error) {
	if userID == "" {
		return domain.GradeResult{}, domain.ErrUnauthenticated
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.GradeResult{}, err
	}

	done, err := s.completions.Completed(ctx, userID, quizID)
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("check completion: %w", err)
	}
	if done {
		return domain.GradeResult{}, domain.ErrAlreadyCompleted
	}

	score := 0
	reviews := make([]domain.AnswerReview, 0, len(quiz.Questions))
	for i, question := range quiz.Questions {
		var submitted any
		if i < len(answers) {
			submitted = answers[i]
		}
		correct, earned := domain.Evaluate(question, submitted)
		score += earned
		reviews = append(reviews, domain.AnswerReview{
			QuestionIndex: i,
			UserAnswer:    submitted,
			IsCorrect:     correct,
			PointsEarned:  earned,
		})
	}
	maxScore := quiz.MaxScore()

	completion := domain.Completion{
		ID:        s.newID(),
		UserID:    userID,
		QuizID:    quizID,
		CourseID:  quiz.CourseID,
		SectionID: quiz.SectionID,
		Score:     score,
		MaxScore:  maxScore,
		Answers:   reviews,
		TimeSpent: timeSpent,
		CreatedAt: s.now(),
	}
	if err := s.completions.Insert(ctx, completion); err != nil {
		// A concurrent submission may win the insert; treat the loser as a
		// plain duplicate.
		if errors.Is(err, domain.ErrAlreadyCompleted) {
			return domain.GradeResult{}, domain.ErrAlreadyCompleted
		}
		return domain.GradeResult{}, fmt.Errorf("persist completion: %w", err)
	}

	if err := s.users.IncrementPoints(ctx, userID, score); err != nil {
		log.Printf("increment points for user %s failed: %v", userID, err)
	}
	if score > 0 {
		tx := domain.PointTransaction{
			ID:        s.newID(),
			UserID:    userID,
			Action:    domain.ActionCompleteQuiz,
			Type:      domain.TransactionGain,
			Points:    score,
			CreatedAt: s.now(),
		}
		if err := s.ledger.Append(ctx, tx); err != nil {
			log.Printf("ledger append for user %s failed: %v", userID, err)
		}
	}
	s.events.Publish(CompletionRecorded{
		UserID:   userID,
		QuizID:   quizID,
		Score:    score,
		MaxScore: maxScore,
		At:       completion.CreatedAt,
	})

	return domain.GradeResult{
		Score:      score,
		MaxScore:   maxScore,
		Percentage: domain.Percent(score, maxScore),
		Answers:    reviews,
	}, nil
}
