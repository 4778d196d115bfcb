package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz id does not resolve.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAlreadyCompleted is returned when a (user, quiz) completion already exists.
	ErrAlreadyCompleted = errors.New("quiz already completed")
	// ErrUnauthenticated is returned when no user could be resolved for a request.
	ErrUnauthenticated = errors.New("no authenticated user")
)

// ValidationError reports the first rule violation found in a quiz draft.
type ValidationError struct {
	Question int // 1-based question number, 0 for quiz-level violations
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Question > 0 {
		return fmt.Sprintf("question %d: %s", e.Question, e.Reason)
	}
	return e.Reason
}
