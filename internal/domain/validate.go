package domain

import (
	"fmt"
	"strings"
)

// ValidateQuiz checks a quiz draft before it is persisted and reports the
// first violation. It also normalizes the draft in place: QCM questions with
// no answerSelectionType get the "single" default.
func ValidateQuiz(q *Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return &ValidationError{Reason: "title must not be empty"}
	}
	if len(q.Questions) == 0 {
		return &ValidationError{Reason: "quiz must have at least one question"}
	}
	for i := range q.Questions {
		if err := validateQuestion(&q.Questions[i], i+1); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(q *Question, number int) error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Question: number, Reason: "text must not be empty"}
	}
	switch q.Type {
	case TypeQCM, TypeTrueFalse, TypeShortAnswer, TypeMatching, TypeFillBlank:
	default:
		return &ValidationError{Question: number, Reason: fmt.Sprintf("unknown question type %q", q.Type)}
	}
	if q.Points < 1 {
		return &ValidationError{Question: number, Reason: "points must be at least 1"}
	}
	if q.Type == TypeQCM {
		if len(q.AnswerOptions) < 2 {
			return &ValidationError{Question: number, Reason: "QCM questions need at least two answer options"}
		}
		if !q.Key.IsSet() {
			return &ValidationError{Question: number, Reason: "correctAnswer is required"}
		}
		if q.Key.Index < 0 || q.Key.Index >= len(q.AnswerOptions) {
			return &ValidationError{Question: number, Reason: fmt.Sprintf("correctAnswer index %d out of range for %d options", q.Key.Index, len(q.AnswerOptions))}
		}
		if q.AnswerSelectionType == "" {
			q.AnswerSelectionType = SelectionSingle
		}
	}
	return nil
}
