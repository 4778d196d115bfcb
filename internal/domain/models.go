package domain

import (
	"encoding/json"
	"math"
	"time"
)

// QuestionType discriminates the grading rule applied to a question.
type QuestionType string

const (
	TypeQCM         QuestionType = "QCM"
	TypeTrueFalse   QuestionType = "TrueFalse"
	TypeShortAnswer QuestionType = "ShortAnswer"
	TypeMatching    QuestionType = "Matching"
	TypeFillBlank   QuestionType = "FillBlank"
)

// SelectionSingle is the default answerSelectionType for QCM questions.
const SelectionSingle = "single"

// AnswerKey is the per-type answer key for a question. Exactly one variant
// is meaningful, selected by the owning question's type.
type AnswerKey struct {
	Index  int      // QCM: index into AnswerOptions
	Truth  bool     // TrueFalse
	Text   string   // ShortAnswer
	Values []string // Matching, FillBlank

	set bool
}

// ChoiceKey builds a QCM key pointing at an answer option index.
func ChoiceKey(index int) AnswerKey { return AnswerKey{Index: index, set: true} }

// BoolKey builds a TrueFalse key.
func BoolKey(truth bool) AnswerKey { return AnswerKey{Truth: truth, set: true} }

// TextKey builds a ShortAnswer key.
func TextKey(text string) AnswerKey { return AnswerKey{Text: text, set: true} }

// SequenceKey builds a Matching or FillBlank key.
func SequenceKey(values ...string) AnswerKey { return AnswerKey{Values: values, set: true} }

// IsSet reports whether the key was present in the source document.
func (k AnswerKey) IsSet() bool { return k.set }

// Question is one prompt inside a quiz. Question order within the quiz is
// positional: submitted answers are matched to questions by index.
type Question struct {
	Text                string
	Type                QuestionType
	AnswerOptions       []string
	AnswerSelectionType string
	Key                 AnswerKey
	Points              int
}

type questionJSON struct {
	Text                string          `json:"text"`
	Type                QuestionType    `json:"type"`
	AnswerOptions       []string        `json:"answerOptions,omitempty"`
	AnswerSelectionType string          `json:"answerSelectionType,omitempty"`
	CorrectAnswer       json.RawMessage `json:"correctAnswer,omitempty"`
	Points              int             `json:"points"`
}

// UnmarshalJSON decodes the polymorphic correctAnswer field (scalar or array
// depending on the question type) into the matching AnswerKey variant.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.Text = raw.Text
	q.Type = raw.Type
	q.AnswerOptions = raw.AnswerOptions
	q.AnswerSelectionType = raw.AnswerSelectionType
	q.Points = raw.Points
	q.Key = decodeKey(raw.Type, raw.CorrectAnswer)
	return nil
}

// MarshalJSON writes correctAnswer back in its natural wire shape.
func (q Question) MarshalJSON() ([]byte, error) {
	raw := questionJSON{
		Text:                q.Text,
		Type:                q.Type,
		AnswerOptions:       q.AnswerOptions,
		AnswerSelectionType: q.AnswerSelectionType,
		Points:              q.Points,
	}
	if q.Key.set {
		var key any
		switch q.Type {
		case TypeQCM:
			key = q.Key.Index
		case TypeTrueFalse:
			key = q.Key.Truth
		case TypeShortAnswer:
			key = q.Key.Text
		case TypeMatching, TypeFillBlank:
			key = q.Key.Values
		}
		if key != nil {
			encoded, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			raw.CorrectAnswer = encoded
		}
	}
	return json.Marshal(raw)
}

func decodeKey(typ QuestionType, raw json.RawMessage) AnswerKey {
	if len(raw) == 0 || string(raw) == "null" {
		return AnswerKey{}
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return AnswerKey{}
	}
	switch typ {
	case TypeQCM:
		if idx, ok := choiceIndex(value); ok {
			return ChoiceKey(idx)
		}
		return AnswerKey{}
	case TypeTrueFalse:
		return BoolKey(truthy(value))
	case TypeShortAnswer:
		return TextKey(stringify(value))
	case TypeMatching, TypeFillBlank:
		return SequenceKey(toSequence(value)...)
	default:
		return AnswerKey{}
	}
}

// Quiz is an authored quiz document. The section reference is opaque and only
// used to stamp completions.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CourseID    string     `json:"courseId,omitempty"`
	SectionID   string     `json:"sectionId,omitempty"`
	Questions   []Question `json:"questions"`
}

// MaxScore is the sum of all question points.
func (q Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// AnswerReview records the grading outcome for one question position.
type AnswerReview struct {
	QuestionIndex int  `json:"questionIndex"`
	UserAnswer    any  `json:"userAnswer"`
	IsCorrect     bool `json:"isCorrect"`
	PointsEarned  int  `json:"pointsEarned"`
}

// GradeResult is the response of a graded submission.
type GradeResult struct {
	Score      int            `json:"score"`
	MaxScore   int            `json:"maxScore"`
	Percentage int            `json:"percentage"`
	Answers    []AnswerReview `json:"answers"`
}

// Percent returns round(100*score/max). A zero max yields 0; authoring
// validation keeps that case unreachable for stored quizzes.
func Percent(score, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(max)))
}

// Completion is the immutable record of one user finishing one quiz. At most
// one exists per (UserID, QuizID) pair, ever.
type Completion struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	QuizID    string         `json:"quizId"`
	CourseID  string         `json:"courseId,omitempty"`
	SectionID string         `json:"sectionId,omitempty"`
	Score     int            `json:"score"`
	MaxScore  int            `json:"maxScore"`
	Answers   []AnswerReview `json:"answers"`
	TimeSpent time.Duration  `json:"timeSpent,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// TransactionType marks a ledger entry as a gain or a loss.
type TransactionType string

const (
	TransactionGain TransactionType = "gain"
	TransactionLoss TransactionType = "loss"
)

// ActionCompleteQuiz is the ledger action stamped by the grading path.
const ActionCompleteQuiz = "completeQuiz"

// PointTransaction is an append-only ledger entry, kept for auditability
// independent of the mutable running total.
type PointTransaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Action    string          `json:"action"`
	Type      TransactionType `json:"type"`
	Points    int             `json:"points"`
	CreatedAt time.Time       `json:"createdAt"`
}
