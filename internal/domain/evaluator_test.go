package domain_test

import (
	"testing"

	"quiz-grading-service/internal/domain"
)

func TestEvaluateQCM(t *testing.T) {
	question := domain.Question{
		Type:          domain.TypeQCM,
		AnswerOptions: []string{"Paris", "Lyon", "Nice"},
		Key:           domain.ChoiceKey(1),
		Points:        4,
	}

	cases := []struct {
		name      string
		submitted any
		want      bool
	}{
		{"index as string", "1", true},
		{"index as number", float64(1), true},
		{"padded string index", " 1 ", true},
		{"other valid index", "2", false},
		{"option text instead of index", "Lyon", false},
		{"missing answer", nil, false},
		{"fractional number", 1.5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			correct, points := domain.Evaluate(question, tc.submitted)
			if correct != tc.want {
				t.Fatalf("correct = %v, want %v", correct, tc.want)
			}
			wantPoints := 0
			if tc.want {
				wantPoints = 4
			}
			if points != wantPoints {
				t.Fatalf("points = %d, want %d", points, wantPoints)
			}
		})
	}
}

func TestEvaluateQCMWithoutKey(t *testing.T) {
	question := domain.Question{
		Type:          domain.TypeQCM,
		AnswerOptions: []string{"Paris", "Lyon"},
		Points:        5,
	}

	for _, submitted := range []any{"0", float64(0), "1", nil} {
		if correct, points := domain.Evaluate(question, submitted); correct || points != 0 {
			t.Fatalf("keyless question graded %v as correct=%v points=%d", submitted, correct, points)
		}
	}
}

func TestEvaluateTrueFalse(t *testing.T) {
	question := domain.Question{Type: domain.TypeTrueFalse, Key: domain.BoolKey(true), Points: 3}

	for _, submitted := range []any{"true", "TRUE", true, "1", float64(1)} {
		if correct, points := domain.Evaluate(question, submitted); !correct || points != 3 {
			t.Fatalf("expected %v to be correct, got correct=%v points=%d", submitted, correct, points)
		}
	}
	for _, submitted := range []any{"false", "0", false, "yes", nil, ""} {
		if correct, points := domain.Evaluate(question, submitted); correct || points != 0 {
			t.Fatalf("expected %v to be incorrect, got correct=%v points=%d", submitted, correct, points)
		}
	}

	negated := domain.Question{Type: domain.TypeTrueFalse, Key: domain.BoolKey(false), Points: 3}
	if correct, _ := domain.Evaluate(negated, "anything else"); !correct {
		t.Fatalf("expected non-truthy submission to match a false key")
	}
}

func TestEvaluateShortAnswer(t *testing.T) {
	question := domain.Question{Type: domain.TypeShortAnswer, Key: domain.TextKey(" Paris "), Points: 2}

	for _, submitted := range []any{"paris", "  PARIS  ", "Paris"} {
		if correct, _ := domain.Evaluate(question, submitted); !correct {
			t.Fatalf("expected %q to be correct", submitted)
		}
	}
	for _, submitted := range []any{"lyon", nil, "par is"} {
		if correct, _ := domain.Evaluate(question, submitted); correct {
			t.Fatalf("expected %v to be incorrect", submitted)
		}
	}
}

func TestEvaluateMatchingIsOrderIndependent(t *testing.T) {
	question := domain.Question{Type: domain.TypeMatching, Key: domain.SequenceKey("a", "b"), Points: 6}

	cases := []struct {
		name      string
		submitted any
		want      bool
	}{
		{"same order", []any{"a", "b"}, true},
		{"reversed", []any{"b", "a"}, true},
		{"length mismatch", []any{"a"}, false},
		{"wrong member", []any{"a", "c"}, false},
		{"missing", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if correct, _ := domain.Evaluate(question, tc.submitted); correct != tc.want {
				t.Fatalf("correct = %v, want %v", correct, tc.want)
			}
		})
	}
}

func TestEvaluateFillBlankWrapsScalars(t *testing.T) {
	single := domain.Question{Type: domain.TypeFillBlank, Key: domain.SequenceKey("42"), Points: 1}
	if correct, _ := domain.Evaluate(single, "42"); !correct {
		t.Fatalf("expected scalar submission to be wrapped and match")
	}
	if correct, _ := domain.Evaluate(single, float64(42)); !correct {
		t.Fatalf("expected numeric scalar to stringify and match")
	}

	multi := domain.Question{Type: domain.TypeFillBlank, Key: domain.SequenceKey("3", "2"), Points: 1}
	if correct, _ := domain.Evaluate(multi, []any{float64(2), "3"}); !correct {
		t.Fatalf("expected mixed-type members to match as a set")
	}
}

func TestEvaluateUnrecognizedType(t *testing.T) {
	question := domain.Question{Type: "Essay", Key: domain.TextKey("whatever"), Points: 5}
	if correct, points := domain.Evaluate(question, "whatever"); correct || points != 0 {
		t.Fatalf("unrecognized type must grade incorrect with 0 points, got correct=%v points=%d", correct, points)
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		score, max, want int
	}{
		{7, 10, 70},
		{1, 3, 33},
		{5, 8, 63},
		{2, 3, 67},
		{0, 8, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := domain.Percent(tc.score, tc.max); got != tc.want {
			t.Fatalf("Percent(%d, %d) = %d, want %d", tc.score, tc.max, got, tc.want)
		}
	}
}
