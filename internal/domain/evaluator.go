package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Evaluate grades one submitted answer against a question's key and returns
// (isCorrect, pointsEarned). It is pure and total: malformed or missing
// submissions grade as incorrect, never as an error.
func Evaluate(q Question, submitted any) (bool, int) {
	correct := false
	switch q.Type {
	case TypeQCM:
		// A missing key can never match, same as a non-numeric submission.
		if idx, ok := choiceIndex(submitted); ok && q.Key.IsSet() {
			correct = idx == q.Key.Index
		}
	case TypeTrueFalse:
		correct = truthy(submitted) == q.Key.Truth
	case TypeShortAnswer:
		correct = normalizeText(stringify(submitted)) == normalizeText(q.Key.Text)
	case TypeMatching, TypeFillBlank:
		correct = sameMembers(toSequence(submitted), q.Key.Values)
	default:
		// Unrecognized type is always incorrect.
	}
	if correct {
		return true, q.Points
	}
	return false, 0
}

// choiceIndex parses a submitted QCM answer as an option index. Missing or
// non-numeric values report !ok so they can never match a valid index.
func choiceIndex(v any) (int, bool) {
	switch value := v.(type) {
	case nil:
		return 0, false
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	case string:
		idx, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return idx, true
	default:
		return 0, false
	}
}

// truthy maps a boolean-like value to a bool: lower-cased "true" or "1" are
// true, anything else is false.
func truthy(v any) bool {
	s := strings.ToLower(strings.TrimSpace(stringify(v)))
	return s == "true" || s == "1"
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stringify renders a scalar submission as a string; nil becomes "".
func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return fmt.Sprint(value)
	}
}

// toSequence coerces a submitted value into a string sequence, wrapping
// scalars in a single-element sequence. A nil value is an empty sequence.
func toSequence(v any) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case []string:
		return value
	case []any:
		out := make([]string, len(value))
		for i, item := range value {
			out[i] = stringify(item)
		}
		return out
	default:
		return []string{stringify(value)}
	}
}

// sameMembers reports set equality with a length check: both sequences have
// the same length and every element of one appears in the other. Order is
// irrelevant and duplicates are not special-cased.
func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll(haystack, needles []string) bool {
	for _, needle := range needles {
		found := false
		for _, item := range haystack {
			if item == needle {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
