package security

import (
	"strings"
	"testing"
)

func TestEvaluateStrongPassword(t *testing.T) {
	policy := DefaultStrengthPolicy()

	result := policy.Evaluate("Tr0ub4dor&3xplorer")
	if !result.Valid {
		t.Fatalf("expected password to pass, feedback: %v", result.Feedback)
	}
	if result.Score < 50 {
		t.Fatalf("expected a high score, got %d", result.Score)
	}
}

func TestEvaluateTooShort(t *testing.T) {
	policy := DefaultStrengthPolicy()

	result := policy.Evaluate("Ab1!")
	if result.Valid {
		t.Fatal("expected short password to fail")
	}
	if !containsFeedback(result.Feedback, "at least 8 characters") {
		t.Fatalf("expected length feedback, got %v", result.Feedback)
	}
}

func TestEvaluateAccumulatesAllFailures(t *testing.T) {
	policy := DefaultStrengthPolicy()

	// Short, single character class, and trivially guessable.
	result := policy.Evaluate("abc")
	if result.Valid {
		t.Fatal("expected password to fail")
	}
	if len(result.Feedback) < 3 {
		t.Fatalf("expected feedback for every violated rule, got %v", result.Feedback)
	}
}

func TestEvaluateCommonPassword(t *testing.T) {
	policy := DefaultStrengthPolicy()

	result := policy.Evaluate("Password123")
	if result.Score > 100 {
		t.Fatalf("score must stay within 0-100, got %d", result.Score)
	}

	common := policy.Evaluate("password123")
	if common.Valid {
		t.Fatal("expected common password to fail")
	}
	if common.Score > 10 {
		t.Fatalf("expected common password score capped at 10, got %d", common.Score)
	}
	if !containsFeedback(common.Feedback, "too common") {
		t.Fatalf("expected common-password feedback, got %v", common.Feedback)
	}
}

func TestEvaluatePenalizesUserInputs(t *testing.T) {
	policy := DefaultStrengthPolicy()

	derived := policy.Evaluate("Jane.Smith84!", "jane.smith84@example.com")
	independent := policy.Evaluate("Jane.Smith84!")

	if derived.Score > independent.Score {
		t.Fatalf("expected identity-derived password to score no higher: derived=%d independent=%d",
			derived.Score, independent.Score)
	}
}

func TestEvaluateMissingCharacterClasses(t *testing.T) {
	policy := DefaultStrengthPolicy()

	result := policy.Evaluate("onlylowercaseletters")
	if result.Valid {
		t.Fatal("expected single-class password to fail")
	}
	if !containsFeedback(result.Feedback, "uppercase, lowercase, digits, symbols") {
		t.Fatalf("expected character-class feedback, got %v", result.Feedback)
	}
}

func TestCharacterClasses(t *testing.T) {
	cases := []struct {
		password string
		want     int
	}{
		{"", 0},
		{"abc", 1},
		{"abcDEF", 2},
		{"abcDEF123", 3},
		{"abcDEF123!?", 4},
	}

	for _, tc := range cases {
		if got := characterClasses(tc.password); got != tc.want {
			t.Errorf("characterClasses(%q) = %d, want %d", tc.password, got, tc.want)
		}
	}
}

func containsFeedback(feedback []string, fragment string) bool {
	for _, msg := range feedback {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
