package security

import (
	"fmt"
	"strings"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// StrengthResult reports the outcome of password strength evaluation.
// Score is normalized to 0-100 and persisted on the user record for later
// policy decisions; Feedback lists every violated rule.
type StrengthResult struct {
	Valid    bool
	Score    int
	Feedback []string
}

// StrengthPolicy configures password strength requirements.
type StrengthPolicy struct {
	MinLength  int
	MinClasses int
	// MinScore is the minimum acceptable zxcvbn score (0-4).
	MinScore int
}

// DefaultStrengthPolicy returns the service password policy.
func DefaultStrengthPolicy() StrengthPolicy {
	return StrengthPolicy{
		MinLength:  8,
		MinClasses: 3,
		MinScore:   2,
	}
}

// commonPasswords holds values rejected outright regardless of composition.
// Kept deliberately small; zxcvbn covers the long tail via its own dictionaries.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"123456":      {},
	"12345678":    {},
	"123456789":   {},
	"qwerty":      {},
	"qwerty123":   {},
	"letmein":     {},
	"welcome":     {},
	"admin":       {},
	"admin123":    {},
	"iloveyou":    {},
	"monkey":      {},
	"dragon":      {},
}

// Evaluate runs every strength rule and accumulates feedback rather than
// stopping at the first violation. userInputs (email, name) are penalized by
// the underlying estimator so passwords derived from identity data score low.
// Rules operate on runes and byte classes only; no locale-sensitive behavior.
func (p StrengthPolicy) Evaluate(password string, userInputs ...string) StrengthResult {
	feedback := make([]string, 0, 4)

	runes := []rune(password)
	if len(runes) < p.MinLength {
		feedback = append(feedback, fmt.Sprintf("password must be at least %d characters long", p.MinLength))
	}

	classes := characterClasses(password)
	if classes < p.MinClasses {
		feedback = append(feedback, fmt.Sprintf("password must include at least %d of: uppercase, lowercase, digits, symbols", p.MinClasses))
	}

	_, isCommon := commonPasswords[strings.ToLower(password)]
	if isCommon {
		feedback = append(feedback, "password is too common; choose a less predictable value")
	}

	estimate := zxcvbn.PasswordStrength(password, userInputs)
	if estimate.Score < p.MinScore {
		feedback = append(feedback, "password is too weak; choose a more complex value")
	}

	score := estimate.Score * 25
	if isCommon && score > 10 {
		score = 10
	}
	if score > 100 {
		score = 100
	}

	return StrengthResult{
		Valid:    len(feedback) == 0,
		Score:    score,
		Feedback: feedback,
	}
}

func characterClasses(password string) int {
	var hasUpper, hasLower, hasDigit, hasSymbol bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsSymbol(r) || unicode.IsPunct(r):
			hasSymbol = true
		}
	}

	classes := 0
	for _, present := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if present {
			classes++
		}
	}
	return classes
}
