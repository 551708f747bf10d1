package usecase

import (
	"fmt"
	"time"

	"github.com/arklim/social-platform-auth/internal/infra/security"
)

// PasswordSecurityService owns hashing, verification, strength scoring, and
// the password expiry policy.
type PasswordSecurityService struct {
	hasher *security.Hasher
	policy security.StrengthPolicy
	maxAge time.Duration
}

// NewPasswordSecurityService constructs the service. maxAge of zero disables
// expiry checks.
func NewPasswordSecurityService(hasher *security.Hasher, policy security.StrengthPolicy, maxAge time.Duration) (*PasswordSecurityService, error) {
	if hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	return &PasswordSecurityService{
		hasher: hasher,
		policy: policy,
		maxAge: maxAge,
	}, nil
}

// HashPassword generates an Argon2id hash for the provided plaintext.
func (s *PasswordSecurityService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return s.hasher.Hash(password)
}

// VerifyPassword compares plaintext against a stored hash.
func (s *PasswordSecurityService) VerifyPassword(password, hash string) (bool, error) {
	return s.hasher.Verify(password, hash)
}

// ValidateStrength evaluates the password against the configured policy.
// userInputs (email, display name) lower the score of derived passwords.
func (s *PasswordSecurityService) ValidateStrength(password string, userInputs ...string) security.StrengthResult {
	return s.policy.Evaluate(password, userInputs...)
}

// IsPasswordExpired reports whether the password is older than the rotation policy.
func (s *PasswordSecurityService) IsPasswordExpired(lastChange time.Time) bool {
	return s.isExpiredAt(lastChange, time.Now().UTC())
}

func (s *PasswordSecurityService) isExpiredAt(lastChange, now time.Time) bool {
	if s.maxAge <= 0 || lastChange.IsZero() {
		return false
	}
	return now.Sub(lastChange) > s.maxAge
}

// ChangeResult reports the outcome of a password-change validation.
type ChangeResult struct {
	Valid  bool
	Errors []string
}

// ValidateChange runs every password-change check and accumulates all
// failures so callers receive complete feedback in one pass: the current
// password must verify, the new password must meet the strength policy, and
// the new password must not match the current hash or any retained history entry.
func (s *PasswordSecurityService) ValidateChange(current, newPassword, currentHash string, previousHashes []string, userInputs ...string) (ChangeResult, error) {
	result := ChangeResult{}

	if currentHash != "" {
		ok, err := s.hasher.Verify(current, currentHash)
		if err != nil {
			return ChangeResult{}, fmt.Errorf("verify current password: %w", err)
		}
		if !ok {
			result.Errors = append(result.Errors, "current password is incorrect")
		}
	}

	strength := s.policy.Evaluate(newPassword, userInputs...)
	result.Errors = append(result.Errors, strength.Feedback...)

	reused, err := s.isReused(newPassword, currentHash, previousHashes)
	if err != nil {
		return ChangeResult{}, err
	}
	if reused {
		result.Errors = append(result.Errors, "new password was used recently; choose a password you have not used before")
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

func (s *PasswordSecurityService) isReused(newPassword, currentHash string, previousHashes []string) (bool, error) {
	if currentHash != "" {
		ok, err := s.hasher.Verify(newPassword, currentHash)
		if err != nil {
			return false, fmt.Errorf("check reuse against current hash: %w", err)
		}
		if ok {
			return true, nil
		}
	}

	for _, hash := range previousHashes {
		ok, err := s.hasher.Verify(newPassword, hash)
		if err != nil {
			return false, fmt.Errorf("check reuse against history: %w", err)
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}
