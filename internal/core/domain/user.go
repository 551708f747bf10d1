package domain

import "time"

// User mirrors the persisted representation in the users table.
// PasswordHash is empty for OAuth-only accounts; Provider/ProviderID are nil
// for password-only accounts. Both may be populated once a password is added
// to an OAuth account.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	PasswordStrength    int
	Provider            *string
	ProviderID          *string
	ForcePasswordChange bool
	CreatedAt           time.Time
	LastLogin           *time.Time
	LastPasswordChange  time.Time
}

// HasPassword reports whether the account carries a local password credential.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// IsOAuthLinked reports whether the account is linked to an external provider.
func (u User) IsOAuthLinked() bool {
	return u.Provider != nil && *u.Provider != "" && u.ProviderID != nil && *u.ProviderID != ""
}

// PasswordHistoryEntry tracks a historical password hash for reuse prevention.
// Entries are append-only per user and trimmed to the retention window.
type PasswordHistoryEntry struct {
	ID           string
	UserID       string
	PasswordHash string
	CreatedAt    time.Time
}
