package domain

import "time"

// LoginFailedEvent represents the payload for auth.login.failed messages.
type LoginFailedEvent struct {
	EventID   string
	UserID    *string
	Email     string
	IPAddress *string
	FailedAt  time.Time
	Metadata  map[string]any
}

// AccountLockedEvent represents the payload for auth.account.locked messages.
type AccountLockedEvent struct {
	EventID     string
	UserID      string
	Email       string
	IPAddress   *string
	FailedCount int
	LockedUntil time.Time
	LockedAt    time.Time
	Metadata    map[string]any
}

// LoginSucceededEvent represents the payload for auth.login.succeeded messages.
type LoginSucceededEvent struct {
	EventID   string
	UserID    string
	IPAddress *string
	LoginAt   time.Time
	Metadata  map[string]any
}

// PasswordChangedEvent represents the payload for auth.password.changed messages.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
	Metadata  map[string]any
}

// SessionCreatedEvent represents the payload for auth.session.created messages.
type SessionCreatedEvent struct {
	EventID    string
	SessionID  string
	UserID     string
	DeviceInfo *string
	IPAddress  *string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Metadata   map[string]any
}
