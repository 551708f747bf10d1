package domain

import "time"

// Session represents a persisted login session bound to a device.
// The identifier is an opaque random token, never derived from user data.
type Session struct {
	ID           string
	UserID       string
	DeviceInfo   *string
	IPAddress    *string
	IssuedAt     time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
}

// IsActive reports whether the session is still valid at the supplied moment.
func (s Session) IsActive(at time.Time) bool {
	return s.ExpiresAt.After(at)
}

// Touch updates last-activity metadata when the session is used.
func (s *Session) Touch(at time.Time, ip *string) {
	s.LastActivity = at
	if ip != nil {
		ipCopy := *ip
		s.IPAddress = &ipCopy
	}
}
