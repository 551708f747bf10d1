package domain

import "time"

// LockoutRecord captures failed-attempt state for a single user.
// The IP address of each attempt is recorded on the audit event stream, not
// as a separate lock axis.
type LockoutRecord struct {
	UserID        string
	FailedCount   int
	FirstFailedAt time.Time
	LockedUntil   *time.Time
	LockCycles    int
}

// IsLocked reports whether the record holds an active lock at the supplied moment.
func (r LockoutRecord) IsLocked(at time.Time) bool {
	return r.LockedUntil != nil && r.LockedUntil.After(at)
}
