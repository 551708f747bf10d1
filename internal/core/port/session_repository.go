package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// SessionRepository deals with session storage.
// GetActive must treat an expired row identically to a missing one and remove
// it as a side effect; the removal is conditional on expiry so concurrent
// readers cannot delete a live session.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetActive(ctx context.Context, sessionID string, now time.Time) (*domain.Session, error)
	Touch(ctx context.Context, sessionID string, at time.Time, ip *string) error
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
