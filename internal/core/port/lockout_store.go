package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// LockoutStore tracks failed login attempts per user key.
// RegisterFailure must be atomic: concurrent failures for the same user may
// never lose an increment or double-apply a lock transition.
type LockoutStore interface {
	RegisterFailure(ctx context.Context, userID string, at time.Time) (domain.LockoutRecord, error)
	Status(ctx context.Context, userID string, at time.Time) (domain.LockoutRecord, error)
	Clear(ctx context.Context, userID string) error
}
