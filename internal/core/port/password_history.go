package port

import (
	"context"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// PasswordHistoryRepository stores prior password hashes per user.
// Implementations must keep entries bounded to the retention window and
// ordered by creation time.
type PasswordHistoryRepository interface {
	Add(ctx context.Context, entry domain.PasswordHistoryEntry, retain int) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.PasswordHistoryEntry, error)
}
