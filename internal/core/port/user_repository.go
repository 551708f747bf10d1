package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string, strength int, changedAt time.Time) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	LinkProvider(ctx context.Context, id string, provider string, providerID string) error
}
