package port

import (
	"context"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// EventPublisher publishes auth audit events to the message bus.
type EventPublisher interface {
	PublishLoginFailed(ctx context.Context, event domain.LoginFailedEvent) error
	PublishLoginSucceeded(ctx context.Context, event domain.LoginSucceededEvent) error
	PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishSessionCreated(ctx context.Context, event domain.SessionCreatedEvent) error
}
