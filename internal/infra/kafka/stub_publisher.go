package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishLoginFailed logs auth.login.failed events.
func (p *StubPublisher) PublishLoginFailed(_ context.Context, event domain.LoginFailedEvent) error {
	userID := ""
	if event.UserID != nil {
		userID = *event.UserID
	}
	p.logEvent("auth.login.failed", userID, event.FailedAt, map[string]any{
		"email":      event.Email,
		"ip_address": event.IPAddress,
		"failed_at":  event.FailedAt,
	})
	return nil
}

// PublishLoginSucceeded logs auth.login.succeeded events.
func (p *StubPublisher) PublishLoginSucceeded(_ context.Context, event domain.LoginSucceededEvent) error {
	p.logEvent("auth.login.succeeded", event.UserID, event.LoginAt, map[string]any{
		"ip_address": event.IPAddress,
		"login_at":   event.LoginAt,
	})
	return nil
}

// PublishAccountLocked logs auth.account.locked events.
func (p *StubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.logEvent("auth.account.locked", event.UserID, event.LockedAt, map[string]any{
		"email":        event.Email,
		"ip_address":   event.IPAddress,
		"failed_count": event.FailedCount,
		"locked_until": event.LockedUntil,
	})
	return nil
}

// PublishPasswordChanged logs auth.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.logEvent("auth.password.changed", event.UserID, event.ChangedAt, map[string]any{
		"changed_at": event.ChangedAt,
	})
	return nil
}

// PublishSessionCreated logs auth.session.created events.
func (p *StubPublisher) PublishSessionCreated(_ context.Context, event domain.SessionCreatedEvent) error {
	p.logEvent("auth.session.created", event.UserID, event.IssuedAt, map[string]any{
		"session_id":  event.SessionID,
		"device_info": event.DeviceInfo,
		"ip_address":  event.IPAddress,
		"expires_at":  event.ExpiresAt,
	})
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
