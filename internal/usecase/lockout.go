package usecase

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
)

// AccountLockoutService tracks failed login attempts per user and enforces
// temporary lockout. Locks key on user id; the attempt IP travels on the
// audit event stream only.
type AccountLockoutService struct {
	store   port.LockoutStore
	events  port.EventPublisher
	metrics *telemetry.Metrics
	log     *zap.Logger
}

// NewAccountLockoutService constructs the service. events and metrics may be
// nil in tests.
func NewAccountLockoutService(store port.LockoutStore, events port.EventPublisher, metrics *telemetry.Metrics, log *zap.Logger) (*AccountLockoutService, error) {
	if store == nil {
		return nil, fmt.Errorf("lockout store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountLockoutService{
		store:   store,
		events:  events,
		metrics: metrics,
		log:     log,
	}, nil
}

// RecordFailedAttempt registers a failed login. When the attempt crosses the
// lock threshold, an account-locked audit event is published.
func (s *AccountLockoutService) RecordFailedAttempt(ctx context.Context, userID, email string, ip *string) error {
	now := time.Now().UTC()

	record, err := s.store.RegisterFailure(ctx, userID, now)
	if err != nil {
		return fmt.Errorf("register failed attempt: %w", err)
	}

	// The store resets the counter on the lock transition, so a zero counter
	// alongside an active lock marks the attempt that triggered it.
	if record.FailedCount == 0 && record.IsLocked(now) {
		s.log.Warn("account locked after repeated failures",
			zap.String("user_id", userID),
			zap.String("email", logger.MaskEmail(email)),
			zap.Time("locked_until", *record.LockedUntil),
		)
		if s.metrics != nil {
			s.metrics.AccountLockouts.Inc()
		}
		if s.events != nil {
			event := domain.AccountLockedEvent{
				EventID:     uuid.NewString(),
				UserID:      userID,
				Email:       email,
				IPAddress:   ip,
				FailedCount: record.FailedCount,
				LockedUntil: *record.LockedUntil,
				LockedAt:    now,
			}
			if err := s.events.PublishAccountLocked(ctx, event); err != nil {
				s.log.Error("publish account locked event", zap.Error(err))
			}
		}
	}

	return nil
}

// IsLocked reports whether the account currently holds an active lock. The
// boolean carries no reason, so callers cannot leak why access was denied.
func (s *AccountLockoutService) IsLocked(ctx context.Context, userID string) (bool, error) {
	now := time.Now().UTC()

	record, err := s.store.Status(ctx, userID, now)
	if err != nil {
		return false, fmt.Errorf("lockout status: %w", err)
	}

	return record.IsLocked(now), nil
}

// RecordSuccess clears all failure state for the user, unconditionally.
func (s *AccountLockoutService) RecordSuccess(ctx context.Context, userID string) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear lockout state: %w", err)
	}
	return nil
}
