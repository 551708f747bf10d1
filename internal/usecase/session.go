package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
	"github.com/arklim/social-platform-auth/internal/repository"
)

const (
	defaultSessionTTL        = 30 * 24 * time.Hour
	defaultSessionTokenBytes = 32
)

// SessionManager issues, validates, and expires session records.
type SessionManager struct {
	sessions   port.SessionRepository
	users      port.UserRepository
	events     port.EventPublisher
	metrics    *telemetry.Metrics
	ttl        time.Duration
	tokenBytes int
	log        *zap.Logger
}

// NewSessionManager constructs the manager. events and metrics may be nil.
func NewSessionManager(sessions port.SessionRepository, users port.UserRepository, events port.EventPublisher, metrics *telemetry.Metrics, ttl time.Duration, tokenBytes int, log *zap.Logger) (*SessionManager, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session repository is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if tokenBytes <= 0 {
		tokenBytes = defaultSessionTokenBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		sessions:   sessions,
		users:      users,
		events:     events,
		metrics:    metrics,
		ttl:        ttl,
		tokenBytes: tokenBytes,
		log:        log,
	}, nil
}

// Create issues a new session for the user and returns the raw token. The
// token is generated from crypto/rand and shares nothing with user-enumerable
// values; only its SHA-256 digest is persisted, so a leaked sessions table
// yields no usable tokens.
func (m *SessionManager) Create(ctx context.Context, userID string, deviceInfo, ip *string) (string, error) {
	ctx, span := tracer.Start(ctx, "session.create")
	defer span.End()

	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	token, err := security.GenerateSecureToken(m.tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:           security.HashToken(token),
		UserID:       userID,
		DeviceInfo:   deviceInfo,
		IPAddress:    ip,
		IssuedAt:     now,
		LastActivity: now,
		ExpiresAt:    now.Add(m.ttl),
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if m.metrics != nil {
		m.metrics.SessionsCreated.Inc()
	}
	if m.events != nil {
		event := domain.SessionCreatedEvent{
			EventID:    uuid.NewString(),
			SessionID:  session.ID,
			UserID:     userID,
			DeviceInfo: deviceInfo,
			IPAddress:  ip,
			IssuedAt:   session.IssuedAt,
			ExpiresAt:  session.ExpiresAt,
		}
		if err := m.events.PublishSessionCreated(ctx, event); err != nil {
			m.log.Error("publish session created event", zap.Error(err))
		}
	}

	return token, nil
}

// UserFor resolves a raw session token to its user. Expired and missing
// sessions are indistinguishable: both return nil without error. Expired rows
// are removed at read time by the repository.
func (m *SessionManager) UserFor(ctx context.Context, token string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "session.resolve")
	defer span.End()

	if token == "" {
		return nil, nil
	}

	session, err := m.sessions.GetActive(ctx, security.HashToken(token), time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if m.metrics != nil {
				m.metrics.SessionsExpired.Inc()
			}
			return nil, nil
		}
		return nil, fmt.Errorf("fetch session: %w", err)
	}

	user, err := m.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The user was deleted out from under the session; drop it.
			if delErr := m.sessions.Delete(ctx, session.ID); delErr != nil {
				m.log.Error("delete orphaned session", zap.Error(delErr))
			}
			return nil, nil
		}
		return nil, fmt.Errorf("fetch session user: %w", err)
	}

	session.Touch(time.Now().UTC(), nil)
	if err := m.sessions.Touch(ctx, session.ID, session.LastActivity, session.IPAddress); err != nil {
		m.log.Error("touch session", zap.Error(err))
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// Delete removes the session behind a raw token. Removing an absent session
// succeeds.
func (m *SessionManager) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, security.HashToken(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SweepExpired removes all expired sessions. Lazy expiry on read remains the
// primary mechanism; the sweep keeps the table from accumulating rows for
// sessions nobody reads again.
func (m *SessionManager) SweepExpired(ctx context.Context) (int, error) {
	count, err := m.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep expired sessions: %w", err)
	}
	if count > 0 {
		if m.metrics != nil {
			m.metrics.SessionsExpired.Add(float64(count))
		}
		m.log.Info("swept expired sessions", zap.Int("count", count))
	}
	return count, nil
}
