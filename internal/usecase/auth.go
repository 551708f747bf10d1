package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/envcheck"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
	"github.com/arklim/social-platform-auth/internal/repository"
)

var tracer = otel.Tracer("social-platform-auth/usecase")

var (
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWeakPassword indicates the password failed strength validation.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoPasswordSet indicates a password operation on an OAuth-only account.
	ErrNoPasswordSet = errors.New("account has no password credential")
	// ErrProviderLinked indicates the account already carries provider identifiers.
	ErrProviderLinked = errors.New("account already linked to a provider")
)

// AuthService composes the credential-security services into user lifecycle
// operations. Authentication failures of every kind collapse to a nil user so
// callers cannot distinguish no-such-user, bad password, and locked account.
type AuthService struct {
	users    port.UserRepository
	events   port.EventPublisher
	password *PasswordSecurityService
	history  *PasswordHistoryService
	lockout  *AccountLockoutService
	sessions *SessionManager
	metrics  *telemetry.Metrics
	envCfg   *envcheck.EnvironmentConfig
	log      *zap.Logger
}

// NewAuthService constructs the orchestrator. events, metrics, and envCfg may
// be nil where the corresponding surface is unused.
func NewAuthService(
	users port.UserRepository,
	events port.EventPublisher,
	password *PasswordSecurityService,
	history *PasswordHistoryService,
	lockout *AccountLockoutService,
	sessions *SessionManager,
	metrics *telemetry.Metrics,
	envCfg *envcheck.EnvironmentConfig,
	log *zap.Logger,
) (*AuthService, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if password == nil {
		return nil, fmt.Errorf("password service is required")
	}
	if history == nil {
		return nil, fmt.Errorf("history service is required")
	}
	if lockout == nil {
		return nil, fmt.Errorf("lockout service is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		events:   events,
		password: password,
		history:  history,
		lockout:  lockout,
		sessions: sessions,
		metrics:  metrics,
		envCfg:   envCfg,
		log:      log,
	}, nil
}

// CreateUser registers a password-backed account.
func (s *AuthService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "auth.create_user")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	strength := s.password.ValidateStrength(password, email)
	if !strength.Valid {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(strength.Feedback, "; "))
	}

	hash, err := s.password.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		PasswordStrength:   strength.Score,
		CreatedAt:          now,
		LastPasswordChange: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sanitized := user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// CreateOAuthUser registers an account backed by an external provider, with
// no local password credential.
func (s *AuthService) CreateOAuthUser(ctx context.Context, email, provider, providerID string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if provider == "" || providerID == "" {
		return nil, fmt.Errorf("provider and provider id are required")
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:                 uuid.NewString(),
		Email:              email,
		Provider:           &provider,
		ProviderID:         &providerID,
		CreatedAt:          now,
		LastPasswordChange: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create oauth user: %w", err)
	}

	return &user, nil
}

// LinkOAuthAccount attaches provider identifiers to an existing account.
func (s *AuthService) LinkOAuthAccount(ctx context.Context, userID, provider, providerID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if provider == "" || providerID == "" {
		return fmt.Errorf("provider and provider id are required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.IsOAuthLinked() {
		return ErrProviderLinked
	}

	if err := s.users.LinkProvider(ctx, userID, provider, providerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("link provider: %w", err)
	}

	return nil
}

// ValidateUser authenticates an email and password pair. Any failure —
// unknown email, OAuth-only account, active lockout, wrong password — yields
// (nil, nil). The lockout check runs before hash verification so locked
// accounts never pay the hashing cost and learn nothing from timing. Store
// errors propagate and are never retried here: retrying a failed login
// against the store could mask a lockout race.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string, ip *string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "auth.validate_user")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.noteFailure(ctx, nil, email, ip)
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	locked, err := s.lockout.IsLocked(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check lockout: %w", err)
	}
	if locked {
		s.countLogin("locked")
		return nil, nil
	}

	if !user.HasPassword() {
		s.noteFailure(ctx, &user.ID, email, ip)
		if err := s.lockout.RecordFailedAttempt(ctx, user.ID, email, ip); err != nil {
			return nil, err
		}
		return nil, nil
	}

	ok, err := s.password.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.noteFailure(ctx, &user.ID, email, ip)
		if err := s.lockout.RecordFailedAttempt(ctx, user.ID, email, ip); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := s.lockout.RecordSuccess(ctx, user.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Error("update last login", zap.Error(err))
	}

	s.countLogin("success")
	if s.events != nil {
		event := domain.LoginSucceededEvent{
			EventID:   uuid.NewString(),
			UserID:    user.ID,
			IPAddress: ip,
			LoginAt:   now,
		}
		if err := s.events.PublishLoginSucceeded(ctx, event); err != nil {
			s.log.Error("publish login succeeded event", zap.Error(err))
		}
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// ChangePassword validates and applies a password change. All validation
// failures accumulate into the result; the password is only rewritten when
// every check passes, and the superseded hash lands in history.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) (ChangeResult, error) {
	ctx, span := tracer.Start(ctx, "auth.change_password")
	defer span.End()

	if userID == "" {
		return ChangeResult{}, fmt.Errorf("user id is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ChangeResult{}, ErrUserNotFound
		}
		return ChangeResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if !user.HasPassword() {
		return ChangeResult{}, ErrNoPasswordSet
	}

	previous, err := s.history.RecentHashes(ctx, userID)
	if err != nil {
		return ChangeResult{}, err
	}

	result, err := s.password.ValidateChange(current, newPassword, user.PasswordHash, previous, user.Email)
	if err != nil {
		return ChangeResult{}, err
	}
	if !result.Valid {
		return result, nil
	}

	newHash, err := s.password.HashPassword(newPassword)
	if err != nil {
		return ChangeResult{}, fmt.Errorf("hash new password: %w", err)
	}

	strength := s.password.ValidateStrength(newPassword, user.Email)
	now := time.Now().UTC()

	if err := s.users.UpdatePassword(ctx, userID, newHash, strength.Score, now); err != nil {
		return ChangeResult{}, fmt.Errorf("update password: %w", err)
	}

	if err := s.history.Record(ctx, userID, user.PasswordHash); err != nil {
		return ChangeResult{}, err
	}

	if s.metrics != nil {
		s.metrics.PasswordChanges.Inc()
	}
	if s.events != nil {
		event := domain.PasswordChangedEvent{
			EventID:   uuid.NewString(),
			UserID:    userID,
			ChangedAt: now,
		}
		if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
			s.log.Error("publish password changed event", zap.Error(err))
		}
	}

	return result, nil
}

// CreateSession issues a session for the user.
func (s *AuthService) CreateSession(ctx context.Context, userID string, deviceInfo, ip *string) (string, error) {
	return s.sessions.Create(ctx, userID, deviceInfo, ip)
}

// GetSessionUser resolves a session identifier to its user, or nil when the
// session is missing or expired.
func (s *AuthService) GetSessionUser(ctx context.Context, sessionID string) (*domain.User, error) {
	return s.sessions.UserFor(ctx, sessionID)
}

// DeleteSession removes a session; removing an absent session succeeds.
func (s *AuthService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// AccessTokenClaims carries the user identity on issued access tokens.
type AccessTokenClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived HS256 access token using the runtime
// environment configuration.
func (s *AuthService) IssueAccessToken(user domain.User) (string, error) {
	if s.envCfg == nil || s.envCfg.JWT.AccessSecret == "" {
		return "", fmt.Errorf("access token secret not configured")
	}
	if user.ID == "" {
		return "", fmt.Errorf("user id is required")
	}

	now := time.Now().UTC()
	ttl := s.envCfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = envcheck.DefaultAccessTokenTTL
	}

	claims := AccessTokenClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.envCfg.JWT.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

func (s *AuthService) noteFailure(ctx context.Context, userID *string, email string, ip *string) {
	s.countLogin("failure")

	masked := logger.MaskEmail(email)
	fields := []zap.Field{zap.String("email", masked)}
	if ip != nil {
		fields = append(fields, zap.String("ip", logger.MaskIP(*ip)))
	}
	s.log.Info("login failed", fields...)

	if s.events != nil {
		event := domain.LoginFailedEvent{
			EventID:   uuid.NewString(),
			UserID:    userID,
			Email:     email,
			IPAddress: ip,
			FailedAt:  time.Now().UTC(),
		}
		if err := s.events.PublishLoginFailed(ctx, event); err != nil {
			s.log.Error("publish login failed event", zap.Error(err))
		}
	}
}

func (s *AuthService) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
