package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/repository"
)

// SessionRepository implements port.SessionRepository for PostgreSQL.
type SessionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func newSessionRepositoryWithExecutor(exec pgExecutor) *SessionRepository {
	return &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a session record.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	stmt, args, err := r.builder.Insert("auth.sessions").
		Columns(
			"id",
			"user_id",
			"device_info",
			"ip_address",
			"issued_at",
			"last_activity",
			"expires_at",
		).
		Values(
			session.ID,
			session.UserID,
			session.DeviceInfo,
			session.IPAddress,
			session.IssuedAt,
			session.LastActivity,
			session.ExpiresAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// expireSessionSQL deletes a session only when it has already expired. The
// expiry guard makes the delete-on-read path safe under concurrency: two
// readers of the same stale session both issue the conditional delete, one
// removes the row, and neither can remove a session that is still live.
const expireSessionSQL = `DELETE FROM auth.sessions WHERE id = $1 AND expires_at <= $2`

// GetActive returns the session when it exists and has not expired. A stale
// row is deleted as a side effect and reported identically to a missing one.
func (r *SessionRepository) GetActive(ctx context.Context, sessionID string, now time.Time) (*domain.Session, error) {
	if _, err := r.exec.Exec(ctx, expireSessionSQL, sessionID, now); err != nil {
		return nil, fmt.Errorf("expire session: %w", err)
	}

	stmt, args, err := r.builder.
		Select(
			"id",
			"user_id",
			"device_info",
			"ip_address",
			"issued_at",
			"last_activity",
			"expires_at",
		).
		From("auth.sessions").
		Where(squirrel.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var session domain.Session
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.DeviceInfo,
		&session.IPAddress,
		&session.IssuedAt,
		&session.LastActivity,
		&session.ExpiresAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	// The row may have expired between the guard delete and the read.
	if !session.IsActive(now) {
		return nil, repository.ErrNotFound
	}

	return &session, nil
}

// Touch updates last-activity metadata for a session.
func (r *SessionRepository) Touch(ctx context.Context, sessionID string, at time.Time, ip *string) error {
	query := r.builder.Update("auth.sessions").
		Set("last_activity", at).
		Where(squirrel.Eq{"id": sessionID})
	if ip != nil {
		query = query.Set("ip_address", *ip)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build touch session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	stmt, args, err := r.builder.Delete("auth.sessions").
		Where(squirrel.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteExpired removes all sessions past their expiry, returning the count.
// Lazy expiry on read remains the primary mechanism; this backs the periodic sweep.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("auth.sessions").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
