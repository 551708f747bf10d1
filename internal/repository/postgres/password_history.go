package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
)

// PasswordHistoryRepository implements port.PasswordHistoryRepository using PostgreSQL.
type PasswordHistoryRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPasswordHistoryRepository wires a PostgreSQL-backed history repository.
func NewPasswordHistoryRepository(pool *pgxpool.Pool) *PasswordHistoryRepository {
	return &PasswordHistoryRepository{
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func newPasswordHistoryRepositoryWithExecutor(exec pgExecutor) *PasswordHistoryRepository {
	return &PasswordHistoryRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// trimHistorySQL removes entries beyond the retention window in the same
// round trip as the insert, keeping the table bounded without a
// read-modify-write cycle in application code.
const trimHistorySQL = `
DELETE FROM auth.password_history
WHERE user_id = $1
  AND id NOT IN (
    SELECT id FROM auth.password_history
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2
  )`

// Add appends a history entry and trims the user's history to the retention window.
func (r *PasswordHistoryRepository) Add(ctx context.Context, entry domain.PasswordHistoryEntry, retain int) error {
	stmt, args, err := r.builder.Insert("auth.password_history").
		Columns("id", "user_id", "password_hash", "created_at").
		Values(entry.ID, entry.UserID, entry.PasswordHash, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert password history: %w", err)
	}

	if retain > 0 {
		if _, err := r.exec.Exec(ctx, trimHistorySQL, entry.UserID, retain); err != nil {
			return fmt.Errorf("trim password history: %w", err)
		}
	}

	return nil
}

// ListRecent returns retained entries in reverse-chronological order.
func (r *PasswordHistoryRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.PasswordHistoryEntry, error) {
	query := r.builder.
		Select("id", "user_id", "password_hash", "created_at").
		From("auth.password_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select history sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select password history: %w", err)
	}
	defer rows.Close()

	var entries []domain.PasswordHistoryEntry
	for rows.Next() {
		var entry domain.PasswordHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.PasswordHash, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan password history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate password history: %w", err)
	}

	return entries, nil
}

var _ port.PasswordHistoryRepository = (*PasswordHistoryRepository)(nil)
