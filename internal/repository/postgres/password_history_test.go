package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

func TestPasswordHistoryRepository_Add(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newPasswordHistoryRepositoryWithExecutor(mock)

	now := time.Now().UTC()
	entry := domain.PasswordHistoryEntry{
		ID:           "entry-1",
		UserID:       "user-1",
		PasswordHash: "old-hash",
		CreatedAt:    now,
	}

	mock.ExpectExec(`INSERT INTO auth\.password_history`).
		WithArgs(entry.ID, entry.UserID, entry.PasswordHash, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// The trim runs in the same call so the table stays bounded.
	mock.ExpectExec(`DELETE FROM auth\.password_history`).
		WithArgs(entry.UserID, 5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Add(context.Background(), entry, 5); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPasswordHistoryRepository_AddWithoutRetentionSkipsTrim(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newPasswordHistoryRepositoryWithExecutor(mock)

	entry := domain.PasswordHistoryEntry{
		ID:           "entry-1",
		UserID:       "user-1",
		PasswordHash: "old-hash",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO auth\.password_history`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Add(context.Background(), entry, 0); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPasswordHistoryRepository_ListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newPasswordHistoryRepositoryWithExecutor(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "user_id", "password_hash", "created_at"}).
		AddRow("entry-2", "user-1", "newer-hash", now).
		AddRow("entry-1", "user-1", "older-hash", now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .* FROM auth\.password_history`).
		WithArgs("user-1").
		WillReturnRows(rows)

	entries, err := repo.ListRecent(context.Background(), "user-1", 5)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PasswordHash != "newer-hash" {
		t.Fatalf("expected newest entry first, got %s", entries[0].PasswordHash)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPasswordHistoryRepository_ListRecentEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newPasswordHistoryRepositoryWithExecutor(mock)

	rows := pgxmock.NewRows([]string{"id", "user_id", "password_hash", "created_at"})
	mock.ExpectQuery(`SELECT .* FROM auth\.password_history`).
		WithArgs("user-1").
		WillReturnRows(rows)

	entries, err := repo.ListRecent(context.Background(), "user-1", 5)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
