package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/repository"
)

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newUserRepositoryWithExecutor(mock)

	now := time.Now().UTC()
	user := domain.User{
		ID:                 "user-1",
		Email:              "user@example.com",
		PasswordHash:       "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		PasswordStrength:   75,
		CreatedAt:          now,
		LastPasswordChange: now,
	}

	mock.ExpectExec(`INSERT INTO auth\.users`).
		WithArgs(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.PasswordStrength,
			(*string)(nil),
			(*string)(nil),
			false,
			user.CreatedAt,
			(*time.Time)(nil),
			user.LastPasswordChange,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newUserRepositoryWithExecutor(mock)

	mock.ExpectExec(`INSERT INTO auth\.users`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err = repo.Create(context.Background(), domain.User{ID: "user-1", Email: "user@example.com"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newUserRepositoryWithExecutor(mock)

	now := time.Now().UTC()
	provider := "google"
	providerID := "google-uid-1"

	rows := pgxmock.NewRows(userColumns).AddRow(
		"user-1", "user@example.com", "stored-hash", 80, provider, providerID, false, now, nil, now,
	)

	mock.ExpectQuery(`SELECT .* FROM auth\.users`).
		WithArgs("user@example.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", user.ID)
	}
	if user.PasswordHash != "stored-hash" {
		t.Fatalf("expected hash populated, got %q", user.PasswordHash)
	}
	if user.Provider == nil || *user.Provider != provider {
		t.Fatal("expected provider pointer populated")
	}
	if user.LastLogin != nil {
		t.Fatal("expected nil last login")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newUserRepositoryWithExecutor(mock)

	mock.ExpectQuery(`SELECT .* FROM auth\.users`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newUserRepositoryWithExecutor(mock)

	changedAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE auth\.users SET`).
		WithArgs("new-hash", 90, false, changedAt, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdatePassword(context.Background(), "user-1", "new-hash", 90, changedAt); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_UpdatePasswordMissingUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newUserRepositoryWithExecutor(mock)

	mock.ExpectExec(`UPDATE auth\.users SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdatePassword(context.Background(), "missing", "new-hash", 90, time.Now().UTC())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_LinkProvider(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := newUserRepositoryWithExecutor(mock)

	mock.ExpectExec(`UPDATE auth\.users SET`).
		WithArgs("github", "gh-uid-1", "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.LinkProvider(context.Background(), "user-1", "github", "gh-uid-1"); err != nil {
		t.Fatalf("LinkProvider returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
