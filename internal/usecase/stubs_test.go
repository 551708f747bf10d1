package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/repository"
)

type stubUserRepo struct {
	users     map[string]domain.User
	createErr error
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string, strength int, changedAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.PasswordStrength = strength
	user.LastPasswordChange = changedAt
	user.ForcePasswordChange = false
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) LinkProvider(_ context.Context, id, provider, providerID string) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Provider = &provider
	user.ProviderID = &providerID
	r.users[id] = user
	return nil
}

type stubSessionRepo struct {
	sessions map[string]domain.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, session domain.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *stubSessionRepo) GetActive(_ context.Context, sessionID string, now time.Time) (*domain.Session, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !session.IsActive(now) {
		delete(r.sessions, sessionID)
		return nil, repository.ErrNotFound
	}
	copied := session
	return &copied, nil
}

func (r *stubSessionRepo) Touch(_ context.Context, sessionID string, at time.Time, ip *string) error {
	session, ok := r.sessions[sessionID]
	if !ok {
		return repository.ErrNotFound
	}
	session.Touch(at, ip)
	r.sessions[sessionID] = session
	return nil
}

func (r *stubSessionRepo) Delete(_ context.Context, sessionID string) error {
	delete(r.sessions, sessionID)
	return nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	removed := 0
	for id, session := range r.sessions {
		if !session.IsActive(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type stubHistoryRepo struct {
	entries map[string][]domain.PasswordHistoryEntry
}

func newStubHistoryRepo() *stubHistoryRepo {
	return &stubHistoryRepo{entries: make(map[string][]domain.PasswordHistoryEntry)}
}

func (r *stubHistoryRepo) Add(_ context.Context, entry domain.PasswordHistoryEntry, retain int) error {
	entries := append(r.entries[entry.UserID], entry)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	if len(entries) > retain {
		entries = entries[len(entries)-retain:]
	}
	r.entries[entry.UserID] = entries
	return nil
}

func (r *stubHistoryRepo) ListRecent(_ context.Context, userID string, limit int) ([]domain.PasswordHistoryEntry, error) {
	entries := r.entries[userID]
	result := make([]domain.PasswordHistoryEntry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, entries[i])
	}
	return result, nil
}

// stubLockoutStore mirrors the sliding-window semantics of the Redis store
// without a broker: failures inside the window accumulate, crossing the
// threshold locks and resets the counter, and the lock duration doubles each cycle.
type stubLockoutStore struct {
	threshold int
	window    time.Duration
	duration  time.Duration
	records   map[string]domain.LockoutRecord
}

func newStubLockoutStore(threshold int, window, duration time.Duration) *stubLockoutStore {
	return &stubLockoutStore{
		threshold: threshold,
		window:    window,
		duration:  duration,
		records:   make(map[string]domain.LockoutRecord),
	}
}

func (s *stubLockoutStore) RegisterFailure(_ context.Context, userID string, at time.Time) (domain.LockoutRecord, error) {
	record := s.records[userID]
	record.UserID = userID

	if !record.FirstFailedAt.IsZero() && at.Sub(record.FirstFailedAt) > s.window {
		record.FailedCount = 0
		record.FirstFailedAt = time.Time{}
	}

	if record.FailedCount == 0 {
		record.FirstFailedAt = at
	}
	record.FailedCount++

	if record.FailedCount >= s.threshold {
		until := at.Add(s.duration * (1 << record.LockCycles))
		record.LockedUntil = &until
		record.LockCycles++
		record.FailedCount = 0
		record.FirstFailedAt = time.Time{}
	}

	s.records[userID] = record
	return record, nil
}

func (s *stubLockoutStore) Status(_ context.Context, userID string, _ time.Time) (domain.LockoutRecord, error) {
	return s.records[userID], nil
}

func (s *stubLockoutStore) Clear(_ context.Context, userID string) error {
	delete(s.records, userID)
	return nil
}

// capturingPublisher records every published event for assertions.
type capturingPublisher struct {
	loginFailed     []domain.LoginFailedEvent
	loginSucceeded  []domain.LoginSucceededEvent
	accountLocked   []domain.AccountLockedEvent
	passwordChanged []domain.PasswordChangedEvent
	sessionCreated  []domain.SessionCreatedEvent
}

func (p *capturingPublisher) PublishLoginFailed(_ context.Context, event domain.LoginFailedEvent) error {
	p.loginFailed = append(p.loginFailed, event)
	return nil
}

func (p *capturingPublisher) PublishLoginSucceeded(_ context.Context, event domain.LoginSucceededEvent) error {
	p.loginSucceeded = append(p.loginSucceeded, event)
	return nil
}

func (p *capturingPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.accountLocked = append(p.accountLocked, event)
	return nil
}

func (p *capturingPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.passwordChanged = append(p.passwordChanged, event)
	return nil
}

func (p *capturingPublisher) PublishSessionCreated(_ context.Context, event domain.SessionCreatedEvent) error {
	p.sessionCreated = append(p.sessionCreated, event)
	return nil
}
