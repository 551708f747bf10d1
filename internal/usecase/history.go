package usecase

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
)

const defaultHistorySize = 5

// PasswordHistoryService stores prior password hashes per user and serves
// them for reuse checking.
type PasswordHistoryService struct {
	history port.PasswordHistoryRepository
	retain  int
}

// NewPasswordHistoryService constructs the service with the given retention
// window (the reuse-check window).
func NewPasswordHistoryService(history port.PasswordHistoryRepository, retain int) (*PasswordHistoryService, error) {
	if history == nil {
		return nil, fmt.Errorf("history repository is required")
	}
	if retain <= 0 {
		retain = defaultHistorySize
	}
	return &PasswordHistoryService{history: history, retain: retain}, nil
}

// Record appends a superseded hash to the user's history. Entries beyond the
// retention window are trimmed by the repository in the same operation.
func (s *PasswordHistoryService) Record(ctx context.Context, userID, oldHash string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if oldHash == "" {
		return nil
	}

	entry := domain.PasswordHistoryEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		PasswordHash: oldHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.history.Add(ctx, entry, s.retain); err != nil {
		return fmt.Errorf("record password history: %w", err)
	}

	return nil
}

// RecentHashes returns retained hashes in reverse-chronological order.
func (s *PasswordHistoryService) RecentHashes(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	entries, err := s.history.ListRecent(ctx, userID, s.retain)
	if err != nil {
		return nil, fmt.Errorf("list password history: %w", err)
	}

	hashes := make([]string, 0, len(entries))
	for _, entry := range entries {
		hashes = append(hashes, entry.PasswordHash)
	}

	return hashes, nil
}
