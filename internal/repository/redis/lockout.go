package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
)

// LockoutConfig defines the failed-attempt policy enforced by the store.
type LockoutConfig struct {
	KeyPrefix string
	Threshold int
	Window    time.Duration
	// Duration is the base lock length; repeated lock cycles double it up to
	// MaxDuration.
	Duration    time.Duration
	MaxDuration time.Duration
}

// registerFailureScript runs the whole failure transition server-side so
// concurrent failed logins for one user never lose an increment or apply the
// lock transition twice.
//
// KEYS[1] = lockout hash key
// ARGV[1] = now (unix seconds)
// ARGV[2] = window seconds
// ARGV[3] = threshold
// ARGV[4] = base lock seconds
// ARGV[5] = max lock seconds
//
// Returns {count, first_failed_at, locked_until, cycles}.
var registerFailureScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local threshold = tonumber(ARGV[3])
local base = tonumber(ARGV[4])
local max = tonumber(ARGV[5])

local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
local first = tonumber(redis.call('HGET', KEYS[1], 'first') or '0')
local locked = tonumber(redis.call('HGET', KEYS[1], 'locked_until') or '0')
local cycles = tonumber(redis.call('HGET', KEYS[1], 'cycles') or '0')

if first == 0 or (now - first) > window then
  count = 1
  first = now
else
  count = count + 1
end

if count >= threshold then
  local lock_secs = base * (2 ^ cycles)
  if lock_secs > max then
    lock_secs = max
  end
  local lock_until = now + lock_secs
  if lock_until > locked then
    locked = lock_until
  end
  cycles = cycles + 1
  count = 0
  first = 0
end

redis.call('HSET', KEYS[1], 'count', count, 'first', first, 'locked_until', locked, 'cycles', cycles)

local ttl = window
if locked > now and (locked - now) > ttl then
  ttl = locked - now
end
redis.call('EXPIRE', KEYS[1], ttl + window)

return {count, first, locked, cycles}
`)

// LockoutStore persists failed-attempt state in Redis hashes.
type LockoutStore struct {
	client *redis.Client
	cfg    LockoutConfig
}

// NewLockoutStore constructs a store using the provided Redis client and config.
func NewLockoutStore(client *redis.Client, cfg LockoutConfig) *LockoutStore {
	return &LockoutStore{client: client, cfg: cfg}
}

func (s *LockoutStore) key(userID string) string {
	if s.cfg.KeyPrefix == "" {
		return userID
	}
	return fmt.Sprintf("%s:%s", s.cfg.KeyPrefix, userID)
}

// RegisterFailure atomically records a failed attempt and applies the lock
// transition when the threshold is crossed within the sliding window.
func (s *LockoutStore) RegisterFailure(ctx context.Context, userID string, at time.Time) (domain.LockoutRecord, error) {
	result, err := registerFailureScript.Run(ctx, s.client,
		[]string{s.key(userID)},
		at.Unix(),
		int(s.cfg.Window.Seconds()),
		s.cfg.Threshold,
		int(s.cfg.Duration.Seconds()),
		int(s.cfg.MaxDuration.Seconds()),
	).Int64Slice()
	if err != nil {
		return domain.LockoutRecord{}, fmt.Errorf("redis register failure: %w", err)
	}
	if len(result) != 4 {
		return domain.LockoutRecord{}, fmt.Errorf("redis register failure: unexpected reply length %d", len(result))
	}

	return recordFromFields(userID, result[0], result[1], result[2], result[3]), nil
}

// Status returns the current lockout record for a user. A missing key maps to
// a zero record.
func (s *LockoutStore) Status(ctx context.Context, userID string, _ time.Time) (domain.LockoutRecord, error) {
	values, err := s.client.HMGet(ctx, s.key(userID), "count", "first", "locked_until", "cycles").Result()
	if err != nil {
		return domain.LockoutRecord{}, fmt.Errorf("redis lockout status: %w", err)
	}

	fields := make([]int64, 4)
	for i, raw := range values {
		fields[i] = parseField(raw)
	}

	return recordFromFields(userID, fields[0], fields[1], fields[2], fields[3]), nil
}

// Clear removes all failure state for a user, unconditionally.
func (s *LockoutStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis clear lockout: %w", err)
	}
	return nil
}

func parseField(raw any) int64 {
	str, ok := raw.(string)
	if !ok {
		return 0
	}
	var value int64
	if _, err := fmt.Sscanf(str, "%d", &value); err != nil {
		return 0
	}
	return value
}

func recordFromFields(userID string, count, first, lockedUntil, cycles int64) domain.LockoutRecord {
	record := domain.LockoutRecord{
		UserID:      userID,
		FailedCount: int(count),
		LockCycles:  int(cycles),
	}
	if first > 0 {
		record.FirstFailedAt = time.Unix(first, 0).UTC()
	}
	if lockedUntil > 0 {
		until := time.Unix(lockedUntil, 0).UTC()
		record.LockedUntil = &until
	}
	return record
}

var _ port.LockoutStore = (*LockoutStore)(nil)
