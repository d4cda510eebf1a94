package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// resetTokenTTL bounds how long a reset token stays redeemable.
const resetTokenTTL = 60 * time.Minute

// ResetTokenStore keeps single-use password-reset tokens in Redis, keyed by
// email. Issuing a new token replaces any outstanding one.
type ResetTokenStore struct {
	rdb *redis.Client
}

func NewResetTokenStore(rdb *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{rdb: rdb}
}

func resetKey(email string) string {
	return "password_reset:" + email
}

// Issue creates a fresh token bound to the email with the standard TTL.
func (s *ResetTokenStore) Issue(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, resetKey(email), token, resetTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

// consumeScript deletes the key only when the candidate matches, so a
// mismatch does not burn the outstanding token and two concurrent redeems
// cannot both succeed.
var consumeScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// Consume atomically redeems the stored token and reports whether the
// candidate matched. A consumed or expired token can never be redeemed again.
func (s *ResetTokenStore) Consume(ctx context.Context, email, candidate string) (bool, error) {
	res, err := consumeScript.Run(ctx, s.rdb, []string{resetKey(email)}, candidate).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return res == 1, nil
}
