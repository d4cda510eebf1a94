package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

const (
	sessionTTL  = 12 * time.Hour
	rememberTTL = 30 * 24 * time.Hour
)

// SessionStore keeps sessions in Redis, with a per-account index so a
// password reset can invalidate every outstanding session at once.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(id string) string {
	return "session:" + id
}

func accountSessionsKey(accountID int64) string {
	return fmt.Sprintf("account_sessions:%d", accountID)
}

func ttlFor(remember bool) time.Duration {
	if remember {
		return rememberTTL
	}
	return sessionTTL
}

// Create issues a fresh session with a new opaque ID.
func (s *SessionStore) Create(ctx context.Context, accountID int64, role Role, remember bool) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Role:      role,
		Remember:  remember,
		CreatedAt: time.Now(),
	}
	if err := s.write(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) write(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ttl := ttlFor(session.Remember)
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, ttl)
	pipe.SAdd(ctx, accountSessionsKey(session.AccountID), session.ID)
	pipe.Expire(ctx, accountSessionsKey(session.AccountID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	session := &Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session, nil
}

// Regenerate swaps a session for a fresh ID. The new session is written
// before the old one is removed so the account is never logged out
// mid-transition.
func (s *SessionStore) Regenerate(ctx context.Context, oldID string) (*Session, error) {
	old, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	fresh := &Session{
		ID:        uuid.NewString(),
		AccountID: old.AccountID,
		Role:      old.Role,
		Remember:  old.Remember,
		CreatedAt: time.Now(),
	}
	if err := s.write(ctx, fresh); err != nil {
		return nil, err
	}
	if err := s.Invalidate(ctx, oldID); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Invalidate removes a session. Unknown IDs are not an error.
func (s *SessionStore) Invalidate(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, accountSessionsKey(session.AccountID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// InvalidateAccount removes every session of an account, including
// remember-me ones. Used when a password is reset.
func (s *SessionStore) InvalidateAccount(ctx context.Context, accountID int64) error {
	ids, err := s.rdb.SMembers(ctx, accountSessionsKey(accountID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list account sessions: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKey(id))
	}
	pipe.Del(ctx, accountSessionsKey(accountID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate account sessions: %w", err)
	}
	return nil
}
