package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	roleEntry  = "userRole"
	tokenEntry = "token"
)

// SessionStore keeps the two session entries as separate keys:
// session:<id>:userRole and session:<id>:token.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. A ttl <= 0 keeps entries forever.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (string, string, error) {
	vals, err := s.client.MGet(ctx, s.key(sessionID, roleEntry), s.key(sessionID, tokenEntry)).Result()
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}
	return asString(vals[0]), asString(vals[1]), nil
}

func (s *SessionStore) Save(ctx context.Context, sessionID, role, token string) error {
	pipe := s.client.TxPipeline()
	if role == "" {
		pipe.Del(ctx, s.key(sessionID, roleEntry))
	} else {
		pipe.Set(ctx, s.key(sessionID, roleEntry), role, s.ttl)
	}
	if token == "" {
		pipe.Del(ctx, s.key(sessionID, tokenEntry))
	} else {
		pipe.Set(ctx, s.key(sessionID, tokenEntry), token, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID, roleEntry), s.key(sessionID, tokenEntry)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID, entry string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, entry)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
