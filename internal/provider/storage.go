package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/persistence"
)

// SessionStorage persists the session a client holds, the way a browser keeps it in
// local storage, and tracks revoked session ids.
type SessionStorage interface {
	Load(ctx context.Context, clientID string) (*domain.Session, error)
	Save(ctx context.Context, clientID string, session *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, clientID string) error
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type redisStorage struct {
	redis *persistence.Redis
}

// NewRedisStorage returns Redis-backed session storage.
func NewRedisStorage(r *persistence.Redis) SessionStorage {
	return &redisStorage{redis: r}
}

func (s *redisStorage) Load(ctx context.Context, clientID string) (*domain.Session, error) {
	raw, err := s.redis.Client.Get(ctx, s.redis.Key("session", clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *redisStorage) Save(ctx context.Context, clientID string, session *domain.Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.redis.Client.Set(ctx, s.redis.Key("session", clientID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *redisStorage) Delete(ctx context.Context, clientID string) error {
	if err := s.redis.Client.Del(ctx, s.redis.Key("session", clientID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *redisStorage) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := s.redis.Client.Set(ctx, s.redis.Key("revoked", sessionID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *redisStorage) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redis.Client.Exists(ctx, s.redis.Key("revoked", sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
