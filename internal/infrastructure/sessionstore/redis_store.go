package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"smart-attendance/internal/domain"
)

const (
	redisSessionKey = "smart-attendance:session"
	redisOpTimeout  = 3 * time.Second
)

// RedisStore keeps the session record in Redis so a session survives
// across machines. The key expires together with the session.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: redisSessionKey}
}

func (s *RedisStore) Load() (domain.StoredSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.StoredSession{}, domain.ErrNotFound
		}
		return domain.StoredSession{}, err
	}
	var session domain.StoredSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.StoredSession{}, err
	}
	return session, nil
}

func (s *RedisStore) Save(session domain.StoredSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt())
	if ttl <= 0 {
		ttl = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.key, raw, ttl).Err()
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.key).Err()
}
