package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/carlos-israelj/banking-ai-agent/internal/errors"
)

const redisKeyPrefix = "agent:session:"

var _ Repo = (*RedisRepo)(nil)

// RedisRepo persists sessions in Redis so they survive a process restart.
// The key TTL mirrors the absolute session expiry; DeleteExpired is a no-op
// because Redis evicts on TTL.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisRepo{client: client, ttl: ttl}
}

func (sr *RedisRepo) Upsert(token string, session *Session) error {
	session.Token = token
	val, err := json.Marshal(session)
	if err != nil {
		return apperrors.Wrapf(err, "[RedisRepo.Upsert] marshal session")
	}
	return sr.client.Set(context.Background(), redisKeyPrefix+token, val, sr.ttl).Err()
}

func (sr *RedisRepo) Get(token string) (*Session, error) {
	val, err := sr.client.Get(context.Background(), redisKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[RedisRepo.Get] redis get")
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, apperrors.Wrapf(err, "[RedisRepo.Get] unmarshal session")
	}
	return &session, nil
}

func (sr *RedisRepo) Delete(token string) error {
	deleted, err := sr.client.Del(context.Background(), redisKeyPrefix+token).Result()
	if err != nil {
		return apperrors.Wrapf(err, "[RedisRepo.Delete] redis del")
	}
	if deleted == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

func (sr *RedisRepo) DeleteExpired(time.Time) error {
	return nil
}
