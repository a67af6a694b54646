package codestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// setIfAbsentLua returns {1, ARGV[1]} after storing a new value, or {0, existing}.
// KEYS[1] = code key
// ARGV[1] = candidate code
// ARGV[2] = ttl in milliseconds
var setIfAbsentLua = redis.NewScript(`
local existing = redis.call('GET', KEYS[1])
if existing then
  return {0, existing}
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return {1, ARGV[1]}
`)

type RedisStore struct {
	redis redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{redis: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, true, nil
}

func (s *RedisStore) SetWithExpire(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := checkTTL(ttl); err != nil {
		return err
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	if err := checkTTL(ttl); err != nil {
		return "", false, err
	}

	result, err := setIfAbsentLua.Run(ctx, s.redis, []string{key}, value, ttl.Milliseconds()).Slice()
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(result) != 2 {
		return "", false, fmt.Errorf("%w: unexpected lua result length %d", ErrUnavailable, len(result))
	}

	created, ok := result[0].(int64)
	if !ok {
		return "", false, fmt.Errorf("%w: unexpected lua result type %T", ErrUnavailable, result[0])
	}
	stored, ok := result[1].(string)
	if !ok {
		return "", false, fmt.Errorf("%w: unexpected lua result type %T", ErrUnavailable, result[1])
	}

	return stored, created == 1, nil
}

// Ping checks connectivity; used by the start hook.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.redis.Close()
}
