package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const slotOpTimeout = 2 * time.Second

// RedisSlot keeps the token in a single redis string key.
type RedisSlot struct {
	client redis.Cmdable
	key    string
}

// NewRedisSlot stores the token at prefix+key.
func NewRedisSlot(client redis.Cmdable, prefix, key string) *RedisSlot {
	return &RedisSlot{client: client, key: prefix + key}
}

func (r *RedisSlot) Load() (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), slotOpTimeout)
	defer cancel()

	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (r *RedisSlot) Save(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), slotOpTimeout)
	defer cancel()
	return r.client.Set(ctx, r.key, token, 0).Err()
}

func (r *RedisSlot) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), slotOpTimeout)
	defer cancel()
	return r.client.Del(ctx, r.key).Err()
}
