package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

const DefaultRedisKey = "wa:sessions"

// RedisStore keeps all mappings in one hash, field = user id.
type RedisStore struct {
	rdb redis.Cmdable
	key string
}

func NewRedisStore(rdb redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (r *RedisStore) Get(ctx context.Context, userID string) (string, bool, error) {
	handle, err := r.rdb.HGet(ctx, r.key, userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("key", r.key).Str("wa_id", userID).Msg("failed to read session from redis")
		return "", false, errx.WrapRedis("hget", err)
	}
	return handle, true, nil
}

func (r *RedisStore) Put(ctx context.Context, userID, handle string) error {
	if err := r.rdb.HSet(ctx, r.key, userID, handle).Err(); err != nil {
		logx.Error().Err(err).Str("key", r.key).Str("wa_id", userID).Msg("failed to write session to redis")
		return errx.WrapRedis("hset", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
