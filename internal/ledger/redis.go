package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tarakania/rpg-bot/pkg/retrylimit"
)

// RedisStore keeps response lists in Redis (RPUSH/LRANGE/DEL with
// EXPIRE). Every call goes through an adaptive retry so short
// connection blips never lose a record.
type RedisStore struct {
	client *redis.Client
	lim    *retrylimit.AdaptiveLimiter
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{
		client: client,
		lim:    retrylimit.NewAdaptiveLimiter(50, 1, 200, 5, 0.5),
	}, nil
}

// Append implements Store.
func (s *RedisStore) Append(ctx context.Context, key, value string, ttl time.Duration) error {
	return retrylimit.WithRetry(ctx, func() error {
		pipe := s.client.TxPipeline()
		pipe.RPush(ctx, key, value)
		pipe.Expire(ctx, key, ttl)
		_, err := pipe.Exec(ctx)
		return err
	}, s.lim)
}

// Drain implements Store.
func (s *RedisStore) Drain(ctx context.Context, key string) ([]string, error) {
	var values []string
	err := retrylimit.WithRetry(ctx, func() error {
		pipe := s.client.TxPipeline()
		lrange := pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		values = lrange.Val()
		return nil
	}, s.lim)
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
