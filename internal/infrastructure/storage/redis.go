package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/ports"
)

const redisKeyPrefix = "refrate:"

// RedisStore keeps reference values as plain string keys, handy when
// several runners share one set of previous readings.
type RedisStore struct {
	client *redis.Client
}

var _ ports.ReferenceStore = (*RedisStore)(nil)

// NewRedisStore parses the DSN and prepares a client. The server is
// not contacted until the first command.
func NewRedisStore(dsn string) (*RedisStore, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis dsn: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Previous(ctx context.Context, series string) (decimal.Decimal, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+series).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get series %s: %w", series, err)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("series %s holds %q: %w", series, raw, err)
	}
	return value, true, nil
}

func (s *RedisStore) Store(ctx context.Context, series string, value decimal.Decimal) error {
	if err := s.client.Set(ctx, redisKeyPrefix+series, value.String(), 0).Err(); err != nil {
		return fmt.Errorf("set series %s: %w", series, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
