package seq

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient captures the subset of redis.Client used by the store.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

var errRedisClientUnavailable = errors.New("redis sequence client unavailable")

const redisScanCount = 200

// redisStore keeps each snapshot as a plain string value at prefix:name.
type redisStore struct {
	client RedisClient
	keys   keyspace
}

func newRedisStore(client RedisClient, prefix string) Store {
	if prefix == "" {
		prefix = defaultStorePrefix
	}
	return &redisStore{client: client, keys: keyspace{prefix: prefix}}
}

func (s *redisStore) Driver() Driver { return DriverRedis }

func (s *redisStore) Ready(ctx context.Context) error {
	if s.client == nil {
		return errRedisClientUnavailable
	}
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, errRedisClientUnavailable
	}
	body, err := s.client.Get(ctx, s.keys.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (s *redisStore) Set(ctx context.Context, name string, value []byte) error {
	if s.client == nil {
		return errRedisClientUnavailable
	}
	return s.client.Set(ctx, s.keys.key(name), value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, name string) error {
	return s.DeleteMany(ctx, name)
}

func (s *redisStore) DeleteMany(ctx context.Context, names ...string) error {
	if s.client == nil {
		return errRedisClientUnavailable
	}
	if len(names) == 0 {
		return nil
	}
	return s.client.Del(ctx, s.keys.keys(names)...).Err()
}

func (s *redisStore) Names(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.scan(ctx, func(page []string) error {
		keys = append(keys, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.keys.names(keys), nil
}

func (s *redisStore) Flush(ctx context.Context) error {
	return s.scan(ctx, func(page []string) error {
		if len(page) == 0 {
			return nil
		}
		return s.client.Del(ctx, page...).Err()
	})
}

// scan walks every key under the prefix a page at a time. A key may appear
// in more than one page.
func (s *redisStore) scan(ctx context.Context, fn func(page []string) error) error {
	if s.client == nil {
		return errRedisClientUnavailable
	}
	match := s.keys.key("*")
	var cursor uint64
	for {
		page, next, err := s.client.Scan(ctx, cursor, match, redisScanCount).Result()
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
