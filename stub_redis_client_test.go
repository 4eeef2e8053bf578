package seq

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// stubRedisClient is an in-memory RedisClient used for unit tests.
type stubRedisClient struct {
	store map[string]string

	// scanPage limits how many keys a SCAN call returns; zero returns everything.
	scanPage  int
	scanCalls int
	// scanKeys is the listing taken when a SCAN starts at cursor zero.
	scanKeys []string

	pingErr error
	getErr  error
	setErr  error
	scanErr error
	delErr  error
}

func newStubRedisClient() *stubRedisClient {
	return &stubRedisClient{store: make(map[string]string)}
}

func (c *stubRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if c.pingErr != nil {
		cmd.SetErr(c.pingErr)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func (c *stubRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if c.getErr != nil {
		cmd.SetErr(c.getErr)
		return cmd
	}
	if val, ok := c.store[key]; ok {
		cmd.SetVal(val)
		return cmd
	}
	cmd.SetErr(redis.Nil)
	return cmd
}

func (c *stubRedisClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if c.setErr != nil {
		cmd.SetErr(c.setErr)
		return cmd
	}
	bytes, _ := value.([]byte)
	c.store[key] = string(bytes)
	cmd.SetVal("OK")
	return cmd
}

func (c *stubRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if c.delErr != nil {
		cmd.SetErr(c.delErr)
		return cmd
	}
	var removed int64
	for _, key := range keys {
		if _, ok := c.store[key]; ok {
			delete(c.store, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func (c *stubRedisClient) Scan(ctx context.Context, cursor uint64, match string, _ int64) *redis.ScanCmd {
	cmd := redis.NewScanCmd(ctx, nil)
	c.scanCalls++
	if c.scanErr != nil {
		cmd.SetErr(c.scanErr)
		return cmd
	}
	if cursor == 0 {
		prefix := strings.TrimSuffix(match, "*")
		c.scanKeys = c.scanKeys[:0]
		for key := range c.store {
			if strings.HasPrefix(key, prefix) {
				c.scanKeys = append(c.scanKeys, key)
			}
		}
		sort.Strings(c.scanKeys)
	}
	// The cursor is an offset into the listing, like SCAN it may return keys
	// deleted since the listing was taken.
	start := min(int(cursor), len(c.scanKeys))
	end := len(c.scanKeys)
	if c.scanPage > 0 {
		end = min(start+c.scanPage, end)
	}
	next := uint64(end)
	if end == len(c.scanKeys) {
		next = 0
	}
	cmd.SetVal(slices.Clone(c.scanKeys[start:end]), next)
	return cmd
}
