package seq

import (
	"context"
	"fmt"
	"io"
)

// NewStore returns a concrete store for the requested driver, with stored
// snapshots compressed, size checked and encrypted as configured.
// Construction failures are reported by every call on the returned store.
// @group Constructors
//
// Example: select driver explicitly
//
//	ctx := context.Background()
//	store := seq.NewStore(ctx, seq.StoreConfig{
//		Driver: seq.DriverMemory,
//	})
//	fmt.Println(store.Driver()) // memory
func NewStore(ctx context.Context, cfg StoreConfig) Store {
	cfg = cfg.withDefaults()
	stages, err := storeStages(cfg.BaseConfig)
	if err != nil {
		return &errorStore{driver: cfg.Driver, err: err}
	}
	base, err := newBaseStore(ctx, cfg)
	if err != nil {
		return &errorStore{driver: cfg.Driver, err: err}
	}
	return newCodecStore(base, stages...)
}

func newBaseStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return newMemoryStore(), nil
	case DriverNull:
		return newNullStore(), nil
	case DriverFile:
		return newFileStore(cfg.FileDir), nil
	case DriverBolt:
		store, err := newBoltStore(cfg.BoltPath, cfg.BoltBucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverRedis:
		return newRedisStore(cfg.RedisClient, cfg.Prefix), nil
	case DriverSQL:
		store, err := newSQLStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverNATS:
		return newNATSStore(cfg.NATSKeyValue, cfg.Prefix), nil
	case DriverDynamo:
		return newDynamoStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("seq: unknown store driver %q", cfg.Driver)
	}
}

// NewStoreWith builds a store using a driver and a set of functional options.
// @group Constructors
//
// Example: redis store (options)
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
//	store := seq.NewStoreWith(ctx, seq.DriverRedis,
//		seq.WithRedisClient(redisClient),
//		seq.WithPrefix("app"),
//		seq.WithCompression(seq.CompressionGzip),
//	)
//	fmt.Println(store.Driver()) // redis
func NewStoreWith(ctx context.Context, driver Driver, opts ...StoreOption) Store {
	cfg := StoreConfig{Driver: driver}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return NewStore(ctx, cfg)
}

// NewMemoryStore is a convenience for an in-process store.
// @group Constructors
func NewMemoryStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverMemory, opts...)
}

// NewNullStore returns a store that discards writes and always misses.
// @group Constructors
func NewNullStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverNull, opts...)
}

// NewFileStore is a convenience for a filesystem-backed store.
// @group Constructors
func NewFileStore(ctx context.Context, dir string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverFile, append([]StoreOption{WithFileDir(dir)}, opts...)...)
}

// NewBoltStore is a convenience for a bolt-backed store. Release it with CloseStore.
// @group Constructors
func NewBoltStore(ctx context.Context, path string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverBolt, append([]StoreOption{WithBoltPath(path)}, opts...)...)
}

// NewRedisStore is a convenience for a redis-backed store. Redis client is required.
// @group Constructors
func NewRedisStore(ctx context.Context, client RedisClient, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverRedis, append([]StoreOption{WithRedisClient(client)}, opts...)...)
}

// NewSQLStore is a convenience for a database/sql-backed store. Release it with CloseStore.
// @group Constructors
//
// Example: sqlite
//
//	store := seq.NewSQLStore(ctx, "sqlite", "file:seq.db", "sequences")
//	fmt.Println(store.Driver()) // sql
func NewSQLStore(ctx context.Context, driverName, dsn, table string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverSQL, append([]StoreOption{WithSQL(driverName, dsn, table)}, opts...)...)
}

// NewNATSStore is a convenience for a JetStream key-value store.
// @group Constructors
func NewNATSStore(ctx context.Context, kv NATSKeyValue, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverNATS, append([]StoreOption{WithNATSKeyValue(kv)}, opts...)...)
}

// NewDynamoStore is a convenience for a DynamoDB-backed store.
// @group Constructors
func NewDynamoStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverDynamo, opts...)
}

// CloseStore releases resources held by drivers that own them (bolt, sql).
// It is a no-op for the others.
func CloseStore(store Store) error {
	return closeStore(store)
}

func closeStore(store Store) error {
	switch s := store.(type) {
	case *codecStore:
		return closeStore(s.Store)
	case io.Closer:
		return s.Close()
	default:
		return nil
	}
}
