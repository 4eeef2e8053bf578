package seq

import (
	"os"
	"path/filepath"

	"github.com/goforj/seq/seqcore"
)

const (
	defaultStorePrefix  = "seq"
	defaultTableName    = "sequences"
	defaultBoltBucket   = "sequences"
	defaultDynamoRegion = "us-east-1"
)

func defaultFileDir() string {
	return filepath.Join(os.TempDir(), "seq-file")
}

func defaultBoltPath() string {
	return filepath.Join(os.TempDir(), "seq.bolt")
}

// StoreConfig controls how a Store is constructed.
type StoreConfig struct {
	seqcore.BaseConfig

	Driver Driver

	// FileDir controls where the file driver writes snapshots.
	FileDir string

	// BoltPath and BoltBucket locate the bolt database.
	BoltPath   string
	BoltBucket string

	// RedisClient is required when DriverRedis is used.
	RedisClient RedisClient

	// SQLDriverName is one of "sqlite", "mysql" or "pgx". "postgres" is
	// accepted as an alias for "pgx".
	SQLDriverName string
	SQLDSN        string
	SQLTable      string

	// NATSKeyValue is required when DriverNATS is used.
	NATSKeyValue NATSKeyValue

	// DynamoClient is optional; a client is built from the region and endpoint when nil.
	DynamoClient   DynamoAPI
	DynamoEndpoint string
	DynamoRegion   string
	DynamoTable    string
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.Prefix == "" {
		c.Prefix = defaultStorePrefix
	}
	if c.Compression == "" {
		c.Compression = CompressionNone
	}
	if c.FileDir == "" {
		c.FileDir = defaultFileDir()
	}
	if c.BoltPath == "" {
		c.BoltPath = defaultBoltPath()
	}
	if c.BoltBucket == "" {
		c.BoltBucket = defaultBoltBucket
	}
	if c.SQLTable == "" {
		c.SQLTable = defaultTableName
	}
	if c.DynamoRegion == "" {
		c.DynamoRegion = defaultDynamoRegion
	}
	if c.DynamoTable == "" {
		c.DynamoTable = defaultTableName
	}
	return c
}
