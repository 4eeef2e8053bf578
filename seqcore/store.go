package seqcore

import "context"

// Store is the byte-level contract every snapshot backend implements.
// Keys are sequence names; values are encoded snapshots.
type Store interface {
	Driver() Driver
	Ready(ctx context.Context) error
	Get(ctx context.Context, name string) ([]byte, bool, error)
	Set(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
	DeleteMany(ctx context.Context, names ...string) error
	// Names lists the stored sequence names in the store's namespace,
	// sorted ascending.
	Names(ctx context.Context) ([]string, error)
	Flush(ctx context.Context) error
}
