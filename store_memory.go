package seq

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore keeps snapshots in process. Entries never expire; a sequence
// lives until it is deleted or flushed.
type memoryStore struct {
	snapshots *gocache.Cache
}

func newMemoryStore() Store {
	return &memoryStore{snapshots: gocache.New(gocache.NoExpiration, 0)}
}

func (s *memoryStore) Driver() Driver { return DriverMemory }

func (s *memoryStore) Ready(context.Context) error { return nil }

func (s *memoryStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	body, ok := s.snapshot(name)
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(body), true, nil
}

func (s *memoryStore) Set(_ context.Context, name string, value []byte) error {
	s.snapshots.SetDefault(name, cloneBytes(value))
	return nil
}

func (s *memoryStore) Delete(_ context.Context, name string) error {
	s.snapshots.Delete(name)
	return nil
}

func (s *memoryStore) DeleteMany(ctx context.Context, names ...string) error {
	for _, name := range names {
		_ = s.Delete(ctx, name)
	}
	return nil
}

func (s *memoryStore) Names(context.Context) ([]string, error) {
	items := s.snapshots.Items()
	names := make([]string, 0, len(items))
	for name, item := range items {
		if _, ok := item.Object.([]byte); ok {
			names = append(names, name)
		}
	}
	return sortedNames(names), nil
}

func (s *memoryStore) Flush(context.Context) error {
	s.snapshots.Flush()
	return nil
}

// snapshot returns the stored bytes for name; entries of any other type miss.
func (s *memoryStore) snapshot(name string) ([]byte, bool) {
	item, ok := s.snapshots.Get(name)
	if !ok {
		return nil, false
	}
	body, ok := item.([]byte)
	return body, ok
}
