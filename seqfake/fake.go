// Package seqfake provides an in-memory Repository that records store
// traffic so tests can assert how code under test persists sequences.
package seqfake

import (
	"context"
	"sync"
	"testing"

	"github.com/goforj/seq"
)

// Op identifies a store operation for assertions.
type Op string

const (
	OpReady      Op = "ready"
	OpGet        Op = "get"
	OpSet        Op = "set"
	OpDelete     Op = "delete"
	OpDeleteMany Op = "delete_many"
	OpNames      Op = "names"
	OpFlush      Op = "flush"
)

// Fake exposes a deterministic in-memory repository plus assertion helpers.
type Fake struct {
	repo   *seq.Repository
	counts map[Op]map[string]int
	mu     sync.Mutex
}

// New creates a Fake backed by the memory store.
func New() *Fake {
	store := &countingStore{inner: seq.NewMemoryStore(context.Background())}
	f := &Fake{
		repo:   seq.NewRepository(store),
		counts: make(map[Op]map[string]int),
	}
	store.onCount = f.record
	return f
}

// Repository returns the repository to inject into code under test.
func (f *Fake) Repository() *seq.Repository { return f.repo }

// Reset clears recorded counts. Stored sequences are kept.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[Op]map[string]int)
}

// AssertCalled verifies name was touched by op the expected number of times.
func (f *Fake) AssertCalled(t *testing.T, op Op, name string, times int) {
	t.Helper()
	if got := f.Count(op, name); got != times {
		t.Fatalf("expected %s %q called %d times, got %d", op, name, times, got)
	}
}

// AssertNotCalled ensures name was never touched by op.
func (f *Fake) AssertNotCalled(t *testing.T, op Op, name string) {
	t.Helper()
	if got := f.Count(op, name); got != 0 {
		t.Fatalf("expected %s %q not called, got %d", op, name, got)
	}
}

// AssertTotal ensures the total call count for an op matches times.
func (f *Fake) AssertTotal(t *testing.T, op Op, times int) {
	t.Helper()
	if got := f.Total(op); got != times {
		t.Fatalf("expected %s total=%d, got %d", op, times, got)
	}
}

// Count returns calls for op+name.
func (f *Fake) Count(op Op, name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op][name]
}

// Total returns total calls for an op across names.
func (f *Fake) Total(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, v := range f.counts[op] {
		sum += v
	}
	return sum
}

func (f *Fake) record(op Op, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] == nil {
		f.counts[op] = make(map[string]int)
	}
	f.counts[op][name]++
}

// countingStore wraps a Store to record calls.
type countingStore struct {
	inner   seq.Store
	onCount func(Op, string)
}

func (s *countingStore) Driver() seq.Driver { return s.inner.Driver() }

func (s *countingStore) Ready(ctx context.Context) error {
	s.bump(OpReady, "")
	return s.inner.Ready(ctx)
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.bump(OpGet, key)
	return s.inner.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, val []byte) error {
	s.bump(OpSet, key)
	return s.inner.Set(ctx, key, val)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.bump(OpDelete, key)
	return s.inner.Delete(ctx, key)
}

func (s *countingStore) DeleteMany(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		s.bump(OpDeleteMany, k)
	}
	return s.inner.DeleteMany(ctx, keys...)
}

func (s *countingStore) Names(ctx context.Context) ([]string, error) {
	s.bump(OpNames, "")
	return s.inner.Names(ctx)
}

func (s *countingStore) Flush(ctx context.Context) error {
	s.bump(OpFlush, "")
	return s.inner.Flush(ctx)
}

func (s *countingStore) bump(op Op, key string) {
	if s.onCount != nil {
		s.onCount(op, key)
	}
}
