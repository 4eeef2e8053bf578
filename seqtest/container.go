package seqtest

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/goforj/seq/seqcore"
)

// Container is the integer sequence contract exercised by the suites.
type Container interface {
	Append(values ...int)
	Resize(n int)
	Clear()
	EraseRange(begin, end int)
	Reserve(n int)
	At(i int) (int, error)
	Empty() bool
	Size() int
	Capacity() int
	MaxSize() int
	Begin() int
	End() int
	Values() []int
}

// DefaultSeed seeds the value generator when Options.Seed is zero.
const DefaultSeed uint64 = 0x5eed

// Options configures RunContainerContract.
type Options struct {
	// Seed makes generated element values reproducible.
	Seed uint64
}

type fixture struct {
	t          *testing.T
	collection Container
	rng        *rand.Rand
}

// addEntries appends count values drawn from [0, 100).
func (f *fixture) addEntries(count int) {
	f.t.Helper()
	if count <= 0 {
		f.t.Fatalf("addEntries requires a positive count, got %d", count)
	}
	for i := 0; i < count; i++ {
		f.collection.Append(f.rng.IntN(100))
	}
}

// RunContainerContract runs the dynamic array contract against containers
// built by newContainer. Every case gets a fresh container.
func RunContainerContract(t *testing.T, newContainer func() Container, opts Options) {
	t.Helper()

	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	run := func(name string, fn func(f *fixture)) {
		t.Run(name, func(t *testing.T) {
			f := &fixture{
				t:          t,
				collection: newContainer(),
				rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
			}
			t.Cleanup(func() {
				if f.collection != nil {
					f.collection.Clear()
				}
			})
			fn(f)
		})
	}

	run("CollectionIsNotNil", func(f *fixture) {
		if f.collection == nil {
			f.t.Fatalf("expected constructor to return a container")
		}
	})

	run("IsEmptyOnCreate", func(f *fixture) {
		if !f.collection.Empty() {
			f.t.Fatalf("expected new container to be empty")
		}
		if f.collection.Size() != 0 {
			f.t.Fatalf("expected size 0, got %d", f.collection.Size())
		}
	})

	run("CanAddToEmptyVector", func(f *fixture) {
		if !f.collection.Empty() {
			f.t.Fatalf("expected new container to be empty")
		}
		f.addEntries(1)
		if f.collection.Size() != 1 {
			f.t.Fatalf("expected size 1, got %d", f.collection.Size())
		}
	})

	run("CanAddFiveValuesToVector", func(f *fixture) {
		if !f.collection.Empty() {
			f.t.Fatalf("expected new container to be empty")
		}
		f.addEntries(5)
		if f.collection.Size() != 5 {
			f.t.Fatalf("expected size 5, got %d", f.collection.Size())
		}
	})

	run("MaxSizeGreaterThanOrEqualToSize", func(f *fixture) {
		for _, n := range []int{1, 5, 10} {
			f.collection.Clear()
			f.addEntries(n)
			if f.collection.MaxSize() < f.collection.Size() {
				f.t.Fatalf("max size %d below size %d", f.collection.MaxSize(), f.collection.Size())
			}
		}
	})

	run("CapacityGreaterThanOrEqualToSize", func(f *fixture) {
		for _, n := range []int{1, 5, 10} {
			f.collection.Clear()
			f.addEntries(n)
			if f.collection.Capacity() < f.collection.Size() {
				f.t.Fatalf("capacity %d below size %d", f.collection.Capacity(), f.collection.Size())
			}
		}
	})

	run("ResizeIncreasesCollection", func(f *fixture) {
		f.collection.Resize(5)
		if f.collection.Size() != 5 {
			f.t.Fatalf("expected size 5 after resize, got %d", f.collection.Size())
		}
		f.collection.Resize(10)
		if f.collection.Size() != 10 {
			f.t.Fatalf("expected size 10 after resize, got %d", f.collection.Size())
		}
		for i, v := range f.collection.Values() {
			if v != 0 {
				f.t.Fatalf("expected zero value at %d after growing resize, got %d", i, v)
			}
		}
	})

	run("ResizeDecreasesCollection", func(f *fixture) {
		f.collection.Resize(10)
		f.collection.Resize(5)
		if f.collection.Size() != 5 {
			f.t.Fatalf("expected size 5 after shrinking resize, got %d", f.collection.Size())
		}
	})

	run("ResizeDecreasesToZero", func(f *fixture) {
		f.collection.Resize(5)
		f.collection.Resize(0)
		if !f.collection.Empty() {
			f.t.Fatalf("expected empty container after resize to zero, size=%d", f.collection.Size())
		}
	})

	run("ClearErasesCollection", func(f *fixture) {
		f.addEntries(5)
		f.collection.Clear()
		if !f.collection.Empty() {
			f.t.Fatalf("expected empty container after clear")
		}
		if f.collection.Size() != 0 {
			f.t.Fatalf("expected size 0 after clear, got %d", f.collection.Size())
		}
	})

	run("EraseRangeErasesCollection", func(f *fixture) {
		f.addEntries(5)
		f.collection.EraseRange(f.collection.Begin(), f.collection.End())
		if !f.collection.Empty() {
			f.t.Fatalf("expected empty container after erasing the full range, size=%d", f.collection.Size())
		}
	})

	run("ReserveIncreasesCapacityButNotSize", func(f *fixture) {
		f.addEntries(2)
		oldSize := f.collection.Size()
		oldCapacity := f.collection.Capacity()
		f.collection.Reserve(oldCapacity + 10)
		if f.collection.Size() != oldSize {
			f.t.Fatalf("expected size %d after reserve, got %d", oldSize, f.collection.Size())
		}
		if f.collection.Capacity() <= oldCapacity {
			f.t.Fatalf("expected capacity above %d after reserve, got %d", oldCapacity, f.collection.Capacity())
		}
	})

	run("AtFailsWhenAccessingOutOfBounds", func(f *fixture) {
		f.addEntries(3)
		expectOutOfRange(f.t, f.collection, 10)
	})

	run("AtFailsWhenAccessingNegativeIndex", func(f *fixture) {
		f.addEntries(3)
		expectOutOfRange(f.t, f.collection, -1)
		expectOutOfRange(f.t, f.collection, math.MaxInt)
	})

	run("ValuesAreInExpectedRange", func(f *fixture) {
		f.addEntries(100)
		for i, v := range f.collection.Values() {
			if v < 0 || v >= 100 {
				f.t.Fatalf("value %d at %d outside [0,100)", v, i)
			}
		}
	})
}

func expectOutOfRange(t *testing.T, c Container, index int) {
	t.Helper()
	_, err := c.At(index)
	if err == nil {
		t.Fatalf("expected At(%d) to fail on size %d", index, c.Size())
	}
	if !errors.Is(err, seqcore.ErrOutOfRange) {
		t.Fatalf("expected out of range error for At(%d), got %v", index, err)
	}
}
