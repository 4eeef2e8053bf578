package seqtest

import (
	"errors"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/goforj/seq/seqcore"
)

// RunContainerProperties checks the container invariants over generated
// inputs and operation sequences.
func RunContainerProperties(t *testing.T, newContainer func() Container) {
	t.Helper()

	t.Run("FreshContainerIsEmpty", func(t *testing.T) {
		c := newContainer()
		if !c.Empty() || c.Size() != 0 {
			t.Fatalf("expected empty container, size=%d", c.Size())
		}
		checkInvariants(t, c)
	})

	t.Run("AppendCountsElements", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			c := newContainer()
			values := rapid.SliceOfN(rapid.Int(), 1, 256).Draw(rt, "values")
			for _, v := range values {
				c.Append(v)
			}
			if c.Size() != len(values) {
				rt.Fatalf("expected size %d, got %d", len(values), c.Size())
			}
			if !slices.Equal(c.Values(), values) {
				rt.Fatalf("expected values %v, got %v", values, c.Values())
			}
			checkInvariants(rt, c)
		})
	})

	t.Run("ResizeTwiceSetsSize", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			c := newContainer()
			a := rapid.IntRange(0, 512).Draw(rt, "a")
			b := rapid.IntRange(0, 512).Draw(rt, "b")
			c.Resize(a)
			c.Resize(b)
			if c.Size() != b {
				rt.Fatalf("expected size %d, got %d", b, c.Size())
			}
			if b == 0 && !c.Empty() {
				rt.Fatalf("expected empty container after resize to zero")
			}
			checkInvariants(rt, c)
		})
	})

	t.Run("ClearAndFullEraseEmpty", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			values := rapid.SliceOfN(rapid.Int(), 0, 128).Draw(rt, "values")

			cleared := newContainer()
			cleared.Append(values...)
			cleared.Clear()
			if !cleared.Empty() || cleared.Size() != 0 {
				rt.Fatalf("expected empty after clear, size=%d", cleared.Size())
			}

			erased := newContainer()
			erased.Append(values...)
			erased.EraseRange(erased.Begin(), erased.End())
			if !erased.Empty() || erased.Size() != 0 {
				rt.Fatalf("expected empty after full erase, size=%d", erased.Size())
			}
			checkInvariants(rt, cleared)
			checkInvariants(rt, erased)
		})
	})

	t.Run("ReserveGrowsCapacityOnly", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			c := newContainer()
			c.Append(rapid.SliceOfN(rapid.Int(), 0, 64).Draw(rt, "values")...)
			k := rapid.IntRange(1, 256).Draw(rt, "k")
			before := c.Values()
			oldCapacity := c.Capacity()
			c.Reserve(oldCapacity + k)
			if c.Capacity() <= oldCapacity {
				rt.Fatalf("expected capacity above %d, got %d", oldCapacity, c.Capacity())
			}
			if !slices.Equal(c.Values(), before) {
				rt.Fatalf("reserve changed elements: %v -> %v", before, c.Values())
			}
			checkInvariants(rt, c)
		})
	})

	t.Run("AtRejectsIndexesAtOrPastSize", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			c := newContainer()
			c.Append(rapid.SliceOfN(rapid.Int(), 0, 64).Draw(rt, "values")...)
			index := rapid.OneOf(
				rapid.IntMin(c.Size()),
				rapid.IntMax(-1),
			).Draw(rt, "index")
			_, err := c.At(index)
			if !errors.Is(err, seqcore.ErrOutOfRange) {
				rt.Fatalf("expected out of range for At(%d) on size %d, got %v", index, c.Size(), err)
			}
		})
	})

	t.Run("OperationsMatchModel", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			c := newContainer()
			var model []int
			steps := rapid.IntRange(1, 64).Draw(rt, "steps")
			for i := 0; i < steps; i++ {
				switch rapid.IntRange(0, 4).Draw(rt, "op") {
				case 0:
					v := rapid.Int().Draw(rt, "append")
					c.Append(v)
					model = append(model, v)
				case 1:
					n := rapid.IntRange(0, 64).Draw(rt, "resize")
					c.Resize(n)
					if n <= len(model) {
						model = model[:n]
					} else {
						model = append(model, make([]int, n-len(model))...)
					}
				case 2:
					c.Clear()
					model = model[:0]
				case 3:
					begin := rapid.IntRange(0, len(model)).Draw(rt, "begin")
					end := rapid.IntRange(begin, len(model)).Draw(rt, "end")
					c.EraseRange(begin, end)
					model = slices.Delete(model, begin, end)
				case 4:
					c.Reserve(rapid.IntRange(0, 128).Draw(rt, "reserve"))
				}
				if !slices.Equal(c.Values(), model) {
					rt.Fatalf("step %d: expected %v, got %v", i, model, c.Values())
				}
				checkInvariants(rt, c)
			}
			for i, want := range model {
				got, err := c.At(i)
				if err != nil || got != want {
					rt.Fatalf("At(%d) = %d, %v; want %d", i, got, err, want)
				}
			}
		})
	})
}

type fatalfer interface {
	Helper()
	Fatalf(format string, args ...any)
}

func checkInvariants(t fatalfer, c Container) {
	t.Helper()
	if c.Size() < 0 || c.Size() > c.Capacity() || c.Capacity() > c.MaxSize() {
		t.Fatalf("invariant 0 <= size <= capacity <= max size broken: size=%d capacity=%d max=%d", c.Size(), c.Capacity(), c.MaxSize())
	}
	if c.Empty() != (c.Size() == 0) {
		t.Fatalf("empty=%v disagrees with size=%d", c.Empty(), c.Size())
	}
	if c.Begin() != 0 || c.End() != c.Size() {
		t.Fatalf("expected positions [0:%d), got [%d:%d)", c.Size(), c.Begin(), c.End())
	}
}
